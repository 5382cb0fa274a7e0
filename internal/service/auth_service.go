package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTTL     = time.Hour
	operatorSubj = "operator"
	tokenIssuer  = "syringe-rig"
)

// Domain errors for auth flows.
var (
	ErrAuthDisabled    = errors.New("remote control is disabled: no operator password configured")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthService guards the remote stop endpoint with a single operator
// password (stored as a bcrypt hash) and short-lived HS256 tokens.
type AuthService struct {
	passwordHash string
	signingKey   []byte
	now          func() time.Time
}

func NewAuthService(passwordHash, signingKey string) *AuthService {
	return &AuthService{
		passwordHash: strings.TrimSpace(passwordHash),
		signingKey:   []byte(signingKey),
		now:          time.Now,
	}
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
}

func (s *AuthService) enabled() bool {
	return s.passwordHash != "" && len(s.signingKey) > 0
}

// GenerateToken checks the operator password and returns a signed token.
func (s *AuthService) GenerateToken(password string) (string, error) {
	if !s.enabled() {
		return "", ErrAuthDisabled
	}
	if err := verifyPassword(s.passwordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorSubj,
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.signingKey)
}

// ParseToken validates accessToken and returns its subject.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	if !s.enabled() {
		return "", ErrAuthDisabled
	}
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject != operatorSubj {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// HashPassword returns the bcrypt hash to put in auth.password_hash.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
