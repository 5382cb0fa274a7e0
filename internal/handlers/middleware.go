package handlers

import (
	"errors"
	"net/http"
	"strings"

	"syringe_rig/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	operatorCtx       = "operator"
	errRemoteDisabled = "remote control is disabled"
)

func (h *Handler) operatorMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	subject, err := h.services.ParseToken(parts[1])
	if err != nil {
		if errors.Is(err, service.ErrAuthDisabled) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errRemoteDisabled})
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(operatorCtx, subject)
	c.Next()
}
