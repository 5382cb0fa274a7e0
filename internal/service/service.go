package service

import (
	"context"

	"syringe_rig/internal/models"
)

// Authorization issues and checks operator tokens.
type Authorization interface {
	GenerateToken(password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Monitoring exposes the read-only session snapshot.
type Monitoring interface {
	GetState(ctx context.Context) (models.MotionStatus, error)
}

// Control requests a cooperative stop. It returns false if a stop was
// already pending. *cancel.Flag implements it.
type Control interface {
	Request(reason string) bool
}

// EventLog reads back the session history.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.LogRecord, error)
}

// Service aggregates what the HTTP layer needs. EventLog is nil when the
// active sink cannot be read back.
type Service struct {
	Monitoring
	Control
	Authorization
	EventLog EventLog
}

func NewService(mon Monitoring, ctl Control, auth Authorization, events EventLog) *Service {
	return &Service{
		Monitoring:    mon,
		Control:       ctl,
		Authorization: auth,
		EventLog:      events,
	}
}
