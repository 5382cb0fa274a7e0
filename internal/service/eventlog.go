package service

import (
	"context"
	"errors"
	"strings"

	"syringe_rig/internal/models"
	"syringe_rig/internal/repository"
)

type EventLogService struct {
	reader repository.EventReader
}

func NewEventLogService(reader repository.EventReader) *EventLogService {
	return &EventLogService{reader: reader}
}

var (
	errInvalidRange = errors.New("invalid elapsed range: from_s must be <= to_s")
	errInvalidStage = errors.New("invalid stage: must be start, moving or end")
	errInvalidPhase = errors.New("invalid phase: must be forward or backward")
)

// IsFilterError reports whether err was caused by a bad LogFilter.
func IsFilterError(err error) bool {
	return errors.Is(err, errInvalidRange) || errors.Is(err, errInvalidStage) || errors.Is(err, errInvalidPhase)
}

func normalizeFilter(f LogFilter) (LogFilter, error) {
	f.Stage = strings.ToLower(strings.TrimSpace(f.Stage))
	f.Phase = strings.ToLower(strings.TrimSpace(f.Phase))

	switch f.Stage {
	case "", models.StageStart.String(), models.StageMoving.String(), models.StageEnd.String():
	default:
		return LogFilter{}, errInvalidStage
	}
	switch f.Phase {
	case "", models.Forward.String(), models.Backward.String():
	default:
		return LogFilter{}, errInvalidPhase
	}
	if f.FromS != nil && f.ToS != nil && *f.FromS > *f.ToS {
		return LogFilter{}, errInvalidRange
	}
	return f, nil
}

func (f LogFilter) match(rec models.LogRecord) bool {
	stage, phase, _ := strings.Cut(rec.Label, "_")
	if f.Stage != "" && stage != f.Stage {
		return false
	}
	if f.Phase != "" && phase != f.Phase {
		return false
	}
	if f.FromS != nil && rec.ElapsedS < *f.FromS {
		return false
	}
	if f.ToS != nil && rec.ElapsedS > *f.ToS {
		return false
	}
	return true
}

// List returns the session's records that match f, in log order.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.LogRecord, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	all, err := s.reader.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, rec := range all {
		if f.match(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}
