package service

import (
	"fmt"
	"time"

	"syringe_rig/internal/models"
)

// MotionProfile holds the two corners of the envelope and the dwell timing.
// It is derived once per session and never changes.
type MotionProfile struct {
	min        models.Waypoint
	max        models.Waypoint
	halfPeriod time.Duration
	sampling   time.Duration
}

// NewMotionProfile derives the profile from cfg.
func NewMotionProfile(cfg models.DeviceConfig) (MotionProfile, error) {
	if err := cfg.CheckTiming(); err != nil {
		return MotionProfile{}, err
	}
	if !cfg.XBounds.Valid() || !cfg.YBounds.Valid() {
		return MotionProfile{}, fmt.Errorf("%w: bad bounds x=%v y=%v", models.ErrConfiguration, cfg.XBounds, cfg.YBounds)
	}
	return MotionProfile{
		min:        models.Waypoint{X: cfg.XBounds.Min, Y: cfg.YBounds.Min},
		max:        models.Waypoint{X: cfg.XBounds.Max, Y: cfg.YBounds.Max},
		halfPeriod: HalfPeriod(cfg.FrequencyHz),
		sampling:   cfg.SamplingInterval,
	}, nil
}

// HalfPeriod is 1 / (2 * frequencyHz).
func HalfPeriod(frequencyHz float64) time.Duration {
	return time.Duration(float64(time.Second) / (2 * frequencyHz))
}

func (p MotionProfile) HalfPeriod() time.Duration       { return p.halfPeriod }
func (p MotionProfile) SamplingInterval() time.Duration { return p.sampling }

// TargetFor returns the max corner for Forward and the min corner for Backward.
func (p MotionProfile) TargetFor(phase models.Phase) models.Waypoint {
	if phase == models.Forward {
		return p.max
	}
	return p.min
}

// Origin is where the stage is parked on shutdown.
func (p MotionProfile) Origin() models.Waypoint { return p.min }

// Opposite returns the other phase.
func Opposite(phase models.Phase) models.Phase {
	if phase == models.Forward {
		return models.Backward
	}
	return models.Forward
}
