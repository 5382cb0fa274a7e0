package service

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"syringe_rig/internal/gcode"
	"syringe_rig/internal/logger"
	"syringe_rig/internal/models"
	"syringe_rig/internal/transport"
)

// Shutdown parks the stage, disables the motors and releases the session's
// resources. Every step is attempted even if an earlier one failed, and the
// whole sequence runs at most once no matter how many exit paths call Run.
type Shutdown struct {
	tr       transport.Transport
	park     models.Waypoint
	parkWait time.Duration
	clock    Clock
	log      *logger.Logger

	mu      sync.Mutex
	closers []namedCloser
	once    sync.Once
	done    bool
	err     error
}

type namedCloser struct {
	name string
	c    io.Closer
}

// NewShutdown prepares the sequence for tr. park is the origin-return target.
func NewShutdown(tr transport.Transport, park models.Waypoint, parkWait time.Duration, clock Clock, log *logger.Logger) *Shutdown {
	if clock == nil {
		clock = SystemClock()
	}
	return &Shutdown{
		tr:       tr,
		park:     park,
		parkWait: parkWait,
		clock:    clock,
		log:      logger.Or(log),
	}
}

// Own registers c to be closed after the transport, in registration order.
func (s *Shutdown) Own(name string, c io.Closer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closers = append(s.closers, namedCloser{name: name, c: c})
}

// Run executes the sequence once. Later calls return the first result.
// Failures are logged and joined into the returned error; they never stop
// the remaining steps.
func (s *Shutdown) Run() error {
	s.once.Do(func() {
		var errs []error

		parked := true
		if err := s.tr.SendCommand(gcode.Move(s.park.X, s.park.Y)); err != nil {
			s.log.Warnw("shutdown_origin_return_failed", "err", err)
			errs = append(errs, err)
			parked = false
		}
		if parked && s.parkWait > 0 {
			s.clock.Sleep(s.parkWait)
		}
		if err := s.tr.SendCommand(gcode.DisableMotors()); err != nil {
			s.log.Warnw("shutdown_disable_motors_failed", "err", err)
			errs = append(errs, err)
		}
		if err := s.tr.Close(); err != nil {
			s.log.Warnw("shutdown_transport_close_failed", "err", err)
			errs = append(errs, err)
		}

		s.mu.Lock()
		closers := s.closers
		s.mu.Unlock()
		for _, nc := range closers {
			if err := nc.c.Close(); err != nil {
				s.log.Warnw("shutdown_close_failed", "resource", nc.name, "err", err)
				errs = append(errs, fmt.Errorf("close %s: %w", nc.name, err))
			}
		}

		s.mu.Lock()
		s.done = true
		s.mu.Unlock()
		s.err = errors.Join(errs...)
		if s.err == nil {
			s.log.Infow("shutdown_complete", "park_x", s.park.X, "park_y", s.park.Y)
		}
	})
	return s.err
}

// Done reports whether the sequence has run.
func (s *Shutdown) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
