package service

import (
	"context"
	"errors"
	"fmt"

	"syringe_rig/internal/cancel"
	"syringe_rig/internal/gcode"
	"syringe_rig/internal/logger"
	"syringe_rig/internal/metrics"
	"syringe_rig/internal/models"
	"syringe_rig/internal/repository"
	"syringe_rig/internal/transport"
)

// errStopRequested ends a dwell early. It never leaves Run.
var errStopRequested = errors.New("stop requested")

// MotionDeps are the resources a MotionLoop drives. The loop is their only
// user for the whole session.
type MotionDeps struct {
	Transport transport.Transport
	Events    repository.EventLog
	Profile   MotionProfile
	Watcher   cancel.Watcher
	Shutdown  *Shutdown
	Clock     Clock
	Status    *MonitoringService // optional
	SessionID string
	Log       *logger.Logger
}

// MotionLoop alternates Forward and Backward dwells until a stop is
// requested or a write fails, then runs the shutdown sequence.
//
// Cancellation is polled, never preemptive: at the top of every phase and at
// the head of every sampling tick. A stop seen inside a dwell leaves without
// that dwell's End event; a stop seen between phases leaves after a complete
// End.
type MotionLoop struct {
	tr       transport.Transport
	events   repository.EventLog
	profile  MotionProfile
	watcher  cancel.Watcher
	shutdown *Shutdown
	clock    Clock
	status   *MonitoringService
	session  string
	log      *logger.Logger

	start  sessionClock
	cycles int
}

func NewMotionLoop(d MotionDeps) *MotionLoop {
	clock := d.Clock
	if clock == nil {
		clock = SystemClock()
	}
	watcher := d.Watcher
	if watcher == nil {
		watcher = cancel.Never
	}
	return &MotionLoop{
		tr:       d.Transport,
		events:   d.Events,
		profile:  d.Profile,
		watcher:  watcher,
		shutdown: d.Shutdown,
		clock:    clock,
		status:   d.Status,
		session:  d.SessionID,
		log:      logger.Or(d.Log),
	}
}

// Run drives the stage until cancellation or a fatal error. Cancellation
// returns nil. Transport and event log errors are returned after the
// shutdown sequence has run; they are never retried.
func (m *MotionLoop) Run(ctx context.Context) (err error) {
	m.start = newSessionClock(m.clock)
	m.status.begin(m.session)
	m.log.Infow("motion_start",
		"half_period", m.profile.HalfPeriod(),
		"sampling_interval", m.profile.SamplingInterval(),
		"forward_target", m.profile.TargetFor(models.Forward),
		"backward_target", m.profile.TargetFor(models.Backward),
	)

	reason := ""
	defer func() {
		if m.shutdown != nil {
			if serr := m.shutdown.Run(); serr != nil {
				m.log.Warnw("shutdown_incomplete", "err", serr)
			}
		}
		m.status.finish(reason, err)
	}()

	phase := models.Forward
	for {
		if m.stopRequested(ctx) {
			reason = "cancelled between phases"
			m.log.Infow("motion_stop", "reason", reason, "cycles", m.cycles)
			return nil
		}
		if err := m.runPhase(ctx, phase); err != nil {
			if errors.Is(err, errStopRequested) {
				reason = "cancelled during " + phase.String() + " dwell"
				m.log.Infow("motion_stop", "reason", reason, "cycles", m.cycles)
				return nil
			}
			reason = "fatal error"
			m.log.Errorw("motion_aborted", "phase", phase.String(), "err", err)
			return err
		}
		if phase == models.Backward {
			m.cycles++
			m.status.setCycles(m.cycles)
			metrics.SetCycles(m.cycles)
		}
		phase = Opposite(phase)
	}
}

// runPhase performs one dwell: Start, move command, sampled Moving events,
// End. Sampling ticks sit on a fixed grid from phase entry so sleep overruns
// do not accumulate.
func (m *MotionLoop) runPhase(ctx context.Context, phase models.Phase) error {
	target := m.profile.TargetFor(phase)
	half := m.profile.HalfPeriod()
	interval := m.profile.SamplingInterval()

	entered := m.clock.Now()
	if err := m.emit(ctx, phase, models.StageStart, target); err != nil {
		return err
	}
	if err := m.tr.SendCommand(gcode.Move(target.X, target.Y)); err != nil {
		return fmt.Errorf("move to %s target: %w", phase, err)
	}

	for {
		inPhase := m.clock.Now().Sub(entered)
		if inPhase >= half {
			break
		}
		if m.stopRequested(ctx) {
			return errStopRequested
		}
		if err := m.emit(ctx, phase, models.StageMoving, target); err != nil {
			return err
		}
		next := inPhase/interval + 1
		sleepUntil(m.clock, entered.Add(next*interval))
	}

	metrics.ObserveDwell(m.clock.Now().Sub(entered))
	return m.emit(ctx, phase, models.StageEnd, target)
}

func (m *MotionLoop) emit(ctx context.Context, phase models.Phase, stage models.Stage, target models.Waypoint) error {
	e := models.MotionEvent{
		ElapsedSeconds: m.start.elapsed(),
		Phase:          phase,
		Stage:          stage,
		Target:         target,
	}
	// A cancelled ctx must not turn the final End row into a sink error.
	if err := m.events.Append(context.WithoutCancel(ctx), e); err != nil {
		return err
	}
	metrics.IncMotionEvent(stage)
	m.status.record(e)
	if stage != models.StageMoving {
		m.log.Debugw("phase_"+stage.String(), "phase", phase.String(), "elapsed_s", e.ElapsedSeconds)
	}
	return nil
}

func (m *MotionLoop) stopRequested(ctx context.Context) bool {
	return ctx.Err() != nil || m.watcher.StopRequested()
}
