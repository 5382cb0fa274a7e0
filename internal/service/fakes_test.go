package service

import (
	"context"
	"fmt"
	"time"

	"syringe_rig/internal/models"
)

// ---- Test doubles ----

// fakeClock advances virtual time only when Sleep is called.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func (c *fakeClock) total() time.Duration {
	var sum time.Duration
	for _, d := range c.sleeps {
		sum += d
	}
	return sum
}

// transportStub records commands. failFn, if set, decides per call whether
// the write fails; n counts SendCommand calls from 0.
type transportStub struct {
	cmds    []string
	failFn  func(cmd string, n int) bool
	calls   int
	closes  int
	reply   []string
	readErr error
}

func (s *transportStub) SendCommand(cmd string) error {
	n := s.calls
	s.calls++
	if s.failFn != nil && s.failFn(cmd, n) {
		return fmt.Errorf("%w: write %q: link down", models.ErrTransport, cmd)
	}
	s.cmds = append(s.cmds, cmd)
	return nil
}

func (s *transportStub) ReadAvailableLines() ([]string, error) {
	return s.reply, s.readErr
}

func (s *transportStub) Close() error {
	s.closes++
	return nil
}

// eventLogStub keeps appended events in memory. failAt, if positive, makes
// the Nth append (1-based) fail.
type eventLogStub struct {
	events []models.MotionEvent
	failAt int
	closes int
}

func (e *eventLogStub) Append(_ context.Context, ev models.MotionEvent) error {
	if e.failAt > 0 && len(e.events)+1 == e.failAt {
		return fmt.Errorf("%w: disk full", models.ErrLogSink)
	}
	e.events = append(e.events, ev)
	return nil
}

func (e *eventLogStub) Close() error {
	e.closes++
	return nil
}

func (e *eventLogStub) labels() []string {
	out := make([]string, len(e.events))
	for i, ev := range e.events {
		out[i] = ev.Label()
	}
	return out
}

func rigConfig(freq float64, sampling time.Duration) models.DeviceConfig {
	return models.DeviceConfig{
		Port:             "/dev/ttyACM0",
		BaudRate:         115200,
		FeedRate:         1000,
		StepsPerUnitX:    178,
		StepsPerUnitY:    -178,
		XBounds:          models.Bounds{Min: 0, Max: 50},
		YBounds:          models.Bounds{Min: 0, Max: 50},
		FrequencyHz:      freq,
		SamplingInterval: sampling,
	}
}
