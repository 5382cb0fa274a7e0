package service

import "time"

// Clock is the time source of the motion loop. Sleep blocks the caller; the
// loop has no other work to yield to while it waits.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock uses the monotonic wall clock.
func SystemClock() Clock { return systemClock{} }

// sleepUntil blocks until deadline; it returns at once if deadline has passed.
func sleepUntil(c Clock, deadline time.Time) {
	if d := deadline.Sub(c.Now()); d > 0 {
		c.Sleep(d)
	}
}

// sessionClock measures seconds since session start. Readings never go
// backwards even if the underlying clock does.
type sessionClock struct {
	c    Clock
	t0   time.Time
	last float64
}

func newSessionClock(c Clock) sessionClock {
	return sessionClock{c: c, t0: c.Now()}
}

func (s *sessionClock) elapsed() float64 {
	e := s.c.Now().Sub(s.t0).Seconds()
	if e < s.last {
		return s.last
	}
	s.last = e
	return e
}
