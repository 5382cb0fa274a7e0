package models

import (
	"fmt"
	"math"
	"time"
)

// Bounds is the closed interval an axis may move in.
type Bounds struct {
	Min float64
	Max float64
}

// Contains reports whether v lies in [Min, Max].
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Valid reports whether both ends are finite and Min <= Max.
func (b Bounds) Valid() bool {
	return finite(b.Min) && finite(b.Max) && b.Min <= b.Max
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// DeviceConfig is fixed for the whole session.
type DeviceConfig struct {
	Port        string
	BaudRate    int
	ReadTimeout time.Duration

	FeedRate      float64
	StepsPerUnitX float64 // negative reverses the axis
	StepsPerUnitY float64
	XBounds       Bounds
	YBounds       Bounds

	FrequencyHz      float64
	SamplingInterval time.Duration
}

// InitTiming holds the fixed waits used in place of device acknowledgements.
type InitTiming struct {
	ConnectSettle   time.Duration
	RestoreDefaults bool
	CommandGap      time.Duration
	HomingWait      time.Duration
	SettleWait      time.Duration
	ReportSettings  bool
	ParkWait        time.Duration
}

// CheckTiming rejects a frequency whose half period cannot be expressed as a
// time.Duration or is shorter than one sampling interval. Errors wrap
// ErrConfiguration.
func (c DeviceConfig) CheckTiming() error {
	if !finite(c.FrequencyHz) || c.FrequencyHz <= 0 {
		return fmt.Errorf("%w: frequency %v Hz must be positive and finite", ErrConfiguration, c.FrequencyHz)
	}
	if c.SamplingInterval <= 0 {
		return fmt.Errorf("%w: sampling interval %s must be positive", ErrConfiguration, c.SamplingInterval)
	}
	half := float64(time.Second) / (2 * c.FrequencyHz)
	if half >= math.MaxInt64 {
		return fmt.Errorf("%w: frequency %v Hz is too low, half period overflows", ErrConfiguration, c.FrequencyHz)
	}
	if d := time.Duration(half); d < c.SamplingInterval {
		return fmt.Errorf("%w: half period %s at %v Hz is shorter than sampling interval %s",
			ErrConfiguration, d, c.FrequencyHz, c.SamplingInterval)
	}
	return nil
}
