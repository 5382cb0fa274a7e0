package models

import "fmt"

// Phase is the direction of the current half-cycle.
type Phase int

const (
	Forward Phase = iota
	Backward
)

func (p Phase) String() string {
	switch p {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Stage marks where in a dwell an event was taken.
type Stage int

const (
	StageStart Stage = iota
	StageMoving
	StageEnd
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageMoving:
		return "moving"
	case StageEnd:
		return "end"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Waypoint is a target position in millimeters.
type Waypoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MotionEvent is a single log entry. Events are never mutated after creation.
type MotionEvent struct {
	ElapsedSeconds float64  `json:"elapsed_s"` // since session start
	Phase          Phase    `json:"-"`
	Stage          Stage    `json:"-"`
	Target         Waypoint `json:"target"`
}

// Label is the combined stage/phase tag written to the log, e.g. "moving_backward".
func (e MotionEvent) Label() string {
	return e.Stage.String() + "_" + e.Phase.String()
}

// LogRecord is the serialized row of a MotionEvent.
type LogRecord struct {
	ElapsedS float64 `json:"elapsed_s"`
	Label    string  `json:"label"`
	TargetX  float64 `json:"target_x"`
	TargetY  float64 `json:"target_y"`
}

// Record converts e to its log row.
func (e MotionEvent) Record() LogRecord {
	return LogRecord{
		ElapsedS: e.ElapsedSeconds,
		Label:    e.Label(),
		TargetX:  e.Target.X,
		TargetY:  e.Target.Y,
	}
}
