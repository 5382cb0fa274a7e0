package models

import "time"

// MotionStatus is the current snapshot of a running session.
type MotionStatus struct {
	SessionID  string    `json:"session_id"`
	Running    bool      `json:"running"`
	Phase      string    `json:"phase,omitempty"` // forward | backward
	Stage      string    `json:"stage,omitempty"` // start | moving | end
	Target     Waypoint  `json:"target"`
	Cycles     int       `json:"cycles"` // completed forward+backward pairs
	Events     int       `json:"events"`
	ElapsedS   float64   `json:"elapsed_s"`
	StopReason string    `json:"stop_reason,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}
