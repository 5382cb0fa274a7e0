package service

// LogFilter narrows the session history. Zero values mean no constraint.
type LogFilter struct {
	Stage string   // "", "start", "moving", "end"
	Phase string   // "", "forward", "backward"
	FromS *float64 // inclusive lower bound on elapsed seconds
	ToS   *float64 // inclusive upper bound on elapsed seconds
}
