package models

import "errors"

// Error categories. Concrete errors wrap one of these together with the cause,
// so callers classify with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrTransport     = errors.New("transport error")
	ErrLogSink       = errors.New("event log error")
)
