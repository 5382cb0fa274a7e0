// Package cancel provides the polled stop signal the motion loop checks at
// its poll points. Nothing here interrupts the loop; a request only takes
// effect the next time StopRequested is called.
package cancel

import (
	"sync"
	"sync/atomic"
)

// Watcher reports whether the session should stop.
type Watcher interface {
	StopRequested() bool
}

// WatcherFunc adapts a plain function to Watcher.
type WatcherFunc func() bool

func (f WatcherFunc) StopRequested() bool { return f() }

// Never is a Watcher that never requests a stop.
var Never Watcher = WatcherFunc(func() bool { return false })

// Flag is a one-way stop request shared between the signal handler, the key
// watcher and the HTTP stop endpoint. The first reason wins.
type Flag struct {
	requested atomic.Bool
	mu        sync.Mutex
	reason    string
}

// Request sets the flag. It returns true only for the call that set it.
func (f *Flag) Request(reason string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.requested.Load() {
		return false
	}
	f.reason = reason
	f.requested.Store(true)
	return true
}

func (f *Flag) StopRequested() bool {
	return f.requested.Load()
}

// Reason returns the reason given to the first Request, or "".
func (f *Flag) Reason() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reason
}
