//go:build !linux && !darwin

package cancel

// Key watching needs termios; elsewhere only signals and the HTTP stop
// endpoint can cancel a session.
func makeCbreak(int) (func() error, error) {
	return nil, ErrNotTerminal
}
