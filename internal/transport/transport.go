// Package transport is the line-oriented link to the motion controller.
//
// Commands are fire-and-forget: a successful SendCommand only means the bytes
// were handed to the OS. The controller is never asked to acknowledge, so a
// dropped or corrupted command cannot be detected here.
package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"syringe_rig/internal/metrics"
	"syringe_rig/internal/models"

	"github.com/tarm/serial"
)

// Transport sends command lines to the controller.
type Transport interface {
	SendCommand(cmd string) error
	ReadAvailableLines() ([]string, error)
	Close() error
}

// Port is the raw byte link. *serial.Port satisfies it.
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread input and unsent output.
	Flush() error
}

const (
	lineTerminator   = "\n"
	defaultReadLimit = 64 << 10
	defaultTimeout   = 2 * time.Second
)

var errClosed = errors.New("link closed")

// Serial is a Transport over a Port. It is owned by one session and closed
// exactly once; Close after Close is a no-op.
type Serial struct {
	mu     sync.Mutex
	port   Port
	name   string
	closed bool
}

// Open opens the serial device named in cfg and discards anything left in
// its buffers from a previous session.
func Open(cfg models.DeviceConfig) (*Serial, error) {
	if strings.TrimSpace(cfg.Port) == "" {
		return nil, fmt.Errorf("%w: serial port is empty", models.ErrConfiguration)
	}
	if cfg.BaudRate <= 0 {
		return nil, fmt.Errorf("%w: baud rate %d must be positive", models.ErrConfiguration, cfg.BaudRate)
	}
	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.BaudRate,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", models.ErrTransport, cfg.Port, err)
	}

	s := New(p, cfg.Port)
	if err := p.Flush(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("%w: flush %s: %w", models.ErrTransport, cfg.Port, err)
	}
	return s, nil
}

// New wraps an already open Port.
func New(p Port, name string) *Serial {
	return &Serial{port: p, name: name}
}

// Name is the device identifier the link was opened with.
func (s *Serial) Name() string { return s.name }

// SendCommand writes cmd followed by a newline in a single write.
func (s *Serial) SendCommand(cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("%w: write %q: %w", models.ErrTransport, cmd, errClosed)
	}
	line := []byte(cmd + lineTerminator)
	n, err := s.port.Write(line)
	if err == nil && n < len(line) {
		err = io.ErrShortWrite
	}
	if err != nil {
		metrics.IncTransportError()
		return fmt.Errorf("%w: write %q: %w", models.ErrTransport, cmd, err)
	}
	metrics.IncGcodeCommand()
	return nil
}

// ReadAvailableLines reads until the port times out with nothing left and
// returns the non-empty lines received. Only used to surface diagnostic
// replies such as the M503 settings report.
func (s *Serial) ReadAvailableLines() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: read: %w", models.ErrTransport, errClosed)
	}

	var buf bytes.Buffer
	chunk := make([]byte, 256)
	for buf.Len() < defaultReadLimit {
		n, err := s.port.Read(chunk)
		buf.Write(chunk[:n])
		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			break
		}
		if err != nil {
			metrics.IncTransportError()
			return splitLines(buf.String()), fmt.Errorf("%w: read: %w", models.ErrTransport, err)
		}
	}
	return splitLines(buf.String()), nil
}

// Close releases the port. Safe to call more than once.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.port.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", models.ErrTransport, s.name, err)
	}
	return nil
}

func splitLines(raw string) []string {
	var out []string
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
