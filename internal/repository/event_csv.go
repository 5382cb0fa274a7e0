package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"syringe_rig/internal/models"
)

// csvHeader names the columns of every CSV event log.
var csvHeader = []string{"Time (s)", "Phase", "X Target", "Y Target"}

// EventCSV writes one CSV row per event. Each row is flushed to the OS as it
// is appended, so a write failure surfaces on the Append that caused it.
type EventCSV struct {
	mu     sync.Mutex
	path   string
	f      *os.File
	w      *csv.Writer
	closed bool
}

// NewEventCSV creates (or truncates) path and writes the header row.
func NewEventCSV(path string) (*EventCSV, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", models.ErrLogSink, path, err)
	}
	r := &EventCSV{path: path, f: f, w: csv.NewWriter(f)}
	if err := r.writeRow(csvHeader); err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

// Append writes e as one row.
func (r *EventCSV) Append(_ context.Context, e models.MotionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("%w: append to closed log %s", models.ErrLogSink, r.path)
	}
	return r.writeRow(csvRow(e.Record()))
}

func (r *EventCSV) writeRow(row []string) error {
	if err := r.w.Write(row); err != nil {
		return fmt.Errorf("%w: write %s: %w", models.ErrLogSink, r.path, err)
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %w", models.ErrLogSink, r.path, err)
	}
	return nil
}

// Close flushes, syncs and closes the file. Safe to call more than once.
func (r *EventCSV) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	r.w.Flush()
	werr := r.w.Error()
	serr := r.f.Sync()
	cerr := r.f.Close()
	for _, err := range []error{werr, serr, cerr} {
		if err != nil {
			return fmt.Errorf("%w: close %s: %w", models.ErrLogSink, r.path, err)
		}
	}
	return nil
}

func csvRow(rec models.LogRecord) []string {
	return []string{
		strconv.FormatFloat(rec.ElapsedS, 'f', 3, 64),
		rec.Label,
		strconv.FormatFloat(rec.TargetX, 'f', -1, 64),
		strconv.FormatFloat(rec.TargetY, 'f', -1, 64),
	}
}
