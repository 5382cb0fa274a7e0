package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"syringe_rig/internal/models"

	"github.com/google/uuid"
)

const (
	insertEventSQL = `
		INSERT INTO motion_events (session_id, elapsed_s, label, target_x, target_y)
		VALUES (?, ?, ?, ?, ?)
	`
	selectSessionEventsSQL = `SELECT elapsed_s, label, target_x, target_y FROM motion_events WHERE session_id = ? ORDER BY id ASC`
)

// EventSQLite appends events to the motion_events table. Several sessions can
// share one database file; rows are told apart by session id.
type EventSQLite struct {
	mu        sync.Mutex
	db        *sql.DB
	reader    *sql.DB
	sessionID string
	closed    bool
}

// NewEventSQLite returns a sink writing under a fresh session id. Reads share
// the writer handle until WithReader gives them their own.
func NewEventSQLite(db *sql.DB) *EventSQLite {
	return &EventSQLite{db: db, sessionID: uuid.NewString()}
}

// WithReader routes List through reader so history queries cannot queue
// Append behind them. The sink closes reader on Close.
func (r *EventSQLite) WithReader(reader *sql.DB) *EventSQLite {
	r.reader = reader
	return r
}

// SessionID identifies the rows written by this sink.
func (r *EventSQLite) SessionID() string { return r.sessionID }

// Append inserts one row for e.
func (r *EventSQLite) Append(ctx context.Context, e models.MotionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("%w: append to closed sqlite log", models.ErrLogSink)
	}
	rec := e.Record()
	_, err := r.db.ExecContext(ctx, insertEventSQL,
		r.sessionID,
		rec.ElapsedS,
		rec.Label,
		rec.TargetX,
		rec.TargetY,
	)
	if err != nil {
		return fmt.Errorf("%w: insert event: %w", models.ErrLogSink, err)
	}
	return nil
}

// List returns this session's rows in insertion order.
func (r *EventSQLite) List(ctx context.Context) ([]models.LogRecord, error) {
	conn := r.reader
	if conn == nil {
		conn = r.db
	}
	rows, err := conn.QueryContext(ctx, selectSessionEventsSQL, r.sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: query events: %w", models.ErrLogSink, err)
	}
	defer rows.Close()

	out := make([]models.LogRecord, 0, 64)
	for rows.Next() {
		var rec models.LogRecord
		if err := rows.Scan(&rec.ElapsedS, &rec.Label, &rec.TargetX, &rec.TargetY); err != nil {
			return nil, fmt.Errorf("%w: scan event: %w", models.ErrLogSink, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate events: %w", models.ErrLogSink, err)
	}
	return out, nil
}

// Close closes the database. Safe to call more than once.
func (r *EventSQLite) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	var errs []error
	if r.reader != nil {
		if err := r.reader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%w: close sqlite reader: %w", models.ErrLogSink, err))
		}
	}
	if err := r.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("%w: close sqlite: %w", models.ErrLogSink, err))
	}
	return errors.Join(errs...)
}
