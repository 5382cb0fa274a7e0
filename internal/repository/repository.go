package repository

import (
	"context"
	"fmt"
	"strings"

	"syringe_rig/internal/models"
	"syringe_rig/internal/repository/db"
)

// EventLog is an append-only sink for motion events. Rows are written in the
// order Append is called; nothing is ever updated or removed.
type EventLog interface {
	Append(ctx context.Context, e models.MotionEvent) error
	Close() error
}

// EventReader reads back the rows the current session wrote. Only the
// SQLite sink implements it.
type EventReader interface {
	List(ctx context.Context) ([]models.LogRecord, error)
}

// Sink drivers accepted by OpenEventLog.
const (
	DriverCSV    = "csv"
	DriverSQLite = "sqlite"
)

// OpenEventLog creates the sink for driver at path. Errors wrap models.ErrLogSink.
func OpenEventLog(driver, path string) (EventLog, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverCSV, "":
		return NewEventCSV(path)
	case DriverSQLite:
		conn, err := db.InitDB(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrLogSink, err)
		}
		reader, err := db.OpenReader(path)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%w: %w", models.ErrLogSink, err)
		}
		return NewEventSQLite(conn).WithReader(reader), nil
	default:
		return nil, fmt.Errorf("%w: unknown event log driver %q", models.ErrConfiguration, driver)
	}
}
