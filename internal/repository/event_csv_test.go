package repository

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"syringe_rig/internal/models"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return rows
}

func TestEventCSV_HeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motion_log.csv")
	sink, err := NewEventCSV(path)
	if err != nil {
		t.Fatalf("NewEventCSV: %v", err)
	}

	events := []models.MotionEvent{
		{ElapsedSeconds: 0, Phase: models.Forward, Stage: models.StageStart, Target: models.Waypoint{X: 50, Y: 50}},
		{ElapsedSeconds: 0.0104, Phase: models.Forward, Stage: models.StageMoving, Target: models.Waypoint{X: 50, Y: 50}},
		{ElapsedSeconds: 0.5, Phase: models.Backward, Stage: models.StageEnd, Target: models.Waypoint{X: 0, Y: 12.5}},
	}
	for _, e := range events {
		if err := sink.Append(ctx(t), e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	want := [][]string{
		{"Time (s)", "Phase", "X Target", "Y Target"},
		{"0.000", "start_forward", "50", "50"},
		{"0.010", "moving_forward", "50", "50"},
		{"0.500", "end_backward", "0", "12.5"},
	}
	if got := readCSV(t, path); !reflect.DeepEqual(got, want) {
		t.Fatalf("rows:\n got %v\nwant %v", got, want)
	}
}

func TestEventCSV_RowsVisibleBeforeClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.csv")
	sink, err := NewEventCSV(path)
	if err != nil {
		t.Fatalf("NewEventCSV: %v", err)
	}
	defer sink.Close()

	if err := sink.Append(ctx(t), models.MotionEvent{Stage: models.StageStart}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if got := len(readCSV(t, path)); got != 2 {
		t.Fatalf("expected header + 1 row on disk, got %d rows", got)
	}
}

func TestEventCSV_CloseIdempotentAndAppendAfterClose(t *testing.T) {
	sink, err := NewEventCSV(filepath.Join(t.TempDir(), "log.csv"))
	if err != nil {
		t.Fatalf("NewEventCSV: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := sink.Append(ctx(t), models.MotionEvent{}); !errors.Is(err, models.ErrLogSink) {
		t.Fatalf("expected ErrLogSink, got %v", err)
	}
}

func TestNewEventCSV_UnwritablePath(t *testing.T) {
	_, err := NewEventCSV(filepath.Join(t.TempDir(), "missing", "dir", "log.csv"))
	if !errors.Is(err, models.ErrLogSink) {
		t.Fatalf("expected ErrLogSink, got %v", err)
	}
}

func TestOpenEventLog_Drivers(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv default", func(t *testing.T) {
		l, err := OpenEventLog("", filepath.Join(dir, "a.csv"))
		if err != nil {
			t.Fatalf("OpenEventLog: %v", err)
		}
		if _, ok := l.(*EventCSV); !ok {
			t.Fatalf("expected *EventCSV, got %T", l)
		}
		_ = l.Close()
	})

	t.Run("sqlite round trip", func(t *testing.T) {
		l, err := OpenEventLog("SQLite", filepath.Join(dir, "events.db"))
		if err != nil {
			t.Fatalf("OpenEventLog: %v", err)
		}
		sink := l.(*EventSQLite)
		e := models.MotionEvent{ElapsedSeconds: 0.25, Phase: models.Backward, Stage: models.StageStart, Target: models.Waypoint{}}
		if err := sink.Append(ctx(t), e); err != nil {
			t.Fatalf("Append: %v", err)
		}
		got, err := sink.List(ctx(t))
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 || got[0].Label != "start_backward" {
			t.Fatalf("unexpected rows: %+v", got)
		}
		if err := sink.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenEventLog("parquet", filepath.Join(dir, "x"))
		if !errors.Is(err, models.ErrConfiguration) {
			t.Fatalf("expected ErrConfiguration, got %v", err)
		}
	})
}
