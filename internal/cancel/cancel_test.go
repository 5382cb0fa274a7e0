package cancel

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestFlag_FirstReasonWins(t *testing.T) {
	var f Flag
	if f.StopRequested() {
		t.Fatal("new flag should not be set")
	}
	if !f.Request("signal interrupt") {
		t.Fatal("first Request should report true")
	}
	if f.Request("key x") {
		t.Fatal("second Request should report false")
	}
	if !f.StopRequested() {
		t.Fatal("flag should be set")
	}
	if got := f.Reason(); got != "signal interrupt" {
		t.Fatalf("reason = %q", got)
	}
}

func TestKeyWatcher_Scan(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"other keys ignored", "abc\n", false},
		{"key pressed", "ab x", true},
		{"upper case", "X", true},
		{"empty input", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f Flag
			w := newKeyWatcher('x', &f)
			w.scan(strings.NewReader(tc.input))
			if f.StopRequested() != tc.want {
				t.Fatalf("stop = %v, want %v", f.StopRequested(), tc.want)
			}
			if tc.want && f.Reason() != "key x" {
				t.Fatalf("reason = %q", f.Reason())
			}
		})
	}
}

func TestWatchKey_NotATerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	var f Flag
	if _, err := WatchKey(r, 'x', &f); err != ErrNotTerminal {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}
}

func TestKeyWatcher_CloseIdempotent(t *testing.T) {
	calls := 0
	w := newKeyWatcher('x', &Flag{})
	w.restore = func() error { calls++; return nil }
	go w.scan(strings.NewReader("x"))

	select {
	case <-w.done:
	case <-time.After(time.Second):
		t.Fatal("scan did not finish")
	}
	_ = w.Close()
	_ = w.Close()
	if calls != 1 {
		t.Fatalf("restore called %d times", calls)
	}
	if !w.StopRequested() {
		t.Fatal("expected stop requested")
	}
}
