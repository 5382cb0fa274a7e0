package cancel

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
	"unicode"
)

// ErrNotTerminal is returned by WatchKey when the input is not a terminal.
var ErrNotTerminal = errors.New("cancel: input is not a terminal")

// KeyWatcher requests a stop on a Flag when a given key is typed.
type KeyWatcher struct {
	key     rune
	flag    *Flag
	restore func() error
	once    sync.Once
	done    chan struct{}
}

// WatchKey switches the terminal on in to unbuffered, no-echo mode and
// starts reading keys from it. Close restores the terminal. Interrupt keys
// keep generating signals.
func WatchKey(in *os.File, key rune, flag *Flag) (*KeyWatcher, error) {
	restore, err := makeCbreak(int(in.Fd()))
	if err != nil {
		return nil, err
	}
	w := newKeyWatcher(key, flag)
	w.restore = restore
	go w.scan(in)
	return w, nil
}

func newKeyWatcher(key rune, flag *Flag) *KeyWatcher {
	return &KeyWatcher{
		key:  unicode.ToLower(key),
		flag: flag,
		done: make(chan struct{}),
	}
}

// scan reads runes until the key is seen or r fails.
func (w *KeyWatcher) scan(r io.Reader) {
	defer close(w.done)
	br := bufio.NewReader(r)
	for {
		c, _, err := br.ReadRune()
		if err != nil {
			return
		}
		if unicode.ToLower(c) == w.key {
			w.flag.Request("key " + string(w.key))
			return
		}
	}
}

func (w *KeyWatcher) StopRequested() bool {
	return w.flag.StopRequested()
}

// Close restores the terminal mode. The reader goroutine exits with the
// process if it is still blocked on input.
func (w *KeyWatcher) Close() error {
	var err error
	w.once.Do(func() {
		if w.restore != nil {
			err = w.restore()
		}
	})
	return err
}
