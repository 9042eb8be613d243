package discord

import (
	"context"
	"errors"
	"sync"
)

// ErrWatchClosed is returned by Changed when the watch closes without a new state.
var ErrWatchClosed = errors.New("discord: user watch closed")

// UserState is either Connected (User set) or Disconnected (Reason set).
type UserState struct {
	User   *User
	Reason error
}

func (s UserState) Connected() bool { return s.User != nil }

// UserWatch holds the latest UserState and lets callers wait for changes.
// Version 0 is the initial, never-published state.
type UserWatch struct {
	mu      sync.Mutex
	state   UserState
	version uint64
	changed chan struct{}
	closed  bool
}

func NewUserWatch() *UserWatch {
	return &UserWatch{changed: make(chan struct{})}
}

// Set publishes a new state and wakes every waiter.
func (w *UserWatch) Set(s UserState) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.state = s
	w.version++
	close(w.changed)
	w.changed = make(chan struct{})
}

// Close marks the watch closed. States already published stay readable.
func (w *UserWatch) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	close(w.changed)
}

// Current returns the latest state and its version.
func (w *UserWatch) Current() (UserState, uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state, w.version
}

// Changed blocks until a state newer than seen is published. It returns
// ErrWatchClosed if the watch closes first.
func (w *UserWatch) Changed(ctx context.Context, seen uint64) (UserState, uint64, error) {
	for {
		w.mu.Lock()
		if w.version > seen {
			s, v := w.state, w.version
			w.mu.Unlock()
			return s, v, nil
		}
		if w.closed {
			w.mu.Unlock()
			return UserState{}, seen, ErrWatchClosed
		}
		ch := w.changed
		w.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return UserState{}, seen, ctx.Err()
		}
	}
}
