// Package timer drives the focus countdown: a single session ticking down
// one second at a time, with a durable record appended on completion.
package timer

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/blossomapp/blossom/internal/model"
	"github.com/blossomapp/blossom/internal/store"
)

// DefaultDuration is the full countdown length when none is configured.
const DefaultDuration = 25 * time.Minute

// ErrEngineActive is returned by New while another engine is open. Only
// one focus session exists per process.
var ErrEngineActive = errors.New("a focus engine is already active")

var (
	activeMu gosync.Mutex
	active   bool
)

// Config holds the engine settings.
type Config struct {
	// Duration is the full countdown length. Zero means DefaultDuration.
	Duration time.Duration

	// Notify, when set, is called with the session record after each
	// completed countdown. It runs on the tick goroutine; keep it short.
	Notify func(model.FocusSession)

	// Logger for persistence failures. The zero value logs nothing.
	Logger zerolog.Logger
}

// Engine is the countdown state machine. External schedulers drive it
// through Run (a ticking loop) or Tick (one step); all state lives behind
// the mutex, never in closures.
type Engine struct {
	history store.Collection[*model.FocusSession]
	user    model.Identity
	full    time.Duration
	notify  func(model.FocusSession)
	log     zerolog.Logger

	mu        gosync.Mutex
	remaining time.Duration
	running   bool
	sessions  []*model.FocusSession
	closed    bool

	stopCh chan struct{}
}

// New creates the process's focus engine. It fails with ErrEngineActive if
// another engine has not been closed yet.
func New(
	history store.Collection[*model.FocusSession],
	user model.Identity,
	cfg Config,
) (*Engine, error) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active {
		return nil, ErrEngineActive
	}
	active = true

	full := cfg.Duration
	if full <= 0 {
		full = DefaultDuration
	}
	return &Engine{
		history:   history,
		user:      user,
		full:      full,
		notify:    cfg.Notify,
		log:       cfg.Logger,
		remaining: full,
		stopCh:    make(chan struct{}),
	}, nil
}

// Close stops the tick loop and releases the single-instance guard. No
// tick fires after Close returns.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.stopCh)
	e.mu.Unlock()

	activeMu.Lock()
	active = false
	activeMu.Unlock()
}

// Start begins (or resumes) the countdown. No effect while already running.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
}

// Pause stops the countdown, preserving the remaining time exactly.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

// Reset stops the countdown and restores the full configured duration,
// from any state.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
	e.remaining = e.full
}

// Running reports whether the countdown is ticking.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Remaining returns the time left as display minutes and seconds.
func (e *Engine) Remaining() (minutes, seconds int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int(e.remaining / time.Minute), int(e.remaining % time.Minute / time.Second)
}

// Run drives the countdown with a one-second ticker until ctx is done or
// the engine is closed. Persistence failures on completion are logged and
// do not stop the loop.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case <-ticker.C:
			if err := e.Tick(ctx); err != nil {
				e.log.Error().Err(err).Msg("focus session completion")
			}
		}
	}
}

// Tick advances the countdown by one logical second. A tick while paused
// is a no-op. The tick that crosses zero invokes completion exactly once:
// the session record is persisted and the timer rolls over to the full
// duration, stopped.
func (e *Engine) Tick(ctx context.Context) error {
	e.mu.Lock()
	if !e.running || e.closed {
		e.mu.Unlock()
		return nil
	}
	if e.remaining > time.Second {
		e.remaining -= time.Second
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	return e.complete(ctx)
}

// complete finalizes the session: stop, record, roll over, notify. The
// timer resets even when the history append fails; the error is surfaced
// but the reset is not held hostage to persistence.
func (e *Engine) complete(ctx context.Context) error {
	rec := &model.FocusSession{
		Duration:    fmt.Sprintf("%dm", int(e.full.Minutes())),
		CompletedAt: time.Now().UTC(),
	}

	e.mu.Lock()
	e.running = false
	e.remaining = e.full
	e.mu.Unlock()

	var persistErr error
	if !e.user.IsZero() {
		if _, err := e.history.Insert(ctx, rec); err != nil {
			e.log.Error().Err(err).Msg("persisting focus session failed")
			persistErr = fmt.Errorf("persisting focus session: %w",
				errors.Join(model.ErrStoreUnavailable, err))
		} else {
			e.mu.Lock()
			e.sessions = append(e.sessions, rec)
			e.mu.Unlock()
		}
	}

	if e.notify != nil {
		e.notify(*rec)
	}
	return persistErr
}

// LoadHistory fetches the durable session history and replaces the
// in-memory list wholesale, in insertion order.
func (e *Engine) LoadHistory(ctx context.Context) error {
	if e.user.IsZero() {
		return nil
	}

	recs, err := e.history.FetchAll(ctx)
	if err != nil {
		e.log.Error().Err(err).Msg("loading focus history failed")
		return fmt.Errorf("loading focus history: %w",
			errors.Join(model.ErrStoreUnavailable, err))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions = recs
	return nil
}

// History returns a snapshot of the loaded session records.
func (e *Engine) History() []*model.FocusSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*model.FocusSession, len(e.sessions))
	copy(out, e.sessions)
	return out
}
