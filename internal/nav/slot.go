package nav

import (
	"context"
	"sync"
)

// Outcome of a single dynamic load.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDiscarded Outcome = "discarded"
	OutcomeFailed    Outcome = "failed"
)

// State is a snapshot of a Slot. Current keeps the last applied value while
// a newer load is pending or after it failed.
type State[T any] struct {
	Current    T
	HasCurrent bool
	Pending    bool
	Err        error
	Generation uint64
}

// Slot holds the value of the currently displayed page. Only the most
// recently started load may replace it.
type Slot[T any] struct {
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	state      State[T]
	observe    func(Outcome)
}

type Option[T any] func(*Slot[T])

// WithObserver reports the outcome of every load started through Navigate.
func WithObserver[T any](fn func(Outcome)) Option[T] {
	return func(s *Slot[T]) {
		s.observe = fn
	}
}

func NewSlot[T any](opts ...Option[T]) *Slot[T] {
	s := &Slot[T]{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Slot[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set replaces the current value directly and supersedes any pending load.
func (s *Slot[T]) Set(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.supersedeLocked()
	s.state = State[T]{
		Current:    value,
		HasCurrent: true,
		Generation: s.generation,
	}
}

// Navigation is the handle of one load started by Navigate.
type Navigation struct {
	generation uint64
	done       chan struct{}
	outcome    Outcome
	err        error
}

func (n *Navigation) Generation() uint64 {
	return n.generation
}

func (n *Navigation) Done() <-chan struct{} {
	return n.done
}

// Wait blocks until the load finished and reports whether its result was
// applied, discarded as stale, or failed.
func (n *Navigation) Wait() (Outcome, error) {
	<-n.done
	return n.outcome, n.err
}

// Navigate cancels any pending load and runs load in the background. The
// result is applied only if no newer load or Set happened in the meantime.
func (s *Slot[T]) Navigate(ctx context.Context, load func(ctx context.Context) (T, error)) *Navigation {
	s.mu.Lock()
	s.supersedeLocked()
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	generation := s.generation
	s.state.Pending = true
	s.state.Err = nil
	s.state.Generation = generation
	s.mu.Unlock()

	nav := &Navigation{generation: generation, done: make(chan struct{})}

	go func() {
		defer close(nav.done)
		defer cancel()

		value, err := load(loadCtx)
		nav.outcome, nav.err = s.finish(generation, value, err)
		if s.observe != nil {
			s.observe(nav.outcome)
		}
	}()

	return nav
}

func (s *Slot[T]) finish(generation uint64, value T, err error) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return OutcomeDiscarded, err
	}

	s.cancel = nil
	s.state.Pending = false
	if err != nil {
		s.state.Err = err
		return OutcomeFailed, err
	}

	s.state.Current = value
	s.state.HasCurrent = true
	s.state.Err = nil
	return OutcomeApplied, nil
}

func (s *Slot[T]) supersedeLocked() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
