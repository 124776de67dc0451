// Package saga runs a sequence of steps where each completed step can be undone.
// If a step fails, the compensations of the steps that already completed run in
// reverse order and their errors are joined to the step's error.
package saga

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// DefaultCompensationTimeout bounds the rollback of a failed saga.
const DefaultCompensationTimeout = 30 * time.Second

// Step is one forward action and its undo. Compensate may be nil for steps with no side effects.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga accumulates compensations as steps succeed. Record is safe for concurrent use.
type Saga struct {
	mu      sync.Mutex
	name    string
	timeout time.Duration
	done    []Step
}

func New(name string) *Saga {
	return &Saga{name: name, timeout: DefaultCompensationTimeout}
}

// WithCompensationTimeout overrides the rollback deadline.
func (s *Saga) WithCompensationTimeout(d time.Duration) *Saga {
	s.timeout = d
	return s
}

// Run executes a step. On failure the saga is rolled back before the error is returned.
func (s *Saga) Run(ctx context.Context, step Step) error {
	if err := step.Action(ctx); err != nil {
		stepErr := fmt.Errorf("%s: %s: %w", s.name, step.Name, err)
		return s.rollback(stepErr)
	}
	s.mu.Lock()
	s.done = append(s.done, step)
	s.mu.Unlock()
	return nil
}

// Record registers a compensation for work already done outside Run,
// such as an upload performed by a concurrent fan-out.
func (s *Saga) Record(name string, compensate func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = append(s.done, Step{Name: name, Compensate: compensate})
}

// Abort rolls back every completed step and returns cause joined with any compensation errors.
func (s *Saga) Abort(cause error) error {
	return s.rollback(cause)
}

// rollback runs on its own context; the caller's may already be cancelled.
func (s *Saga) rollback(cause error) error {
	s.mu.Lock()
	done := s.done
	s.done = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	errs := []error{cause}
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			log.Printf("saga %s: compensation %q failed: %v", s.name, step.Name, err)
			errs = append(errs, fmt.Errorf("compensate %s: %w", step.Name, err))
		}
	}
	return errors.Join(errs...)
}
