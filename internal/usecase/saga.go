package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

type stepFunc func(context.Context) error

type step struct {
	name string
	do   stepFunc
	undo stepFunc
}

// Saga spans several repository writes that cannot share one SQL
// transaction. When a step fails, the undo of every completed step runs
// newest first.
type Saga struct {
	name  string
	steps []step
}

func NewSaga(name string) *Saga {
	return &Saga{name: name}
}

// Step appends a step. undo may be nil for steps with nothing to revert.
func (s *Saga) Step(name string, do, undo stepFunc) *Saga {
	s.steps = append(s.steps, step{name: name, do: do, undo: undo})
	return s
}

// Run returns the failing step's error, joined with any undo errors.
// Undo runs even when ctx is already cancelled.
func (s *Saga) Run(ctx context.Context) error {
	for i, st := range s.steps {
		if err := st.do(ctx); err != nil {
			failure := fmt.Errorf("%s: step %q: %w", s.name, st.name, err)
			return errors.Join(failure, s.compensate(context.WithoutCancel(ctx), i))
		}
	}
	return nil
}

func (s *Saga) compensate(ctx context.Context, failed int) error {
	var errs []error
	for i := failed - 1; i >= 0; i-- {
		st := s.steps[i]
		if st.undo == nil {
			continue
		}
		if err := st.undo(ctx); err != nil {
			log.Error().Err(err).Str("saga", s.name).Str("step", st.name).Msg("❌ undo failed, data may be inconsistent")
			errs = append(errs, fmt.Errorf("undo %q: %w", st.name, err))
			continue
		}
		log.Warn().Str("saga", s.name).Str("step", st.name).Msg("↩️ step reverted")
	}
	return errors.Join(errs...)
}
