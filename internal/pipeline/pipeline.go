// Package pipeline runs the split, update, and merge stages as ordered
// steps, aborting on the first failure.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Step is one stage of the update pipeline: an opaque unit of work with a
// success/failure outcome.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepError reports which step failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Runner executes steps sequentially, stopping at the first failure.
type Runner struct {
	logger *zap.Logger
	steps  []Step
}

// New creates a runner over the given steps.
func New(logger *zap.Logger, steps ...Step) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, steps: steps}
}

// Run executes every step in order. The first failing step aborts the
// pipeline; later steps are never attempted.
func (r *Runner) Run(ctx context.Context) error {
	for i, step := range r.steps {
		r.logger.Info("pipeline step starting",
			zap.Int("step", i+1),
			zap.Int("total", len(r.steps)),
			zap.String("name", step.Name))

		start := time.Now()
		if err := step.Run(ctx); err != nil {
			r.logger.Error("pipeline step failed, aborting",
				zap.String("name", step.Name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return &StepError{Step: step.Name, Err: err}
		}

		r.logger.Info("pipeline step finished",
			zap.String("name", step.Name),
			zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}
