package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentctx/core"
)

// Step is one unit of work executed in order on the caller's branch.
type Step struct {
	Name string
	// Run executes the step. It may return a derived context (for example
	// one with a narrower principal bound); later steps then run on it. A nil
	// context leaves the branch unchanged.
	Run func(ctx context.Context) (context.Context, error)
}

// Sequential coordinates the execution of steps one after another.
//
// Unlike Parallel, all steps share a single branch: a binding made by one
// step is what later steps observe. The caller's own context is never
// modified.
type Sequential struct {
	name  string
	steps []Step
}

// NewSequential creates a new sequential execution coordinator.
func NewSequential(name string, steps ...Step) *Sequential {
	return &Sequential{name: name, steps: steps}
}

// Name returns the coordinator name.
func (s *Sequential) Name() string { return s.name }

// Run executes all steps in order and returns the context left by the last
// step. Errors stop further processing immediately. It fails with
// core.ErrContextNotBound when ctx has no agent context bound.
func (s *Sequential) Run(ctx context.Context) (context.Context, error) {
	if _, err := core.Current(ctx); err != nil {
		return ctx, fmt.Errorf("sequential %s: %w", s.name, err)
	}

	for _, step := range s.steps {
		if step.Run == nil {
			return ctx, fmt.Errorf("sequential %s: step %s: no run function", s.name, step.Name)
		}

		next, err := step.Run(ctx)
		if err != nil {
			return ctx, fmt.Errorf("sequential execution failed at step %s: %w", step.Name, err)
		}
		if next != nil {
			ctx = next
		}
	}

	return ctx, nil
}
