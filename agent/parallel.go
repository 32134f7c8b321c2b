package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/agentctx/core"
	"github.com/hupe1980/agentctx/logging"
)

// Branch is one unit of work executed on its own goroutine.
type Branch struct {
	// Name labels the branch; it is appended to the parent's branch path.
	Name string
	// Run executes the branch. ctx already carries the adopted agent context.
	Run func(ctx context.Context) error
}

// ParallelOptions configures a Parallel coordinator.
type ParallelOptions struct {
	// MaxConcurrency bounds the number of branches running at once. Zero or
	// negative means unlimited.
	MaxConcurrency int

	// Timeout bounds the whole fan-out. Zero disables it.
	Timeout time.Duration

	// Logger receives branch lifecycle entries. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Parallel coordinates the concurrent execution of branches.
//
// Every branch receives a context that adopted a snapshot of the caller's
// agent context taken before any branch starts. All branches run to
// completion even when siblings fail; failures are joined and returned once
// every branch has finished.
type Parallel struct {
	name string
	opts ParallelOptions
}

// NewParallel creates a new parallel execution coordinator.
func NewParallel(name string, optFns ...func(o *ParallelOptions)) *Parallel {
	opts := ParallelOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Parallel{name: name, opts: opts}
}

// Name returns the coordinator name used in branch paths.
func (p *Parallel) Name() string { return p.name }

// branchCtx derives the isolated context for one branch: it adopts snap and
// labels the branch path "<parent>.<coordinator>.<branch>".
func (p *Parallel) branchCtx(ctx context.Context, snap core.Snapshot, b Branch) context.Context {
	path := buildBranchPath(BranchPath(ctx), buildBranchPath(p.name, b.Name))
	return withBranchPath(core.Adopt(ctx, snap), path)
}

// Run executes all branches concurrently. It fails with core.ErrContextNotBound
// before starting anything when ctx has no agent context bound.
func (p *Parallel) Run(ctx context.Context, branches ...Branch) error {
	snap, err := core.Fork(ctx)
	if err != nil {
		return fmt.Errorf("parallel %s: %w", p.name, err)
	}

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	logger := logging.ForComponent(core.LoggerFrom(ctx, p.opts.Logger), "parallel")

	// Branch errors are collected rather than returned to the group so one
	// failure does not cancel its siblings.
	var g errgroup.Group
	if p.opts.MaxConcurrency > 0 {
		g.SetLimit(p.opts.MaxConcurrency)
	}

	errs := make([]error, len(branches))

	for i, b := range branches {
		g.Go(func() error {
			bctx := p.branchCtx(ctx, snap, b)

			if b.Run == nil {
				errs[i] = fmt.Errorf("branch %s: no run function", b.Name)
				return nil
			}

			if err := bctx.Err(); err != nil {
				errs[i] = fmt.Errorf("branch %s: %w", b.Name, err)
				return nil
			}

			blog := logging.ForBranch(logger, BranchPath(bctx))
			blog.Debug("parallel.branch.start")

			if err := b.Run(bctx); err != nil {
				blog.Warn("parallel.branch.failed", "error", err.Error())
				errs[i] = fmt.Errorf("branch %s: %w", b.Name, err)
				return nil
			}

			blog.Debug("parallel.branch.done")

			return nil
		})
	}

	_ = g.Wait()

	return errors.Join(errs...)
}
