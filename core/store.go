package core

import (
	"context"
	"errors"
)

// ErrContextNotBound is returned when ambient agent context is read on a
// branch where nothing was bound or adopted. It signals a wiring defect and is
// never retried.
var ErrContextNotBound = errors.New("agent context not bound")

// agentContextKey is the private key of the per-branch slot. The stored value
// is a *AgentContext; a typed nil marks a branch that adopted an empty
// snapshot and must therefore read as unbound.
type agentContextKey struct{}

// Bind returns a child of ctx in which ac is the active AgentContext. Code
// that receives the returned context (and anything derived from it) observes
// ac; ctx itself and any sibling derived from it are unaffected. Binding on a
// context that already carries a value shadows it.
func Bind(ctx context.Context, ac *AgentContext) context.Context {
	if ac == nil {
		panic("core: Bind called with nil AgentContext")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, agentContextKey{}, ac)
}

// Current returns the AgentContext bound on ctx or ErrContextNotBound.
func Current(ctx context.Context) (*AgentContext, error) {
	if ctx == nil {
		return nil, ErrContextNotBound
	}

	ac, ok := ctx.Value(agentContextKey{}).(*AgentContext)
	if !ok || ac == nil {
		return nil, ErrContextNotBound
	}

	return ac, nil
}

// MustCurrent is like Current but panics when nothing is bound.
func MustCurrent(ctx context.Context) *AgentContext {
	ac, err := Current(ctx)
	if err != nil {
		panic(err)
	}
	return ac
}

// IsBound reports whether ctx carries an AgentContext.
func IsBound(ctx context.Context) bool {
	_, err := Current(ctx)
	return err == nil
}

// Snapshot is a point-in-time capture of a bound AgentContext meant to be
// handed to a newly spawned goroutine. The zero value is an empty snapshot.
type Snapshot struct {
	ac *AgentContext
}

// AgentContext returns the captured value, or nil for the zero Snapshot.
func (s Snapshot) AgentContext() *AgentContext { return s.ac }

// IsZero reports whether the snapshot captured nothing.
func (s Snapshot) IsZero() bool { return s.ac == nil }

// Fork captures the AgentContext bound on ctx. Binds made on ctx's branch
// after Fork returns do not change the snapshot.
func Fork(ctx context.Context) (Snapshot, error) {
	ac, err := Current(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{ac: ac}, nil
}

// Adopt installs the snapshot on ctx and returns the resulting context. It is
// called once at the start of a spawned goroutine, before anything reads the
// ambient context. Afterwards the goroutine may Bind freely without affecting
// its parent or siblings.
//
// Adopting the zero Snapshot yields a context on which Current fails, even if
// ctx was derived from a bound parent.
func Adopt(ctx context.Context, s Snapshot) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, agentContextKey{}, s.ac)
}

// Go starts fn in a new goroutine on a context that adopted a snapshot of
// ctx. It returns ErrContextNotBound without starting anything when ctx is
// unbound.
func Go(ctx context.Context, fn func(ctx context.Context)) error {
	snap, err := Fork(ctx)
	if err != nil {
		return err
	}

	go fn(Adopt(ctx, snap))

	return nil
}
