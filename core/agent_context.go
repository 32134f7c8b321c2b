package core

import (
	"context"
	"reflect"

	"github.com/google/uuid"
)

// AuthContext carries the authorization facts for the principal an agent is
// acting on behalf of. The zero value describes an unauthenticated or
// system-initiated call.
type AuthContext struct {
	// PrincipalID identifies the acting principal (e.g. the end user). Empty
	// means absent.
	PrincipalID string `json:"principal_id,omitempty"`

	// Extra holds additional authorization data. It is passed through as-is and
	// never inspected by this package.
	Extra any `json:"extra,omitempty"`
}

// Principal returns the principal id and whether one is present.
func (a AuthContext) Principal() (string, bool) {
	return a.PrincipalID, a.PrincipalID != ""
}

// IsAuthenticated reports whether a principal is present.
func (a AuthContext) IsAuthenticated() bool { return a.PrincipalID != "" }

// Attr is a single key/value attribute attached to a span.
type Attr struct {
	Key   string
	Value any
}

// String returns an Attr with a string value.
func String(key, value string) Attr { return Attr{Key: key, Value: value} }

// Span is a unit of traced work started by a Tracer.
type Span interface {
	SetAttr(attr Attr)
	RecordError(err error)
	End()
}

// Tracer is the audit / instrumentation capability carried by an AgentContext.
//
// Implementations must be safe for concurrent use: every branch that adopts a
// context shares the same Tracer reference.
type Tracer interface {
	StartSpan(ctx context.Context, name string, attrs ...Attr) (context.Context, Span)
}

// AgentContext is the ambient value propagated through an execution branch. It
// is immutable after construction; narrower scopes derive a new value via the
// With* methods and bind that instead.
type AgentContext struct {
	conversationID string
	tracer         Tracer
	authContext    AuthContext
}

// NewAgentContext constructs an AgentContext. A nil tracer is replaced by a
// no-op tracer so readers never need to nil-check.
func NewAgentContext(conversationID string, tracer Tracer, auth AuthContext) *AgentContext {
	if tracer == nil {
		tracer = NoopTracer{}
	}

	return &AgentContext{
		conversationID: conversationID,
		tracer:         tracer,
		authContext:    auth,
	}
}

// ConversationID returns the conversation (session) identifier.
func (ac *AgentContext) ConversationID() string { return ac.conversationID }

// Tracer returns the shared tracer handle.
func (ac *AgentContext) Tracer() Tracer { return ac.tracer }

// AuthContext returns the authorization facts of the acting principal.
func (ac *AgentContext) AuthContext() AuthContext { return ac.authContext }

// WithAuthContext returns a copy of ac with auth replacing the authorization
// facts. The receiver is left untouched.
func (ac *AgentContext) WithAuthContext(auth AuthContext) *AgentContext {
	c := *ac
	c.authContext = auth
	return &c
}

// WithTracer returns a copy of ac using tracer.
func (ac *AgentContext) WithTracer(tracer Tracer) *AgentContext {
	if tracer == nil {
		tracer = NoopTracer{}
	}
	c := *ac
	c.tracer = tracer
	return &c
}

// Equal reports field-wise equality. Comparable tracers (pointers, plain
// structs) are compared with ==, others by deep equality.
func (ac *AgentContext) Equal(other *AgentContext) bool {
	if ac == nil || other == nil {
		return ac == other
	}

	return ac.conversationID == other.conversationID &&
		sameTracer(ac.tracer, other.tracer) &&
		ac.authContext.PrincipalID == other.authContext.PrincipalID &&
		reflect.DeepEqual(ac.authContext.Extra, other.authContext.Extra)
}

func sameTracer(a, b Tracer) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// NewConversationID returns a fresh random conversation identifier.
func NewConversationID() string { return uuid.NewString() }

// NewID returns a random identifier suitable for function call ids.
func NewID() string { return uuid.NewString() }

// NoopTracer discards all spans.
type NoopTracer struct{}

// StartSpan returns ctx unchanged and a span that does nothing.
func (NoopTracer) StartSpan(ctx context.Context, _ string, _ ...Attr) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) SetAttr(Attr)      {}
func (noopSpan) RecordError(error) {}
func (noopSpan) End()              {}
