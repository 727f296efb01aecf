package core

import (
	"context"
	"time"
)

// Handler processes one classified request. Implementations declare the
// intent(s) they serve out of band (see handler.Binding); CanHandle exists
// for introspection and sanity checks, routing itself is registry-based.
type Handler interface {
	// CanHandle reports whether the handler serves the given intent.
	CanHandle(intent Intent) bool

	// Handle produces the final response for the enriched request context.
	// Terminal failures are mapped onto the Response envelope, not
	// returned as errors, so the transport layer has a single shape.
	Handle(ctx context.Context, reqCtx Context) Response
}

// ContextBuilder enriches a raw request context with user, store and
// recent-activity data before the request is classified. Pure composition;
// it must not mutate the input context.
type ContextBuilder interface {
	Build(ctx context.Context, reqCtx Context, metadata map[string]any) (Context, error)
}

// Exchange is one remembered request/response pair. Exchanges live in a
// bounded, TTL-bound per-user buffer owned by a MemoryStore.
type Exchange struct {
	Time    time.Time `json:"time"`
	Input   string    `json:"input"`
	Intent  Intent    `json:"intent"`
	Message string    `json:"message"`
}

// MemoryStore persists a small bounded window of recent exchanges per
// user. Implementations enforce their own size and TTL bounds.
type MemoryStore interface {
	// Recent returns the remembered exchanges for the user, oldest first.
	Recent(userID string) ([]Exchange, error)

	// AddExchange appends an exchange, evicting the oldest entry when
	// the per-user bound is reached.
	AddExchange(userID string, ex Exchange) error
}

// Observer receives the classification decision after it is made. It runs
// outside the correctness-critical path: the classifier ignores anything
// the observer does, including panics.
type Observer func(decision Decision)

// Decision is the observational record of one classification.
type Decision struct {
	Intent Intent             `json:"intent"`
	Scores map[Intent]float64 `json:"scores"`
	Input  string             `json:"input"`
	Ctx    Context            `json:"-"`
}
