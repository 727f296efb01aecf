// Package handler contains the capability handlers the engine routes
// classified requests to, the O(1) intent registry that resolves them and
// the agentic conversation loop shared by every model-backed handler.
//
// Static handlers (greeting, help, fallback) answer directly. Agentic
// handlers run a bounded multi-turn conversation with a model client,
// executing schema-validated tool calls between turns through a
// handler-scoped dispatcher.
package handler

import (
	"sort"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/model"
	"github.com/hupe1980/intentmesh/tool"
)

// ToolOfferer is implemented by handlers that expose tools to the model.
// The engine intersects these names with the tool registry to compute the
// suggested-tools hint on responses.
type ToolOfferer interface {
	ToolNames() []string
}

// Binding declares which intents a handler serves. The engine builds the
// registry from a static binding table at boot, replacing any runtime
// reflection or annotation scanning.
type Binding struct {
	Intents []core.Intent
	Handler core.Handler
}

// Env bundles the shared collaborators every concrete handler needs, so
// constructor signatures stay flat as the handler list grows.
type Env struct {
	Factory  model.Factory
	Tools    *tool.Registry
	Logger   *logging.RouterLogger
	MaxTurns int
}

func (e Env) logger() *logging.RouterLogger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.NewRouterLogger(&logging.Config{Level: logging.LogLevelError})
}

// Registry resolves intents to handlers with a single map lookup. It is
// populated once at boot, before being published for concurrent reads,
// and never mutated afterwards; it therefore carries no lock.
type Registry struct {
	handlers map[core.Intent]core.Handler
	logger   logging.Logger
}

// NewRegistry creates an empty handler registry.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Registry{handlers: make(map[core.Intent]core.Handler), logger: logger}
}

// Register binds a handler to one or more intents, one O(1) map write per
// intent. Re-registering an intent logs an overwrite warning but never
// errors; the later registration wins.
func (r *Registry) Register(h core.Handler, intents ...core.Intent) {
	if len(intents) == 0 {
		r.logger.Warn("handler.registry.no_intents")
		return
	}
	for _, in := range intents {
		if _, exists := r.handlers[in]; exists {
			r.logger.Warn("handler.registry.overwrite", "intent", in.String())
		}
		r.handlers[in] = h
	}
}

// Get returns the handler for the intent, or nil when none is registered.
func (r *Registry) Get(in core.Intent) core.Handler {
	return r.handlers[in]
}

// GetOrFallback returns the handler for the intent, or the fallback when
// none is registered. Never nil as long as fallback is non-nil.
func (r *Registry) GetOrFallback(in core.Intent, fallback core.Handler) core.Handler {
	if h, ok := r.handlers[in]; ok {
		return h
	}
	return fallback
}

// Intents returns the registered intents in alphabetical order.
func (r *Registry) Intents() []core.Intent {
	out := make([]core.Intent, 0, len(r.handlers))
	for in := range r.handlers {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// All returns a copy of the full intent-to-handler mapping.
func (r *Registry) All() map[core.Intent]core.Handler {
	out := make(map[core.Intent]core.Handler, len(r.handlers))
	for in, h := range r.handlers {
		out[in] = h
	}
	return out
}
