// Package engine provides the top-level request orchestrator: it rejects
// blank input, enriches the request context, loads recent memory,
// classifies the intent, resolves a handler and records the exchange.
// Engine.Handle is the sole entry point for the transport layer.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/handler"
	"github.com/hupe1980/intentmesh/intent"
	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/tool"
)

// memoryMessageLimit bounds, in runes, the response excerpt stored per
// exchange.
const memoryMessageLimit = 160

// Options configure an Engine. Classifier, Handlers and Tools must be
// fully built before the engine is constructed; the engine never mutates
// them.
type Options struct {
	Classifier     *intent.Classifier
	Handlers       *handler.Registry
	Fallback       core.Handler
	Tools          *tool.Registry
	ContextBuilder core.ContextBuilder
	Memory         core.MemoryStore
	Logger         *logging.RouterLogger
}

// Engine composes the classifier, the handler registry and the external
// collaborators (context builder, memory store) into the request
// pipeline. It holds no mutable state of its own: all registries are
// read-only after boot, so concurrent Handle calls need no locking here.
type Engine struct {
	classifier     *intent.Classifier
	handlers       *handler.Registry
	fallback       core.Handler
	tools          *tool.Registry
	contextBuilder core.ContextBuilder
	memory         core.MemoryStore
	logger         *logging.RouterLogger
}

// New creates an Engine from fully-built collaborators.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewRouterLogger(&logging.Config{Level: logging.LogLevelError})
	}
	if opts.Fallback == nil {
		opts.Fallback = handler.NewFallbackHandler(opts.Handlers.Intents())
	}
	if opts.ContextBuilder == nil {
		opts.ContextBuilder = MetadataBuilder{}
	}
	return &Engine{
		classifier:     opts.Classifier,
		handlers:       opts.Handlers,
		fallback:       opts.Fallback,
		tools:          opts.Tools,
		contextBuilder: opts.ContextBuilder,
		memory:         opts.Memory,
		logger:         logger.WithComponent("engine"),
	}
}

// Handle processes one request end to end and returns the response
// envelope. It never returns an error: every failure class is mapped onto
// the envelope so the transport layer has a single shape to forward.
func (e *Engine) Handle(ctx context.Context, input string, reqCtx core.Context, metadata map[string]any) core.Response {
	if strings.TrimSpace(input) == "" {
		return core.NewErrorResponse("Input must not be empty.", core.CodeInvalidInput)
	}

	requestID := uuid.NewString()
	logger := e.logger.WithRequest(requestID)

	if reqCtx == nil {
		reqCtx = core.NewContext(input, "")
	} else {
		reqCtx = reqCtx.WithInput(input)
	}

	enriched, err := e.contextBuilder.Build(ctx, reqCtx, metadata)
	if err != nil {
		logger.Warn("engine.context.build_failed", "error", err.Error())
		enriched = reqCtx
	}

	if e.memory != nil {
		recent, err := e.memory.Recent(enriched.UserID())
		if err != nil {
			logger.Warn("engine.memory.load_failed", "error", err.Error())
		} else if len(recent) > 0 {
			enriched = enriched.WithMemory(recent)
		}
	}

	resolved := e.classifier.Classify(input, enriched)
	h := e.handlers.GetOrFallback(resolved, e.fallback)
	suggested := e.suggestedTools(h)

	logger.Info("engine.request.routed",
		"intent", resolved.String(),
		"suggested_tools", len(suggested),
	)

	resp := h.Handle(ctx, enriched)

	if resp.Data == nil {
		resp.Data = map[string]any{}
	}
	resp.Data["intent"] = resolved.String()
	if len(suggested) > 0 {
		resp.Data["suggested_tools"] = suggested
	}

	e.remember(logger, enriched.UserID(), input, resolved, resp.Message)

	return resp
}

// suggestedTools intersects the handler's offered tool names with what
// the tool registry still recognizes, so stale names are never suggested.
func (e *Engine) suggestedTools(h core.Handler) []string {
	offerer, ok := h.(handler.ToolOfferer)
	if !ok || e.tools == nil {
		return nil
	}
	names := offerer.ToolNames()
	out := make([]string, 0, len(names))
	for _, name := range names {
		if e.tools.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// remember appends the exchange unconditionally, success or failure.
func (e *Engine) remember(logger *logging.RouterLogger, userID, input string, in core.Intent, message string) {
	if e.memory == nil {
		return
	}
	if len(message) > memoryMessageLimit {
		message = truncateMessage(message, memoryMessageLimit)
	}
	ex := core.Exchange{Time: time.Now(), Input: input, Intent: in, Message: message}
	if err := e.memory.AddExchange(userID, ex); err != nil {
		logger.Warn("engine.memory.append_failed", "error", err.Error())
	}
}

// truncateMessage cuts the excerpt to at most max runes without splitting
// a multi-byte sequence.
func truncateMessage(s string, max int) string {
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
