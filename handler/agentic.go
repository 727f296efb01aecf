package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/model"
	"github.com/hupe1980/intentmesh/tool"
)

// DefaultMaxTurns is the hard cap on model turns per request. It bounds
// both worst-case latency and the number of outbound provider calls.
const DefaultMaxTurns = 5

// loopExceededMessage is the fixed user-facing text for a conversation
// that never reached a terminal turn. The condition is fatal, not retried.
const loopExceededMessage = "I got stuck in a loop while working on your request. Please try again."

// AgenticConfig declares one model-backed handler: the intents it serves,
// its fixed system prompt, the fallback user phrase for blank input and
// the subset of registry tools it offers to the model.
type AgenticConfig struct {
	Intents      []core.Intent
	SystemPrompt string
	DefaultInput string
	ToolNames    []string
	MaxTurns     int
}

// Agentic runs the bounded conversation state machine:
//
//	Start -> ModelTurn -> {Done | ToolCalls -> Execute -> ModelTurn} -> ... -> Done | LoopExceeded
//
// Each instance owns its dispatcher, so executor registrations for the
// same tool name in different handlers cannot leak behavior.
type Agentic struct {
	cfg        AgenticConfig
	factory    model.Factory
	tools      *tool.Registry
	dispatcher *tool.Dispatcher
	logger     *logging.RouterLogger
}

// NewAgentic builds an agentic handler with a fresh handler-scoped
// dispatcher. Callers register executors via RegisterExecutor before the
// handler is put into service.
func NewAgentic(env Env, cfg AgenticConfig) *Agentic {
	if cfg.MaxTurns <= 0 {
		if env.MaxTurns > 0 {
			cfg.MaxTurns = env.MaxTurns
		} else {
			cfg.MaxTurns = DefaultMaxTurns
		}
	}
	return &Agentic{
		cfg:        cfg,
		factory:    env.Factory,
		tools:      env.Tools,
		dispatcher: tool.NewDispatcher(env.Tools, env.logger()),
		logger:     env.logger().WithComponent("handler"),
	}
}

// RegisterExecutor binds business logic to a tool name on this handler's
// dispatcher.
func (h *Agentic) RegisterExecutor(name string, fn tool.Executor) {
	h.dispatcher.RegisterExecutor(name, fn)
}

// CanHandle implements core.Handler.
func (h *Agentic) CanHandle(in core.Intent) bool {
	for _, candidate := range h.cfg.Intents {
		if candidate == in {
			return true
		}
	}
	return false
}

// ToolNames implements ToolOfferer.
func (h *Agentic) ToolNames() []string {
	return append([]string(nil), h.cfg.ToolNames...)
}

// Handle implements core.Handler by running the conversation loop.
//
// A missing provider credential is terminal before the loop is entered.
// Provider failures abort immediately; retry policy belongs to the
// transport collaborator behind the client. Tool-level failures never
// abort: they are dispatched into structured tool messages so the model
// can self-correct on the next turn.
func (h *Agentic) Handle(ctx context.Context, reqCtx core.Context) core.Response {
	if h.factory == nil || !h.factory.HasCredential() {
		return core.NewErrorResponse(
			"No model provider credential is configured.",
			core.CodeMissingCredential,
		)
	}

	client, err := h.factory.Create(h.primaryIntent())
	if err != nil {
		return core.NewErrorResponse(err.Error(), core.CodeProviderError)
	}

	messages := h.buildInitialMessages(reqCtx)
	schemas := h.tools.GetMany(h.cfg.ToolNames)
	limiter := core.NewTurnLimiter(h.cfg.MaxTurns)
	info := client.Info()

	for {
		if err := limiter.Take(); err != nil {
			h.logger.Warn("handler.loop.exceeded",
				"intent", h.primaryIntent().String(),
				"max_turns", h.cfg.MaxTurns,
			)
			return core.NewErrorResponse(loopExceededMessage, core.CodeLoopExceeded)
		}

		start := time.Now()
		result, err := client.Chat(ctx, messages, schemas)
		h.logger.LogModelCall(info.Provider, info.Name, limiter.Count(), time.Since(start), err)
		if err != nil {
			perr := core.NewProviderError(info.Provider, err)
			return core.NewErrorResponse(perr.Error(), core.CodeProviderError)
		}

		messages = append(messages, core.NewAssistantMessage(result.Content, result.ToolCalls))

		if len(result.ToolCalls) == 0 {
			return core.NewResponse(result.Content, map[string]any{
				"intent": h.primaryIntent().String(),
				"turns":  limiter.Count(),
			})
		}

		for _, call := range result.ToolCalls {
			args := tool.ParseArguments(call.Arguments)
			toolResult := h.dispatcher.Dispatch(ctx, call.Name, args)
			messages = append(messages, core.NewToolMessage(call.ID, encodeToolResult(toolResult)))
		}
	}
}

// buildInitialMessages seeds the transcript: the handler's fixed system
// prompt (or a caller-supplied override) plus the user's input (or the
// handler-specific default phrase when the input is blank).
func (h *Agentic) buildInitialMessages(reqCtx core.Context) []core.Message {
	systemPrompt := h.cfg.SystemPrompt
	if override := reqCtx.SystemPromptOverride(); override != "" {
		systemPrompt = override
	}

	input := reqCtx.Input()
	if input == "" {
		input = h.cfg.DefaultInput
	}

	return []core.Message{
		core.NewSystemMessage(systemPrompt),
		core.NewUserMessage(input),
	}
}

func (h *Agentic) primaryIntent() core.Intent {
	if len(h.cfg.Intents) > 0 {
		return h.cfg.Intents[0]
	}
	return core.IntentUnknown
}

// encodeToolResult serializes a dispatcher result map for a tool message.
// Dispatch already guarantees JSON-safe maps; the fallback covers a map
// poisoned after dispatch.
func encodeToolResult(result map[string]any) string {
	raw, err := json.Marshal(result)
	if err != nil {
		return `{"error":"Failed to encode tool result"}`
	}
	return string(raw)
}
