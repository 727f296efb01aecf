package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/intentmesh/core"
)

// Static answers directly from a response function without touching the
// model. Greeting and help are static; so is the fallback.
type Static struct {
	intents []core.Intent
	respond func(reqCtx core.Context) core.Response
}

// NewStatic builds a static handler from a response function.
func NewStatic(respond func(reqCtx core.Context) core.Response, intents ...core.Intent) *Static {
	return &Static{intents: intents, respond: respond}
}

// CanHandle implements core.Handler.
func (h *Static) CanHandle(in core.Intent) bool {
	for _, candidate := range h.intents {
		if candidate == in {
			return true
		}
	}
	return false
}

// Handle implements core.Handler.
func (h *Static) Handle(_ context.Context, reqCtx core.Context) core.Response {
	return h.respond(reqCtx)
}

// NewGreetingHandler answers salutations with a fixed welcome.
func NewGreetingHandler() *Static {
	return NewStatic(func(core.Context) core.Response {
		return core.NewResponse(
			"Hello! I can help you with orders, refunds, inventory, customer emails and sales reports. What do you need?",
			nil,
		)
	}, core.IntentGreeting)
}

// NewHelpHandler describes the registered capabilities. The intent list
// is captured at boot, after the registry is fully built.
func NewHelpHandler(capabilities []core.Intent) *Static {
	return NewStatic(func(core.Context) core.Response {
		names := make([]string, 0, len(capabilities))
		for _, in := range capabilities {
			names = append(names, strings.ToLower(strings.ReplaceAll(in.String(), "_", " ")))
		}
		return core.NewResponse(
			fmt.Sprintf("I can help with: %s.", strings.Join(names, ", ")),
			map[string]any{"capabilities": names},
		)
	}, core.IntentHelp)
}

// NewFallbackHandler answers anything the vocabulary or registry cannot
// place. Unknown intent is a recovered condition, not an error, so the
// response is successful and carries the capability suggestions.
func NewFallbackHandler(capabilities []core.Intent) *Static {
	return NewStatic(func(core.Context) core.Response {
		names := make([]string, 0, len(capabilities))
		for _, in := range capabilities {
			names = append(names, strings.ToLower(strings.ReplaceAll(in.String(), "_", " ")))
		}
		return core.NewResponse(
			fmt.Sprintf(
				"I'm not sure what you need. I can help with: %s.",
				strings.Join(names, ", "),
			),
			map[string]any{"suggestions": names},
		)
	}, core.IntentUnknown)
}
