package handler

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/model"
	"github.com/hupe1980/intentmesh/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestEnv(client model.Client, maxTurns int) Env {
	return Env{
		Factory:  &model.StaticFactory{Client: client, Credential: true},
		Tools:    tool.NewRegistry(nil),
		Logger:   logging.NewRouterLogger(&logging.Config{Level: logging.LogLevelError, Output: io.Discard}),
		MaxTurns: maxTurns,
	}
}

func TestAgentic_MissingCredential(t *testing.T) {
	env := newTestEnv(model.NewScriptedClient(), 0)
	env.Factory = &model.StaticFactory{Credential: false}
	h := NewAgentic(env, AgenticConfig{Intents: []core.Intent{core.IntentOrderStatus}})

	resp := h.Handle(context.Background(), core.NewContext("where is my order", "u1"))
	assert.False(t, resp.Success)
	assert.Equal(t, core.CodeMissingCredential, resp.Code)

	h = NewAgentic(Env{Tools: tool.NewRegistry(nil)}, AgenticConfig{Intents: []core.Intent{core.IntentOrderStatus}})
	resp = h.Handle(context.Background(), core.NewContext("where is my order", "u1"))
	assert.Equal(t, core.CodeMissingCredential, resp.Code)
}

func TestAgentic_PlainAnswer(t *testing.T) {
	client := model.NewScriptedClient(model.ScriptedTurn{Content: "Your order shipped yesterday."})
	h := NewAgentic(newTestEnv(client, 0), AgenticConfig{
		Intents:      []core.Intent{core.IntentOrderStatus},
		SystemPrompt: "You answer order questions.",
	})

	resp := h.Handle(context.Background(), core.NewContext("where is my order", "u1"))
	require.True(t, resp.Success)
	assert.Equal(t, "Your order shipped yesterday.", resp.Message)
	assert.Equal(t, core.IntentOrderStatus.String(), resp.Data["intent"])
	assert.Equal(t, 1, resp.Data["turns"])

	// The transcript opens with the system prompt and the user input.
	require.Len(t, client.Requests, 1)
	first := client.Requests[0]
	require.Len(t, first, 2)
	assert.Equal(t, core.RoleSystem, first[0].Role)
	assert.Equal(t, "You answer order questions.", first[0].Content)
	assert.Equal(t, core.RoleUser, first[1].Role)
	assert.Equal(t, "where is my order", first[1].Content)
}

func TestAgentic_SystemPromptOverride(t *testing.T) {
	client := model.NewScriptedClient(model.ScriptedTurn{Content: "ok"})
	h := NewAgentic(newTestEnv(client, 0), AgenticConfig{
		Intents:      []core.Intent{core.IntentOrderStatus},
		SystemPrompt: "fixed prompt",
	})

	reqCtx := core.NewContext("hi", "u1").WithSystemPromptOverride("be extremely terse")
	h.Handle(context.Background(), reqCtx)

	require.NotEmpty(t, client.Requests)
	assert.Equal(t, "be extremely terse", client.Requests[0][0].Content)
}

func TestAgentic_DefaultInputForBlankRequest(t *testing.T) {
	client := model.NewScriptedClient(model.ScriptedTurn{Content: "ok"})
	h := NewAgentic(newTestEnv(client, 0), AgenticConfig{
		Intents:      []core.Intent{core.IntentOrderRefund},
		DefaultInput: "The customer asks about a refund but gave no details.",
	})

	h.Handle(context.Background(), core.NewContext("", "u1"))
	require.NotEmpty(t, client.Requests)
	assert.Equal(t, "The customer asks about a refund but gave no details.", client.Requests[0][1].Content)
}

func TestAgentic_ProviderErrorAborts(t *testing.T) {
	client := model.NewScriptedClient(model.ScriptedTurn{Err: errors.New("rate limited")})
	h := NewAgentic(newTestEnv(client, 0), AgenticConfig{Intents: []core.Intent{core.IntentOrderStatus}})

	resp := h.Handle(context.Background(), core.NewContext("where is my order", "u1"))
	assert.False(t, resp.Success)
	assert.Equal(t, core.CodeProviderError, resp.Code)
	assert.Contains(t, resp.Message, "rate limited")
	assert.Equal(t, 1, client.Calls())
}

func TestAgentic_ToolCallLoop(t *testing.T) {
	call := model.ScriptedToolCall("check_stock", `{"sku":"SKU-041"}`)
	client := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{call}},
		model.ScriptedTurn{Content: "12 units available."},
	)

	env := newTestEnv(client, 0)
	h := NewAgentic(env, AgenticConfig{
		Intents:   []core.Intent{core.IntentProductStock},
		ToolNames: []string{"check_stock"},
	})
	h.RegisterExecutor("check_stock", func(_ context.Context, args map[string]any) (any, error) {
		return map[string]any{"sku": args["sku"], "available": 12}, nil
	})

	resp := h.Handle(context.Background(), core.NewContext("is SKU-041 in stock", "u1"))
	require.True(t, resp.Success)
	assert.Equal(t, "12 units available.", resp.Message)
	assert.Equal(t, 2, resp.Data["turns"])

	// Second request carries the assistant tool call and the tool result.
	require.Len(t, client.Requests, 2)
	second := client.Requests[1]
	require.Len(t, second, 4)
	assert.Equal(t, core.RoleAssistant, second[2].Role)
	require.Len(t, second[2].ToolCalls, 1)
	assert.Equal(t, core.RoleTool, second[3].Role)
	assert.Equal(t, call.ID, second[3].ToolCallID)
	assert.Equal(t, "SKU-041", gjson.Get(second[3].Content, "sku").String())
	assert.Equal(t, int64(12), gjson.Get(second[3].Content, "available").Int())
}

func TestAgentic_ToolErrorFedBackToModel(t *testing.T) {
	client := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{model.ScriptedToolCall("check_stock", `{"sku":"NOPE"}`)}},
		model.ScriptedTurn{Content: "That SKU does not exist."},
	)

	h := NewAgentic(newTestEnv(client, 0), AgenticConfig{
		Intents:   []core.Intent{core.IntentProductStock},
		ToolNames: []string{"check_stock"},
	})
	h.RegisterExecutor("check_stock", func(context.Context, map[string]any) (any, error) {
		return nil, errors.New("unknown sku NOPE")
	})

	resp := h.Handle(context.Background(), core.NewContext("check NOPE", "u1"))
	require.True(t, resp.Success)
	assert.Equal(t, "That SKU does not exist.", resp.Message)

	toolMsg := client.Requests[1][3]
	assert.Equal(t, "execution_error", gjson.Get(toolMsg.Content, "code").String())
	assert.Equal(t, "unknown sku NOPE", gjson.Get(toolMsg.Content, "error").String())
}

func TestAgentic_UnknownToolFedBackToModel(t *testing.T) {
	client := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{model.ScriptedToolCall("hallucinated_tool", `{}`)}},
		model.ScriptedTurn{Content: "Sorry, I cannot do that."},
	)

	h := NewAgentic(newTestEnv(client, 0), AgenticConfig{Intents: []core.Intent{core.IntentProductStock}})

	resp := h.Handle(context.Background(), core.NewContext("do something", "u1"))
	require.True(t, resp.Success)

	toolMsg := client.Requests[1][3]
	assert.Equal(t, "unknown_tool", gjson.Get(toolMsg.Content, "code").String())
}

func TestAgentic_LoopExceededAtExactlyMaxTurns(t *testing.T) {
	// Every scripted turn requests another tool call, so the conversation
	// never terminates on its own.
	turns := make([]model.ScriptedTurn, 10)
	for i := range turns {
		turns[i] = model.ScriptedTurn{
			ToolCalls: []core.ToolCall{model.ScriptedToolCall("spin", `{}`)},
		}
	}
	client := model.NewScriptedClient(turns...)

	h := NewAgentic(newTestEnv(client, 0), AgenticConfig{
		Intents:  []core.Intent{core.IntentProductStock},
		MaxTurns: 3,
	})
	h.RegisterExecutor("spin", func(context.Context, map[string]any) (any, error) {
		return "again", nil
	})

	resp := h.Handle(context.Background(), core.NewContext("spin forever", "u1"))
	assert.False(t, resp.Success)
	assert.Equal(t, core.CodeLoopExceeded, resp.Code)
	assert.Equal(t, loopExceededMessage, resp.Message)
	assert.Equal(t, 3, client.Calls())
}

func TestAgentic_MaxTurnsPrecedence(t *testing.T) {
	env := newTestEnv(model.NewScriptedClient(), 7)

	h := NewAgentic(env, AgenticConfig{Intents: []core.Intent{core.IntentProductStock}})
	assert.Equal(t, 7, h.cfg.MaxTurns)

	h = NewAgentic(env, AgenticConfig{Intents: []core.Intent{core.IntentProductStock}, MaxTurns: 2})
	assert.Equal(t, 2, h.cfg.MaxTurns)

	h = NewAgentic(newTestEnv(model.NewScriptedClient(), 0), AgenticConfig{Intents: []core.Intent{core.IntentProductStock}})
	assert.Equal(t, DefaultMaxTurns, h.cfg.MaxTurns)
}

func TestAgentic_CanHandleAndToolNames(t *testing.T) {
	h := NewAgentic(newTestEnv(model.NewScriptedClient(), 0), AgenticConfig{
		Intents:   []core.Intent{core.IntentOrderRefund},
		ToolNames: []string{"search_orders", "prepare_refund"},
	})

	assert.True(t, h.CanHandle(core.IntentOrderRefund))
	assert.False(t, h.CanHandle(core.IntentOrderStatus))
	assert.Equal(t, []string{"search_orders", "prepare_refund"}, h.ToolNames())
}
