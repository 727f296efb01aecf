package handler

import (
	"context"
	"testing"

	"github.com/hupe1980/intentmesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreetingHandler(t *testing.T) {
	h := NewGreetingHandler()
	assert.True(t, h.CanHandle(core.IntentGreeting))
	assert.False(t, h.CanHandle(core.IntentHelp))

	resp := h.Handle(context.Background(), core.NewContext("hello", "u1"))
	assert.True(t, resp.Success)
	assert.Equal(t, core.CodeOK, resp.Code)
	assert.NotEmpty(t, resp.Message)
}

func TestHelpHandler_ListsCapabilities(t *testing.T) {
	h := NewHelpHandler([]core.Intent{core.IntentOrderStatus, core.IntentSalesReport})

	resp := h.Handle(context.Background(), core.NewContext("what can you do", "u1"))
	require.True(t, resp.Success)
	assert.Contains(t, resp.Message, "order status")
	assert.Contains(t, resp.Message, "sales report")
	assert.Equal(t, []string{"order status", "sales report"}, resp.Data["capabilities"])
}

func TestFallbackHandler_UnknownIsNotAnError(t *testing.T) {
	h := NewFallbackHandler([]core.Intent{core.IntentGreeting, core.IntentHelp})
	assert.True(t, h.CanHandle(core.IntentUnknown))

	resp := h.Handle(context.Background(), core.NewContext("gibberish", "u1"))
	assert.True(t, resp.Success)
	assert.Equal(t, core.CodeOK, resp.Code)
	assert.Equal(t, []string{"greeting", "help"}, resp.Data["suggestions"])
}
