package intentmesh

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/model"
	"github.com/hupe1980/intentmesh/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestMesh(t *testing.T, orders *service.InMemoryOrderService, turns ...model.ScriptedTurn) (*IntentMesh, *model.ScriptedClient) {
	t.Helper()

	client := model.NewScriptedClient(turns...)
	mesh, err := New(func(o *Options) {
		o.Factory = &model.StaticFactory{Client: client, Credential: true}
		if orders != nil {
			o.Services = Services{Orders: orders}
		}
	})
	require.NoError(t, err)
	return mesh, client
}

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(func(o *Options) { o.Provider = "llamafarm" })
	assert.Error(t, err)
}

func TestNew_RegistersFullVocabulary(t *testing.T) {
	mesh, _ := newTestMesh(t, nil)
	assert.Equal(t, core.Intents(), mesh.Intents())
	assert.True(t, mesh.Tools().Has("search_orders"))
	assert.True(t, mesh.Tools().Has("check_stock"))
	assert.True(t, mesh.Tools().Has("draft_email"))
	assert.True(t, mesh.Tools().Has("sales_summary"))
}

func TestHandle_EmptyInputNeverReachesModel(t *testing.T) {
	mesh, client := newTestMesh(t, nil)

	resp := mesh.Handle(context.Background(), "u1", "   ", nil)
	assert.False(t, resp.Success)
	assert.Equal(t, core.CodeInvalidInput, resp.Code)
	assert.Zero(t, client.Calls())
}

func TestHandle_GreetingIsStatic(t *testing.T) {
	mesh, client := newTestMesh(t, nil)

	resp := mesh.Handle(context.Background(), "u1", "hello", nil)
	require.True(t, resp.Success)
	assert.Equal(t, core.IntentGreeting.String(), resp.Data["intent"])
	assert.Zero(t, client.Calls())
}

func TestHandle_RefundEndToEnd(t *testing.T) {
	orders := service.NewInMemoryOrderService(core.Order{
		ID: "1452", CustomerID: "c_100", Status: "delivered", Total: 129.90, Currency: "EUR",
		CreatedAt: time.Now().Add(-96 * time.Hour),
	})

	// The model stages the refund, reads the draft id from the tool
	// result and answers without confirming.
	prepare := model.ScriptedToolCall("prepare_refund", `{"order_id":"1452","amount":25,"reason":"damaged item"}`)
	mesh, client := newTestMesh(t, orders,
		model.ScriptedTurn{ToolCalls: []core.ToolCall{prepare}},
		model.ScriptedTurn{Content: "I prepared a 25 EUR refund for order 1452. Confirm to proceed."},
	)

	resp := mesh.Handle(context.Background(), "c_100", "Refund order 1452 for $25", nil)
	require.True(t, resp.Success)
	assert.Equal(t, core.IntentOrderRefund.String(), resp.Data["intent"])
	assert.Contains(t, resp.Message, "refund")

	require.Len(t, client.Requests, 2)
	toolMsg := client.Requests[1][3]
	assert.True(t, gjson.Get(toolMsg.Content, "success").Bool())
	assert.NotEmpty(t, gjson.Get(toolMsg.Content, "draft.id").String())

	// Only the refund handler's tools were offered to the model.
	assert.ElementsMatch(t,
		[]string{"search_orders", "prepare_refund", "confirm_refund"},
		resp.Data["suggested_tools"],
	)
}

func TestHandle_ConversationIsRemembered(t *testing.T) {
	mesh, _ := newTestMesh(t, nil)

	mesh.Handle(context.Background(), "u1", "hello", nil)
	resp := mesh.Handle(context.Background(), "u1", "hello again", nil)
	require.True(t, resp.Success)
}

func TestNewMemoryStore_Bounds(t *testing.T) {
	store := NewMemoryStore(1, time.Minute)
	require.NoError(t, store.AddExchange("u1", core.Exchange{Time: time.Now(), Input: "one"}))
	require.NoError(t, store.AddExchange("u1", core.Exchange{Time: time.Now(), Input: "two"}))

	recent, err := store.Recent("u1")
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "two", recent[0].Input)
}
