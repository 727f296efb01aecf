package handler

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

func seededOrders() *service.InMemoryOrderService {
	return service.NewInMemoryOrderService(core.Order{
		ID: "1452", CustomerID: "c_100", CustomerEmail: "lena@example.com",
		Status: "shipped", Total: 129.90, Currency: "EUR",
		Tracking: "JD014600003RS", CreatedAt: time.Now().Add(-72 * time.Hour),
	})
}

func TestRefundHandler_TwoPhaseFlow(t *testing.T) {
	orders := seededOrders()

	prepare := model.ScriptedToolCall("prepare_refund", `{"order_id":"1452","amount":25,"reason":"damaged item"}`)
	client := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{prepare}},
	)

	env := newTestEnv(client, 0)
	h := NewRefundHandler(env, orders)

	assert.ElementsMatch(t, []string{"search_orders", "prepare_refund", "confirm_refund"}, h.ToolNames())
	assert.True(t, h.CanHandle(core.IntentOrderRefund))

	resp := h.Handle(context.Background(), core.NewContext("Refund order 1452 for $25", "u1"))
	require.True(t, resp.Success)

	// The prepare result carries a draft id and nothing was paid out yet.
	toolMsg := client.Requests[1][3]
	draftID := gjson.Get(toolMsg.Content, "draft.id").String()
	assert.NotEmpty(t, draftID)
	order, err := orders.Get(context.Background(), "1452")
	require.NoError(t, err)
	assert.Equal(t, "shipped", order.Status)

	// Confirming the staged draft applies the refund.
	confirm := model.ScriptedToolCall("confirm_refund", `{"draft_id":"`+draftID+`"}`)
	client2 := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{confirm}},
		model.ScriptedTurn{Content: "Refunded 25 EUR for order 1452."},
	)
	env2 := newTestEnv(client2, 0)
	h2 := NewRefundHandler(env2, orders)

	resp = h2.Handle(context.Background(), core.NewContext("yes, confirm it", "u1"))
	require.True(t, resp.Success)
	assert.Equal(t, "Refunded 25 EUR for order 1452.", resp.Message)

	order, err = orders.Get(context.Background(), "1452")
	require.NoError(t, err)
	assert.Equal(t, "refunded", order.Status)
}

func TestRefundHandler_RejectsInvalidStatusEnum(t *testing.T) {
	call := model.ScriptedToolCall("search_orders", `{"status":"definitely-not-a-status"}`)
	client := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{call}},
		model.ScriptedTurn{Content: "Let me try again."},
	)

	h := NewRefundHandler(newTestEnv(client, 0), seededOrders())

	var resp core.Response
	assert.NotPanics(t, func() {
		resp = h.Handle(context.Background(), core.NewContext("refund something", "u1"))
	})
	require.True(t, resp.Success)

	toolMsg := client.Requests[1][3]
	assert.Equal(t, "invalid_arguments", gjson.Get(toolMsg.Content, "code").String())
	fields := gjson.Get(toolMsg.Content, "fields").Array()
	require.Len(t, fields, 1)
	assert.Equal(t, "status", fields[0].Get("field").String())
	assert.Equal(t, "invalid_enum", fields[0].Get("code").String())
}

func TestOrderStatusHandler_TracksShipment(t *testing.T) {
	call := model.ScriptedToolCall("track_shipment", `{"order_id":"1452"}`)
	client := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{call}},
		model.ScriptedTurn{Content: "Your order is on its way."},
	)

	h := NewOrderStatusHandler(newTestEnv(client, 0), seededOrders())
	assert.ElementsMatch(t, []string{"get_order", "track_shipment"}, h.ToolNames())

	resp := h.Handle(context.Background(), core.NewContext("where is order 1452", "u1"))
	require.True(t, resp.Success)

	toolMsg := client.Requests[1][3]
	assert.Equal(t, "JD014600003RS", gjson.Get(toolMsg.Content, "shipment.tracking").String())
}

func TestStockHandler_CheckAndAdjust(t *testing.T) {
	stock := service.NewInMemoryStockService(core.StockLevel{SKU: "SKU-041", Available: 12, Reserved: 3})

	client := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{
			model.ScriptedToolCall("check_stock", `{"sku":"SKU-041"}`),
		}},
		model.ScriptedTurn{ToolCalls: []core.ToolCall{
			model.ScriptedToolCall("adjust_stock", `{"sku":"SKU-041","delta":-2,"reason":"damage"}`),
		}},
		model.ScriptedTurn{Content: "Adjusted to 10."},
	)

	h := NewStockHandler(newTestEnv(client, 0), stock)

	resp := h.Handle(context.Background(), core.NewContext("remove 2 damaged units of SKU-041", "u1"))
	require.True(t, resp.Success)

	level, err := stock.Check(context.Background(), "SKU-041")
	require.NoError(t, err)
	assert.Equal(t, 10, level.Available)
}

func TestEmailAndCustomerHandlers_ShareToolNameNotExecutor(t *testing.T) {
	orders := seededOrders()
	customers := service.NewInMemoryCustomerService(orders,
		core.Customer{ID: "c_100", Name: "Lena Fischer", Email: "lena@example.com"},
	)
	emails := service.NewInMemoryEmailService()

	findCall := model.ScriptedToolCall("find_customer", `{"query":"lena"}`)
	emailClient := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{findCall}},
		model.ScriptedTurn{ToolCalls: []core.ToolCall{
			model.ScriptedToolCall("draft_email", `{"to":"lena@example.com","subject":"Your order","body":"It shipped."}`),
		}},
		model.ScriptedTurn{Content: "Draft is ready."},
	)

	emailEnv := newTestEnv(emailClient, 0)
	emailHandler := NewEmailHandler(emailEnv, customers, emails)
	// Both handlers register find_customer; each dispatches through its
	// own executor so the registrations do not collide.
	customerHandler := NewCustomerHandler(emailEnv, customers)

	resp := emailHandler.Handle(context.Background(), core.NewContext("email lena about her order", "u1"))
	require.True(t, resp.Success)
	require.Len(t, emails.Drafts, 1)
	assert.Equal(t, "lena@example.com", emails.Drafts[0].To)

	customerClient := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{
			model.ScriptedToolCall("find_customer", `{"query":"lena"}`),
		}},
		model.ScriptedTurn{Content: "Found Lena Fischer."},
	)
	customerHandler.factory = &model.StaticFactory{Client: customerClient, Credential: true}

	resp = customerHandler.Handle(context.Background(), core.NewContext("who is lena", "u1"))
	require.True(t, resp.Success)
	assert.Equal(t, "Found Lena Fischer.", resp.Message)
	// The draft list is untouched; the customer handler's executor only reads.
	assert.Len(t, emails.Drafts, 1)
}

func TestAnalyticsHandler_SalesSummary(t *testing.T) {
	orders := seededOrders()
	analytics := service.NewInMemoryAnalyticsService(orders)

	client := model.NewScriptedClient(
		model.ScriptedTurn{ToolCalls: []core.ToolCall{
			model.ScriptedToolCall("sales_summary", `{"period":"week"}`),
		}},
		model.ScriptedTurn{Content: "One order, 129.90 EUR."},
	)

	h := NewAnalyticsHandler(newTestEnv(client, 0), analytics)

	resp := h.Handle(context.Background(), core.NewContext("sales this week", "u1"))
	require.True(t, resp.Success)

	toolMsg := client.Requests[1][3]
	assert.Equal(t, "week", gjson.Get(toolMsg.Content, "summary.period").String())
	assert.Equal(t, int64(1), gjson.Get(toolMsg.Content, "summary.orders").Int())
}
