package handler

import (
	"context"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/util"
	"github.com/hupe1980/intentmesh/tool"
)

const orderStatusSystemPrompt = `You are an order tracking assistant for an
online shop. Look the order up with get_order and, when the customer asks
where it is, fetch carrier progress with track_shipment. Answer with the
current status and the expected arrival when known.`

type getOrderArgs struct {
	OrderID string `json:"order_id" description:"Order identifier"`
}

type trackShipmentArgs struct {
	OrderID string `json:"order_id" description:"Order whose shipment to track"`
}

// NewOrderStatusHandler serves ORDER_STATUS with order lookup and
// shipment tracking.
func NewOrderStatusHandler(env Env, orders core.OrderService) *Agentic {
	env.Tools.Register(tool.Schema{
		Name:        "get_order",
		Description: "Fetch one order by its identifier",
		Parameters:  util.CreateSchema(getOrderArgs{}),
	})
	env.Tools.Register(tool.Schema{
		Name:        "track_shipment",
		Description: "Fetch carrier tracking progress for an order",
		Parameters:  util.CreateSchema(trackShipmentArgs{}),
	})

	h := NewAgentic(env, AgenticConfig{
		Intents:      []core.Intent{core.IntentOrderStatus},
		SystemPrompt: orderStatusSystemPrompt,
		DefaultInput: "The customer asks about an order status but gave no details.",
		ToolNames:    []string{"get_order", "track_shipment"},
	})

	h.RegisterExecutor("get_order", func(ctx context.Context, args map[string]any) (any, error) {
		order, err := orders.Get(ctx, stringArg(args, "order_id"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "order": order}, nil
	})
	h.RegisterExecutor("track_shipment", func(ctx context.Context, args map[string]any) (any, error) {
		shipment, err := orders.TrackShipment(ctx, stringArg(args, "order_id"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "shipment": shipment}, nil
	})

	return h
}
