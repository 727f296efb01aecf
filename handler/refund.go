package handler

import (
	"context"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/util"
	"github.com/hupe1980/intentmesh/tool"
)

const refundSystemPrompt = `You are a refund assistant for an online shop.
Locate the order the customer refers to, stage a refund draft with
prepare_refund and only call confirm_refund after the draft details match
the customer's request. Never confirm a refund you did not prepare in this
conversation. Answer with a short summary of what was refunded.`

type searchOrdersArgs struct {
	Query  string  `json:"query,omitempty" description:"Free text matched against order id and customer"`
	Status *string `json:"status,omitempty" description:"Filter by order status" enum:"pending,paid,shipped,delivered,cancelled,refunded"`
	Limit  *int    `json:"limit,omitempty" description:"Maximum number of orders to return"`
}

type prepareRefundArgs struct {
	OrderID string  `json:"order_id" description:"Order to refund"`
	Amount  float64 `json:"amount" description:"Refund amount in the order currency"`
	Reason  *string `json:"reason,omitempty" description:"Why the customer wants a refund"`
}

type confirmRefundArgs struct {
	DraftID string `json:"draft_id" description:"Refund draft to confirm"`
}

// NewRefundHandler serves ORDER_REFUND: it searches orders, stages a
// refund draft and confirms it in a second, explicit step.
func NewRefundHandler(env Env, orders core.OrderService) *Agentic {
	env.Tools.Register(tool.Schema{
		Name:        "search_orders",
		Description: "Search orders by free text and optional status filter",
		Parameters:  util.CreateSchema(searchOrdersArgs{}),
	})
	env.Tools.Register(tool.Schema{
		Name:        "prepare_refund",
		Description: "Stage a refund draft for an order; nothing is paid out yet",
		Parameters:  util.CreateSchema(prepareRefundArgs{}),
	})
	env.Tools.Register(tool.Schema{
		Name:        "confirm_refund",
		Description: "Confirm a previously prepared refund draft",
		Parameters:  util.CreateSchema(confirmRefundArgs{}),
	})

	h := NewAgentic(env, AgenticConfig{
		Intents:      []core.Intent{core.IntentOrderRefund},
		SystemPrompt: refundSystemPrompt,
		DefaultInput: "The customer asks about a refund but gave no details.",
		ToolNames:    []string{"search_orders", "prepare_refund", "confirm_refund"},
	})

	h.RegisterExecutor("search_orders", func(ctx context.Context, args map[string]any) (any, error) {
		q := core.OrderQuery{Text: stringArg(args, "query"), Status: stringArg(args, "status"), Limit: intArg(args, "limit")}
		found, err := orders.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "orders": found}, nil
	})
	h.RegisterExecutor("prepare_refund", func(ctx context.Context, args map[string]any) (any, error) {
		draft, err := orders.PrepareRefund(ctx, stringArg(args, "order_id"), floatArg(args, "amount"), stringArg(args, "reason"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "draft": draft}, nil
	})
	h.RegisterExecutor("confirm_refund", func(ctx context.Context, args map[string]any) (any, error) {
		refund, err := orders.ConfirmRefund(ctx, stringArg(args, "draft_id"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "refund": refund}, nil
	})

	return h
}

// Argument accessors for validated executor input. Validation guarantees
// declared types, so these only smooth over JSON's float64 numbers.

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func floatArg(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
