package handler

import (
	"context"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/util"
	"github.com/hupe1980/intentmesh/tool"
)

const customerSystemPrompt = `You look up customer accounts for an online
shop. Resolve the account with find_customer and, when relevant, pull
their purchase history with list_recent_orders. Summarize the account in
plain language; never invent data the tools did not return.`

type listRecentOrdersArgs struct {
	CustomerID string `json:"customer_id" description:"Customer whose orders to list"`
	Limit      *int   `json:"limit,omitempty" description:"Maximum number of orders"`
}

// NewCustomerHandler serves CUSTOMER_LOOKUP. It reuses the find_customer
// tool name with its own executor; the handler-scoped dispatcher keeps
// that independent of the email handler's registration.
func NewCustomerHandler(env Env, customers core.CustomerService) *Agentic {
	env.Tools.Register(tool.Schema{
		Name:        "find_customer",
		Description: "Search customers by name or email fragment",
		Parameters:  util.CreateSchema(findCustomerArgs{}),
	})
	env.Tools.Register(tool.Schema{
		Name:        "list_recent_orders",
		Description: "List a customer's most recent orders",
		Parameters:  util.CreateSchema(listRecentOrdersArgs{}),
	})

	h := NewAgentic(env, AgenticConfig{
		Intents:      []core.Intent{core.IntentCustomerLookup},
		SystemPrompt: customerSystemPrompt,
		DefaultInput: "The user asks about a customer but gave no details.",
		ToolNames:    []string{"find_customer", "list_recent_orders"},
	})

	h.RegisterExecutor("find_customer", func(ctx context.Context, args map[string]any) (any, error) {
		found, err := customers.Find(ctx, stringArg(args, "query"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "customers": found}, nil
	})
	h.RegisterExecutor("list_recent_orders", func(ctx context.Context, args map[string]any) (any, error) {
		orders, err := customers.RecentOrders(ctx, stringArg(args, "customer_id"), intArg(args, "limit"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "orders": orders}, nil
	})

	return h
}
