package handler

import (
	"context"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/util"
	"github.com/hupe1980/intentmesh/tool"
)

const stockSystemPrompt = `You are an inventory assistant for an online
shop. Check levels with check_stock before any adjustment and use
adjust_stock only when the user explicitly asks for a correction. State
the resulting available quantity in your answer.`

type checkStockArgs struct {
	SKU string `json:"sku" description:"Stock keeping unit to check"`
}

type adjustStockArgs struct {
	SKU    string `json:"sku" description:"Stock keeping unit to adjust"`
	Delta  int    `json:"delta" description:"Signed quantity change"`
	Reason string `json:"reason" description:"Why the level is being corrected" enum:"recount,damage,received,correction"`
}

// NewStockHandler serves PRODUCT_STOCK with level checks and explicit
// adjustments.
func NewStockHandler(env Env, stock core.StockService) *Agentic {
	env.Tools.Register(tool.Schema{
		Name:        "check_stock",
		Description: "Fetch the inventory position of one SKU",
		Parameters:  util.CreateSchema(checkStockArgs{}),
	})
	env.Tools.Register(tool.Schema{
		Name:        "adjust_stock",
		Description: "Apply a signed inventory correction to one SKU",
		Parameters:  util.CreateSchema(adjustStockArgs{}),
	})

	h := NewAgentic(env, AgenticConfig{
		Intents:      []core.Intent{core.IntentProductStock},
		SystemPrompt: stockSystemPrompt,
		DefaultInput: "The user asks about inventory but gave no details.",
		ToolNames:    []string{"check_stock", "adjust_stock"},
	})

	h.RegisterExecutor("check_stock", func(ctx context.Context, args map[string]any) (any, error) {
		level, err := stock.Check(ctx, stringArg(args, "sku"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "stock": level}, nil
	})
	h.RegisterExecutor("adjust_stock", func(ctx context.Context, args map[string]any) (any, error) {
		level, err := stock.Adjust(ctx, stringArg(args, "sku"), intArg(args, "delta"), stringArg(args, "reason"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "stock": level}, nil
	})

	return h
}
