package handler

import (
	"context"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/util"
	"github.com/hupe1980/intentmesh/tool"
)

const analyticsSystemPrompt = `You report sales figures for an online
shop. Fetch the numbers with sales_summary for the period the user asks
about and present them concisely. Only report figures the tool returned.`

type salesSummaryArgs struct {
	Period string `json:"period" description:"Reporting period" enum:"today,yesterday,week,month,quarter,year"`
}

// NewAnalyticsHandler serves SALES_REPORT with aggregate revenue lookups.
func NewAnalyticsHandler(env Env, analytics core.AnalyticsService) *Agentic {
	env.Tools.Register(tool.Schema{
		Name:        "sales_summary",
		Description: "Fetch aggregate order count and revenue for a period",
		Parameters:  util.CreateSchema(salesSummaryArgs{}),
	})

	h := NewAgentic(env, AgenticConfig{
		Intents:      []core.Intent{core.IntentSalesReport},
		SystemPrompt: analyticsSystemPrompt,
		DefaultInput: "The user wants a sales report but gave no period.",
		ToolNames:    []string{"sales_summary"},
	})

	h.RegisterExecutor("sales_summary", func(ctx context.Context, args map[string]any) (any, error) {
		summary, err := analytics.SalesSummary(ctx, stringArg(args, "period"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "summary": summary}, nil
	})

	return h
}
