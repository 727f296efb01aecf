package handler

import (
	"context"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/internal/util"
	"github.com/hupe1980/intentmesh/tool"
)

const emailSystemPrompt = `You draft customer emails for an online shop.
Resolve the recipient with find_customer first, then stage the message
with draft_email. Drafts are not sent; say so in your answer and include
the draft id.`

type findCustomerArgs struct {
	Query string `json:"query" description:"Name or email fragment to search for"`
}

type draftEmailArgs struct {
	To      string `json:"to" description:"Recipient email address"`
	Subject string `json:"subject" description:"Email subject line"`
	Body    string `json:"body" description:"Email body text"`
}

// NewEmailHandler serves EMAIL_DRAFT: it resolves the recipient and
// stages an email draft.
func NewEmailHandler(env Env, customers core.CustomerService, emails core.EmailService) *Agentic {
	env.Tools.Register(tool.Schema{
		Name:        "find_customer",
		Description: "Search customers by name or email fragment",
		Parameters:  util.CreateSchema(findCustomerArgs{}),
	})
	env.Tools.Register(tool.Schema{
		Name:        "draft_email",
		Description: "Stage an outbound customer email; nothing is sent",
		Parameters:  util.CreateSchema(draftEmailArgs{}),
	})

	h := NewAgentic(env, AgenticConfig{
		Intents:      []core.Intent{core.IntentEmailDraft},
		SystemPrompt: emailSystemPrompt,
		DefaultInput: "The user wants an email drafted but gave no details.",
		ToolNames:    []string{"find_customer", "draft_email"},
	})

	h.RegisterExecutor("find_customer", func(ctx context.Context, args map[string]any) (any, error) {
		found, err := customers.Find(ctx, stringArg(args, "query"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "customers": found}, nil
	})
	h.RegisterExecutor("draft_email", func(ctx context.Context, args map[string]any) (any, error) {
		draft, err := emails.Draft(ctx, stringArg(args, "to"), stringArg(args, "subject"), stringArg(args, "body"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "draft": draft}, nil
	})

	return h
}
