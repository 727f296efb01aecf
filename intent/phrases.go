package intent

import "github.com/hupe1980/intentmesh/core"

// defaultPhrases is the curated phrase list per intent. Phrases are
// matched on word boundaries, so "status" here never fires on an
// unrelated longer word.
var defaultPhrases = map[core.Intent][]string{
	core.IntentGreeting: {
		"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
	},
	core.IntentHelp: {
		"help", "what can you do", "how do you work", "capabilities",
	},
	core.IntentOrderStatus: {
		"order status", "where is my order", "track", "tracking", "shipment",
		"shipping", "delivery", "delivered", "arrive",
	},
	core.IntentOrderRefund: {
		"refund", "refunded", "money back", "return", "chargeback", "cancel order",
	},
	core.IntentProductStock: {
		"stock", "inventory", "in stock", "out of stock", "restock", "sku",
		"availability", "available",
	},
	core.IntentEmailDraft: {
		"email", "write an email", "draft", "compose", "reply to",
	},
	core.IntentCustomerLookup: {
		"customer", "account", "who is", "look up customer", "customer details",
	},
	core.IntentSalesReport: {
		"sales", "revenue", "report", "how much did we sell", "best seller",
		"turnover",
	},
}

// DefaultScorers returns one phrase scorer per intent of the closed
// vocabulary, all at weight 1.0.
func DefaultScorers() []Scorer {
	out := make([]Scorer, 0, len(defaultPhrases))
	for _, in := range core.Intents() {
		phrases, ok := defaultPhrases[in]
		if !ok {
			continue
		}
		out = append(out, NewPhraseScorer(in, phrases, 1.0))
	}
	return out
}
