package core

import "strings"

// Intent is a closed-vocabulary label describing what the user wants done.
// Free text never becomes an Intent directly; it must pass through
// NormalizeIntent (or the classifier, which normalizes internally).
type Intent string

const (
	// IntentGreeting covers salutations and small talk openers.
	IntentGreeting Intent = "GREETING"
	// IntentHelp asks what the assistant can do.
	IntentHelp Intent = "HELP"
	// IntentOrderStatus asks where an order is or when it arrives.
	IntentOrderStatus Intent = "ORDER_STATUS"
	// IntentOrderRefund requests a refund or return for an order.
	IntentOrderRefund Intent = "ORDER_REFUND"
	// IntentProductStock asks about or adjusts inventory levels.
	IntentProductStock Intent = "PRODUCT_STOCK"
	// IntentEmailDraft asks for a customer email to be drafted.
	IntentEmailDraft Intent = "EMAIL_DRAFT"
	// IntentCustomerLookup asks for customer account details.
	IntentCustomerLookup Intent = "CUSTOMER_LOOKUP"
	// IntentSalesReport asks for sales or revenue figures.
	IntentSalesReport Intent = "SALES_REPORT"
	// IntentUnknown is the catch-all for anything outside the vocabulary.
	IntentUnknown Intent = "UNKNOWN"
)

// knownIntents is the closed set, excluding IntentUnknown.
var knownIntents = map[Intent]struct{}{
	IntentGreeting:       {},
	IntentHelp:           {},
	IntentOrderStatus:    {},
	IntentOrderRefund:    {},
	IntentProductStock:   {},
	IntentEmailDraft:     {},
	IntentCustomerLookup: {},
	IntentSalesReport:    {},
}

// Intents returns the closed vocabulary (excluding UNKNOWN) in
// ascending alphabetical order.
func Intents() []Intent {
	out := make([]Intent, 0, len(knownIntents))
	for in := range knownIntents {
		out = append(out, in)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// NormalizeIntent maps an arbitrary string onto the closed vocabulary.
// Case and surrounding whitespace are ignored; anything outside the set
// maps to IntentUnknown. The mapping is idempotent:
// NormalizeIntent(string(NormalizeIntent(s))) == NormalizeIntent(s).
func NormalizeIntent(s string) Intent {
	candidate := Intent(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := knownIntents[candidate]; ok {
		return candidate
	}
	return IntentUnknown
}

// IsKnown reports whether the intent is a member of the closed vocabulary.
// IntentUnknown is not considered known.
func (i Intent) IsKnown() bool {
	_, ok := knownIntents[i]
	return ok
}

// String implements fmt.Stringer.
func (i Intent) String() string { return string(i) }
