package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIntent(t *testing.T) {
	assert.Equal(t, IntentOrderStatus, NormalizeIntent("ORDER_STATUS"))
	assert.Equal(t, IntentOrderStatus, NormalizeIntent("order_status"))
	assert.Equal(t, IntentOrderStatus, NormalizeIntent("  Order_Status  "))
	assert.Equal(t, IntentUnknown, NormalizeIntent(""))
	assert.Equal(t, IntentUnknown, NormalizeIntent("make me a sandwich"))
	assert.Equal(t, IntentUnknown, NormalizeIntent("ORDER-STATUS"))
}

func TestNormalizeIntent_Idempotent(t *testing.T) {
	inputs := []string{"greeting", " HELP ", "Order_Refund", "nonsense", "", "UNKNOWN"}
	for _, s := range inputs {
		once := NormalizeIntent(s)
		twice := NormalizeIntent(string(once))
		assert.Equal(t, once, twice, "input %q", s)
	}
}

func TestNormalizeIntent_UnknownIsNotKnown(t *testing.T) {
	// UNKNOWN is the catch-all, not a vocabulary member.
	assert.Equal(t, IntentUnknown, NormalizeIntent("unknown"))
	assert.False(t, IntentUnknown.IsKnown())
	assert.True(t, IntentSalesReport.IsKnown())
}

func TestIntents_SortedAndClosed(t *testing.T) {
	all := Intents()
	assert.Len(t, all, 8)
	assert.True(t, sort.SliceIsSorted(all, func(i, j int) bool { return all[i] < all[j] }))
	assert.NotContains(t, all, IntentUnknown)
	for _, in := range all {
		assert.True(t, in.IsKnown())
	}
}
