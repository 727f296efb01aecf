package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type refundArgs struct {
	OrderID string  `json:"order_id" description:"Order to refund"`
	Amount  float64 `json:"amount" description:"Refund amount"`
	Reason  *string `json:"reason,omitempty" description:"Why" enum:"damaged,late,other"`
	Count   int     `json:"count,omitempty"`
	hidden  string
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(refundArgs{})

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, false, schema["additionalProperties"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "order_id")
	assert.Contains(t, props, "amount")
	assert.Contains(t, props, "reason")
	assert.Contains(t, props, "count")
	assert.NotContains(t, props, "hidden")

	reason := props["reason"].(map[string]any)
	assert.Equal(t, "string", reason["type"])
	assert.Equal(t, []any{"damaged", "late", "other"}, reason["enum"])
	assert.Equal(t, "Why", reason["description"])

	// Pointer and omitempty fields are optional.
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"order_id", "amount"}, req)
}

func TestCreateSchema_NonStruct(t *testing.T) {
	schema := CreateSchema(42)
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["properties"])
}

func TestValidateArguments_OK(t *testing.T) {
	schema := CreateSchema(refundArgs{})
	errs := ValidateArguments(map[string]any{
		"order_id": "1452",
		"amount":   25.0,
		"reason":   "damaged",
	}, schema)
	assert.Empty(t, errs)
}

func TestValidateArguments_ReportsAllViolations(t *testing.T) {
	schema := CreateSchema(refundArgs{})
	errs := ValidateArguments(map[string]any{
		"amount":  "a lot",
		"reason":  "because",
		"surprise": true,
	}, schema)

	byField := map[string]string{}
	for _, fe := range errs {
		byField[fe.Field] = fe.Code
	}
	assert.Equal(t, CodeRequired, byField["order_id"])
	assert.Equal(t, CodeInvalidType, byField["amount"])
	assert.Equal(t, CodeInvalidEnum, byField["reason"])
	assert.Equal(t, CodeUnknownField, byField["surprise"])
}

func TestValidateArguments_JSONRoundTrippedSchema(t *testing.T) {
	// Required becomes []any and numbers float64 after a JSON round trip.
	raw, err := json.Marshal(CreateSchema(refundArgs{}))
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))

	errs := ValidateArguments(map[string]any{"order_id": "1452", "amount": float64(25)}, schema)
	assert.Empty(t, errs)

	errs = ValidateArguments(map[string]any{}, schema)
	assert.Len(t, errs, 2)
}

func TestValidateArguments_IntegerType(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"limit": map[string]any{"type": "integer"}},
	}

	assert.Empty(t, ValidateArguments(map[string]any{"limit": float64(5)}, schema))
	assert.Empty(t, ValidateArguments(map[string]any{"limit": 5}, schema))

	errs := ValidateArguments(map[string]any{"limit": 5.5}, schema)
	assert.Len(t, errs, 1)
	assert.Equal(t, CodeInvalidType, errs[0].Code)
}

func TestValidateArguments_AdditionalPropertiesDefaultAllowed(t *testing.T) {
	schema := map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
	assert.Empty(t, ValidateArguments(map[string]any{"extra": 1}, schema))
}
