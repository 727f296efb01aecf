// Package tool implements the function-calling subsystem: schema-described
// capabilities the model may invoke mid-conversation, a registry keyed by
// tool name and a per-handler dispatcher that validates and executes
// untrusted calls.
//
// Everything a model can cause to happen passes through Dispatcher.Dispatch,
// which never panics and never returns an error for caller-supplied bad
// input: unknown tools and invalid arguments become structured result maps
// the conversation can recover from.
package tool

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Schema declares a tool to the model: a unique name, a description and a
// JSON-schema-shaped parameter specification
// ({type:"object", properties, required, additionalProperties:false}).
type Schema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// MapConvertible lets domain result types opt into an explicit map
// representation instead of the reflection-based fallback conversion.
type MapConvertible interface {
	AsMap() map[string]any
}

// ParseArguments decodes a model-supplied argument payload defensively.
// Malformed JSON, non-object JSON and empty input all coerce to an empty
// map; the schema validator then reports any missing required fields. It
// never returns an error because argument strings come straight from the
// model and must not be able to break the loop.
func ParseArguments(raw string) map[string]any {
	if raw == "" || !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return map[string]any{}
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil || args == nil {
		return map[string]any{}
	}
	return args
}
