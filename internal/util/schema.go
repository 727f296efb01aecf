package util

import (
	"fmt"
	"reflect"
	"strings"
)

// Validation error codes attached to FieldError entries. They are safe to
// log and safe to feed back into a model conversation; field values never
// appear in them.
const (
	CodeRequired     = "required"
	CodeInvalidType  = "invalid_type"
	CodeInvalidEnum  = "invalid_enum"
	CodeUnknownField = "unknown_field"
)

// FieldError describes one argument-validation failure.
type FieldError struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Code)
}

// ValidateArguments checks a map of untrusted arguments against a minimal
// JSON-schema-shaped map ({type:"object", properties, required,
// additionalProperties}). It returns every violation it finds rather than
// stopping at the first, so the caller can report a complete list.
//
// Checks performed:
//   - every required field is present
//   - each supplied field matches its declared type
//   - enum-constrained fields hold one of the allowed values
//   - when additionalProperties is false, undeclared fields are rejected
func ValidateArguments(args map[string]any, schema map[string]any) []FieldError {
	var errs []FieldError

	for _, name := range requiredFields(schema) {
		if _, ok := args[name]; !ok {
			errs = append(errs, FieldError{Field: name, Code: CodeRequired})
		}
	}

	properties, _ := schema["properties"].(map[string]any)
	allowExtra := true
	if v, ok := schema["additionalProperties"].(bool); ok {
		allowExtra = v
	}

	for name, value := range args {
		propSchema, declared := propertyOf(properties, name)
		if !declared {
			if !allowExtra {
				errs = append(errs, FieldError{Field: name, Code: CodeUnknownField})
			}
			continue
		}

		if typeName, ok := propSchema["type"].(string); ok && !matchesType(value, typeName) {
			errs = append(errs, FieldError{Field: name, Code: CodeInvalidType})
			continue
		}
		if allowed, ok := enumOf(propSchema); ok && !enumContains(allowed, value) {
			errs = append(errs, FieldError{Field: name, Code: CodeInvalidEnum})
		}
	}

	return errs
}

// requiredFields tolerates both []string (hand-written schemas) and []any
// (schemas round-tripped through JSON).
func requiredFields(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		out := make([]string, 0, len(req))
		for _, v := range req {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func propertyOf(properties map[string]any, name string) (map[string]any, bool) {
	raw, ok := properties[name]
	if !ok {
		return nil, false
	}
	prop, ok := raw.(map[string]any)
	return prop, ok
}

func enumOf(propSchema map[string]any) ([]any, bool) {
	switch vals := propSchema["enum"].(type) {
	case []any:
		return vals, true
	case []string:
		out := make([]any, len(vals))
		for i, s := range vals {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func enumContains(allowed []any, value any) bool {
	for _, candidate := range allowed {
		if fmt.Sprintf("%v", candidate) == fmt.Sprintf("%v", value) {
			return true
		}
	}
	return false
}

// matchesType checks a decoded JSON value against a JSON schema type name.
// nil passes every type; absence is handled by the required check.
func matchesType(value any, typeName string) bool {
	if value == nil {
		return true
	}
	switch typeName {
	case "string":
		_, ok := value.(string)
		return ok
	case "integer":
		switch v := value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64: // JSON numbers decode as float64
			return v == float64(int64(v))
		}
		return false
	case "number":
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return true
		}
		return false
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	}
	return true
}

// CreateSchema derives a tool parameter schema from a struct type. Field
// names come from json tags, descriptions from `description` tags and enum
// constraints from comma-separated `enum` tags. Non-pointer fields without
// omitempty are required. The resulting schema always forbids additional
// properties, matching the dispatcher's strict validation.
//
// Example:
//
//	type refundArgs struct {
//	    OrderID string  `json:"order_id" description:"Order to refund"`
//	    Amount  float64 `json:"amount" description:"Refund amount"`
//	    Reason  *string `json:"reason,omitempty" enum:"damaged,late,other"`
//	}
func CreateSchema(structType any) map[string]any {
	t := reflect.TypeOf(structType)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return map[string]any{
			"type":                 "object",
			"properties":           map[string]any{},
			"additionalProperties": false,
		}
	}

	properties := make(map[string]any)
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := field.Name
		if jsonTag != "" {
			if parts := strings.Split(jsonTag, ","); parts[0] != "" {
				name = parts[0]
			}
		}

		fieldSchema := map[string]any{"type": jsonType(field.Type)}
		if desc := field.Tag.Get("description"); desc != "" {
			fieldSchema["description"] = desc
		}
		if enumTag := field.Tag.Get("enum"); enumTag != "" {
			values := strings.Split(enumTag, ",")
			enum := make([]any, len(values))
			for j, v := range values {
				enum[j] = strings.TrimSpace(v)
			}
			fieldSchema["enum"] = enum
		}
		properties[name] = fieldSchema

		if !hasOmitEmpty(jsonTag) && field.Type.Kind() != reflect.Ptr {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Ptr:
		return jsonType(t.Elem())
	default:
		return "string"
	}
}

func hasOmitEmpty(tag string) bool {
	parts := strings.Split(tag, ",")
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "omitempty" {
			return true
		}
	}
	return false
}
