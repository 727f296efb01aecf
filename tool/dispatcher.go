package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/intentmesh/internal/util"
	"github.com/hupe1980/intentmesh/logging"
)

// Executor is the callable bound to a tool name. Arguments have already
// been validated against the tool's schema when one is registered.
type Executor func(ctx context.Context, args map[string]any) (any, error)

// Dispatcher routes validated tool calls to their executors. Each agentic
// handler owns its own Dispatcher instance, so registering "find_customer"
// in two handlers cannot leak behavior between them.
//
// Dispatch never panics and never surfaces an error for caller-supplied
// bad input; every failure becomes a structured, JSON-safe result map that
// is fed back into the ongoing model conversation.
type Dispatcher struct {
	registry  *Registry
	executors map[string]Executor
	logger    *logging.RouterLogger
}

// NewDispatcher creates a dispatcher validating against the given schema
// registry.
func NewDispatcher(registry *Registry, logger *logging.RouterLogger) *Dispatcher {
	if logger == nil {
		logger = logging.NewRouterLogger(&logging.Config{Level: logging.LogLevelError})
	}
	return &Dispatcher{
		registry:  registry,
		executors: make(map[string]Executor),
		logger:    logger.WithComponent("dispatcher"),
	}
}

// RegisterExecutor binds business logic to a tool name on this dispatcher
// instance. A later registration for the same name wins.
func (d *Dispatcher) RegisterExecutor(name string, fn Executor) {
	if _, exists := d.executors[name]; exists {
		d.logger.Warn("tool.executor.overwrite", "tool_name", name)
	}
	d.executors[name] = fn
}

// ExecutorNames returns the tool names with a registered executor.
func (d *Dispatcher) ExecutorNames() []string {
	out := make([]string, 0, len(d.executors))
	for name := range d.executors {
		out = append(out, name)
	}
	return out
}

// Dispatch validates then executes the named tool and returns a JSON-safe
// result map. The audit trail carries only the tool name and argument
// count; argument values are never logged.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) map[string]any {
	start := time.Now()

	fn, ok := d.executors[name]
	if !ok {
		d.logger.Warn("tool.dispatch.unknown", "tool_name", name, "arg_count", len(args))
		return map[string]any{
			"success": false,
			"error":   fmt.Sprintf("Unknown tool %s.", name),
			"code":    "unknown_tool",
		}
	}

	if schema, ok := d.registry.Get(name); ok {
		if fieldErrs := util.ValidateArguments(args, schema.Parameters); len(fieldErrs) > 0 {
			fields := make([]map[string]any, len(fieldErrs))
			names := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				fields[i] = map[string]any{"field": fe.Field, "code": fe.Code}
				names[i] = fe.Field + ":" + fe.Code
			}
			d.logger.Warn("tool.dispatch.invalid_arguments", "tool_name", name, "arg_count", len(args), "fields", names)
			return map[string]any{
				"success": false,
				"error":   fmt.Sprintf("Invalid arguments for tool %s.", name),
				"code":    "invalid_arguments",
				"fields":  fields,
			}
		}
	}

	result, err := d.safeExecute(ctx, fn, args)
	if err != nil {
		d.logger.LogToolDispatch(name, len(args), time.Since(start), false)
		return map[string]any{
			"success": false,
			"error":   err.Error(),
			"code":    "execution_error",
		}
	}

	d.logger.LogToolDispatch(name, len(args), time.Since(start), true)

	return sanitizeResult(result)
}

// safeExecute shields the loop from panicking executors.
func (d *Dispatcher) safeExecute(ctx context.Context, fn Executor, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool.dispatch.panic", "recover", fmt.Sprintf("%v", r))
			err = fmt.Errorf("tool execution panicked")
		}
	}()
	return fn(ctx, args)
}

// sanitizeResult converts an arbitrary executor result into a JSON-safe
// map. Bare scalars and nil are wrapped as {result: value}; types
// implementing MapConvertible use their own conversion; everything else is
// converted structurally through a JSON round trip. A result that cannot
// be encoded is replaced rather than propagated, because the map is about
// to be serialized into a tool message.
func sanitizeResult(result any) map[string]any {
	switch v := result.(type) {
	case nil:
		return map[string]any{"result": nil}
	case map[string]any:
		if encodable(v) {
			return v
		}
		return encodeFailure()
	case MapConvertible:
		m := v.AsMap()
		if encodable(m) {
			return m
		}
		return encodeFailure()
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return map[string]any{"result": v}
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return encodeFailure()
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		// Serializable but not an object (slice, quoted scalar): wrap it.
		var wrapped any
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return encodeFailure()
		}
		return map[string]any{"result": wrapped}
	}
	return m
}

func encodable(m map[string]any) bool {
	_, err := json.Marshal(m)
	return err == nil
}

func encodeFailure() map[string]any {
	return map[string]any{"error": "Failed to encode tool result"}
}
