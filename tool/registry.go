package tool

import "github.com/hupe1980/intentmesh/logging"

// Registry maps tool names to their schemas. It holds pure data: executors
// live on per-handler Dispatcher instances so the same tool name can carry
// different business logic in different handlers.
//
// A Registry is populated once at boot, before it is published for
// concurrent reads, and is not mutated afterwards; it therefore carries
// no lock.
type Registry struct {
	schemas map[string]Schema
	logger  logging.Logger
}

// NewRegistry creates an empty schema registry.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Registry{schemas: make(map[string]Schema), logger: logger}
}

// Register stores a schema keyed by its name. Registering the same name
// again overwrites the previous schema; that is logged but never an error.
func (r *Registry) Register(schema Schema) {
	if _, exists := r.schemas[schema.Name]; exists {
		r.logger.Warn("tool.registry.overwrite", "tool_name", schema.Name)
	}
	r.schemas[schema.Name] = schema
}

// Get returns the schema for name.
func (r *Registry) Get(name string) (Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// GetMany returns the schemas for the given names, silently skipping
// names that are not registered. Order follows the input names.
func (r *Registry) GetMany(names []string) []Schema {
	out := make([]Schema, 0, len(names))
	for _, name := range names {
		if s, ok := r.schemas[name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether a schema is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.schemas[name]
	return ok
}

// All returns every registered schema. The slice is a fresh copy; mutating
// it does not affect the registry.
func (r *Registry) All() []Schema {
	out := make([]Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	return out
}
