package engine

import (
	"context"

	"github.com/hupe1980/intentmesh/core"
)

// MetadataBuilder is the default context builder: it copies request
// metadata into the context under their own keys and nothing else. Real
// deployments inject a builder that joins user, store and
// recent-activity data from their own systems.
type MetadataBuilder struct{}

// Build implements core.ContextBuilder.
func (MetadataBuilder) Build(_ context.Context, reqCtx core.Context, metadata map[string]any) (core.Context, error) {
	out := reqCtx
	for k, v := range metadata {
		out = out.WithValue(k, v)
	}
	return out, nil
}

// CompositeBuilder chains context builders; each step receives the
// previous step's output. The first error aborts the chain.
type CompositeBuilder struct {
	steps []core.ContextBuilder
}

// NewCompositeBuilder chains the given builders in order.
func NewCompositeBuilder(steps ...core.ContextBuilder) *CompositeBuilder {
	return &CompositeBuilder{steps: steps}
}

// Build implements core.ContextBuilder.
func (b *CompositeBuilder) Build(ctx context.Context, reqCtx core.Context, metadata map[string]any) (core.Context, error) {
	out := reqCtx
	var err error
	for _, step := range b.steps {
		out, err = step.Build(ctx, out, metadata)
		if err != nil {
			return reqCtx, err
		}
	}
	return out, nil
}
