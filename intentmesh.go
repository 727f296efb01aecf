// Package intentmesh provides a high-level façade over the intent
// classifier, the handler registry and the engine, enabling rapid
// construction of a tool-calling assistant. Most applications interact
// with this package by:
//  1. Creating an IntentMesh via New() (optionally overriding the model
//     factory, the domain services or the stores)
//  2. Calling Handle() per user request
//
// The façade delegates orchestration to engine.Engine while keeping
// setup ergonomics concise. All defaults are safe for local development
// and testing; production deployments supply real domain services, a
// durable memory store and a structured logger.
package intentmesh

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/engine"
	"github.com/hupe1980/intentmesh/handler"
	"github.com/hupe1980/intentmesh/intent"
	"github.com/hupe1980/intentmesh/logging"
	"github.com/hupe1980/intentmesh/memory"
	"github.com/hupe1980/intentmesh/model"
	"github.com/hupe1980/intentmesh/model/anthropic"
	"github.com/hupe1980/intentmesh/model/openai"
	"github.com/hupe1980/intentmesh/service"
	"github.com/hupe1980/intentmesh/tool"
)

// Services bundles the domain collaborators the concrete handlers reach
// through tool executors. Any nil service is replaced by an in-memory
// implementation from the service package.
type Services struct {
	Orders    core.OrderService
	Stock     core.StockService
	Email     core.EmailService
	Customers core.CustomerService
	Analytics core.AnalyticsService
}

// Options configures the IntentMesh instance.
type Options struct {
	// Provider selects the model backend ("openai" or "anthropic") when
	// no Factory is supplied. Ignored otherwise.
	Provider string

	// Model overrides the adapter's default model name.
	Model string

	// Temperature is forwarded to the model adapter.
	Temperature float64

	// MaxTurns caps the model calls per agentic conversation. Zero means
	// handler.DefaultMaxTurns.
	MaxTurns int

	// MinScore is the classification threshold; intents scoring below it
	// fall through to UNKNOWN.
	MinScore int

	// Observer receives every classification decision. Optional.
	Observer core.Observer

	// Factory overrides provider selection entirely, typically with a
	// scripted client in tests.
	Factory model.Factory

	// Services are the domain collaborators (defaults to in-memory
	// implementations if not provided).
	Services Services

	// Memory stores conversation exchanges per user (defaults to a
	// bounded in-memory store).
	Memory core.MemoryStore

	// ContextBuilder enriches the request context before classification.
	ContextBuilder core.ContextBuilder

	// Logger (defaults to error-level structured logging if nil).
	Logger *logging.RouterLogger
}

// IntentMesh is the high-level façade aggregating the classifier, the
// registries and the engine.
type IntentMesh struct {
	opts     Options
	engine   *engine.Engine
	handlers *handler.Registry
	tools    *tool.Registry
}

// New creates a fully wired IntentMesh. Unset collaborators fall back to
// local defaults; the only error source is an unsupported provider name.
func New(optFns ...func(o *Options)) (*IntentMesh, error) {
	opts := Options{
		Provider: "openai",
		Memory:   memory.NewInMemoryStore(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewRouterLogger(&logging.Config{Level: logging.LogLevelError})
	}

	factory := opts.Factory
	if factory == nil {
		f, err := NewFactory(opts.Provider)
		if err != nil {
			return nil, err
		}
		factory = f
	}
	if opts.Model != "" || opts.Temperature != 0 {
		factory = &tunedFactory{inner: factory, model: opts.Model, temperature: opts.Temperature}
	}

	svcs := opts.Services
	if svcs.Orders == nil {
		svcs.Orders = service.NewInMemoryOrderService()
	}
	if svcs.Stock == nil {
		svcs.Stock = service.NewInMemoryStockService()
	}
	if svcs.Email == nil {
		svcs.Email = service.NewInMemoryEmailService()
	}
	if svcs.Customers == nil {
		orders, ok := svcs.Orders.(*service.InMemoryOrderService)
		if !ok {
			orders = service.NewInMemoryOrderService()
		}
		svcs.Customers = service.NewInMemoryCustomerService(orders)
	}
	if svcs.Analytics == nil {
		orders, ok := svcs.Orders.(*service.InMemoryOrderService)
		if !ok {
			orders = service.NewInMemoryOrderService()
		}
		svcs.Analytics = service.NewInMemoryAnalyticsService(orders)
	}

	classifier := intent.NewClassifier(func(o *intent.ClassifierOptions) {
		o.MinScore = opts.MinScore
		o.Observer = opts.Observer
		o.Logger = logger.WithComponent("classifier")
	})
	for _, s := range intent.DefaultScorers() {
		classifier.Register(s)
	}

	tools := tool.NewRegistry(logger.WithComponent("tools"))
	env := handler.Env{
		Factory:  factory,
		Tools:    tools,
		Logger:   logger,
		MaxTurns: opts.MaxTurns,
	}

	bindings := []handler.Binding{
		{Intents: []core.Intent{core.IntentGreeting}, Handler: handler.NewGreetingHandler()},
		{Intents: []core.Intent{core.IntentOrderStatus}, Handler: handler.NewOrderStatusHandler(env, svcs.Orders)},
		{Intents: []core.Intent{core.IntentOrderRefund}, Handler: handler.NewRefundHandler(env, svcs.Orders)},
		{Intents: []core.Intent{core.IntentProductStock}, Handler: handler.NewStockHandler(env, svcs.Stock)},
		{Intents: []core.Intent{core.IntentEmailDraft}, Handler: handler.NewEmailHandler(env, svcs.Customers, svcs.Email)},
		{Intents: []core.Intent{core.IntentCustomerLookup}, Handler: handler.NewCustomerHandler(env, svcs.Customers)},
		{Intents: []core.Intent{core.IntentSalesReport}, Handler: handler.NewAnalyticsHandler(env, svcs.Analytics)},
	}

	handlers := handler.NewRegistry(logger.WithComponent("handlers"))
	for _, b := range bindings {
		handlers.Register(b.Handler, b.Intents...)
	}
	handlers.Register(handler.NewHelpHandler(handlers.Intents()), core.IntentHelp)

	eng := engine.New(engine.Options{
		Classifier:     classifier,
		Handlers:       handlers,
		Fallback:       handler.NewFallbackHandler(handlers.Intents()),
		Tools:          tools,
		ContextBuilder: opts.ContextBuilder,
		Memory:         opts.Memory,
		Logger:         logger,
	})

	return &IntentMesh{opts: opts, engine: eng, handlers: handlers, tools: tools}, nil
}

// tunedFactory forwards the façade-level model name and temperature to
// every client the inner factory creates.
type tunedFactory struct {
	inner       model.Factory
	model       string
	temperature float64
}

func (f *tunedFactory) HasCredential() bool { return f.inner.HasCredential() }

func (f *tunedFactory) Create(in core.Intent, optFns ...func(o *model.Options)) (model.Client, error) {
	fns := append([]func(o *model.Options){func(o *model.Options) {
		if f.model != "" {
			o.Model = f.model
		}
		if f.temperature != 0 {
			o.Temperature = f.temperature
		}
	}}, optFns...)
	return f.inner.Create(in, fns...)
}

// NewFactory builds the model factory for a provider name, wiring the
// environment credential convention of that provider.
func NewFactory(provider string) (model.Factory, error) {
	switch provider {
	case "openai":
		return model.NewEnvFactory(provider, openai.NewFactoryConstructor())
	case "anthropic":
		return model.NewEnvFactory(provider, anthropic.NewFactoryConstructor())
	default:
		return nil, fmt.Errorf("unsupported model provider %q", provider)
	}
}

// Handle processes one user request. The metadata map is attached to the
// request context by the default context builder and handed to handlers.
func (m *IntentMesh) Handle(ctx context.Context, userID, input string, metadata map[string]any) core.Response {
	reqCtx := core.NewContext(input, userID)
	return m.engine.Handle(ctx, input, reqCtx, metadata)
}

// HandleContext processes one request with a caller-built context, used
// when the caller needs routing or prompt overrides.
func (m *IntentMesh) HandleContext(ctx context.Context, reqCtx core.Context, metadata map[string]any) core.Response {
	return m.engine.Handle(ctx, reqCtx.Input(), reqCtx, metadata)
}

// Intents returns the registered intents in alphabetical order.
func (m *IntentMesh) Intents() []core.Intent { return m.handlers.Intents() }

// Tools returns the shared tool registry, useful for inspection.
func (m *IntentMesh) Tools() *tool.Registry { return m.tools }

// NewMemoryStore builds the default bounded memory store with the given
// limits, forwarding zero values to the package defaults.
func NewMemoryStore(maxExchanges int, ttl time.Duration) core.MemoryStore {
	opts := make([]memory.InMemoryOption, 0, 2)
	if maxExchanges > 0 {
		opts = append(opts, memory.WithMaxExchanges(maxExchanges))
	}
	if ttl > 0 {
		opts = append(opts, memory.WithTTL(ttl))
	}
	return memory.NewInMemoryStore(opts...)
}
