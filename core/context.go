package core

// Context carries the request-scoped data a handler needs: the raw user
// input, the acting user, optional routing overrides and whatever the
// context builder attached (store data, recent activity, memory).
//
// A Context is created per request, enriched once by the context builder
// and then treated as read-only by handlers. The With* methods return a
// shallow copy so enrichment never mutates the caller's map.
type Context map[string]any

// Well-known context keys. Everything else in the map is free-form data
// attached by the context builder.
const (
	ctxKeyInput        = "input"
	ctxKeyUserID       = "user_id"
	ctxKeyIntent       = "intent"
	ctxKeySystemPrompt = "system_prompt"
	ctxKeyMemory       = "memory"
)

// NewContext builds a minimal request context from the raw input and the
// acting user.
func NewContext(input, userID string) Context {
	return Context{ctxKeyInput: input, ctxKeyUserID: userID}
}

func (c Context) clone() Context {
	out := make(Context, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Input returns the raw user input, or "" when absent.
func (c Context) Input() string { return c.stringVal(ctxKeyInput) }

// UserID returns the acting user identifier, or "" when absent.
func (c Context) UserID() string { return c.stringVal(ctxKeyUserID) }

// IntentOverride returns the explicit routing intent carried by the
// context, or "" when the request should be classified from text.
func (c Context) IntentOverride() string { return c.stringVal(ctxKeyIntent) }

// SystemPromptOverride returns a caller-supplied system prompt that
// replaces the handler's fixed prompt, or "" when absent.
func (c Context) SystemPromptOverride() string { return c.stringVal(ctxKeySystemPrompt) }

// Memory returns the recent exchanges attached by the engine, or nil.
func (c Context) Memory() []Exchange {
	if v, ok := c[ctxKeyMemory].([]Exchange); ok {
		return v
	}
	return nil
}

// WithInput returns a copy of the context with the input replaced.
func (c Context) WithInput(input string) Context {
	out := c.clone()
	out[ctxKeyInput] = input
	return out
}

// WithIntentOverride returns a copy carrying an explicit routing intent.
func (c Context) WithIntentOverride(intent string) Context {
	out := c.clone()
	out[ctxKeyIntent] = intent
	return out
}

// WithSystemPromptOverride returns a copy carrying a system prompt override.
func (c Context) WithSystemPromptOverride(prompt string) Context {
	out := c.clone()
	out[ctxKeySystemPrompt] = prompt
	return out
}

// WithMemory returns a copy carrying the recent exchanges.
func (c Context) WithMemory(recent []Exchange) Context {
	out := c.clone()
	out[ctxKeyMemory] = recent
	return out
}

// WithValue returns a copy carrying an arbitrary enrichment value.
func (c Context) WithValue(key string, value any) Context {
	out := c.clone()
	out[key] = value
	return out
}

// Value returns an arbitrary context entry.
func (c Context) Value(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

func (c Context) stringVal(key string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}
