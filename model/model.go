// Package model defines the minimal client interface the agentic loop
// needs from a language model provider: one blocking chat call per turn,
// given the transcript and the offered tool schemas. Provider adapters
// live in the openai and anthropic subpackages; a scripted client backs
// tests and examples.
package model

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/tool"
)

// TokenUsage captures token accounting reported by the provider.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResult is the unified outcome of one model turn.
type ChatResult struct {
	Content      string          `json:"content"`
	ToolCalls    []core.ToolCall `json:"tool_calls,omitempty"`
	FinishReason string          `json:"finish_reason"`
	Usage        *TokenUsage     `json:"usage,omitempty"`
}

// Info contains metadata about a client implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// Client is the model collaborator consumed by agentic handlers. Chat
// blocks for exactly one completion; streaming and retry policy belong to
// the transport layer behind the adapter.
type Client interface {
	Chat(ctx context.Context, messages []core.Message, tools []tool.Schema) (*ChatResult, error)
	Info() Info
}

// Options are the per-client tuning knobs a factory forwards to adapters.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int64
}

// Factory creates clients on demand and reports whether a provider
// credential is available at all. Agentic handlers check HasCredential
// before entering the loop; its absence is a terminal authentication
// error.
type Factory interface {
	HasCredential() bool
	Create(intent core.Intent, optFns ...func(o *Options)) (Client, error)
}

// EnvFactory resolves the credential from the conventional environment
// variable of the configured provider and builds clients through a
// constructor function, so the core never imports provider SDKs directly.
type EnvFactory struct {
	provider  string
	envVar    string
	construct func(opts Options) (Client, error)
}

// credentialEnvVars maps provider names onto their conventional API key
// environment variables.
var credentialEnvVars = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

// NewEnvFactory builds a factory for the named provider. The construct
// function is typically openai.NewClient or anthropic.NewClient from the
// adapter subpackages.
func NewEnvFactory(provider string, construct func(opts Options) (Client, error)) (*EnvFactory, error) {
	envVar, ok := credentialEnvVars[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported model provider %q", provider)
	}
	return &EnvFactory{provider: provider, envVar: envVar, construct: construct}, nil
}

// HasCredential implements Factory.
func (f *EnvFactory) HasCredential() bool {
	return os.Getenv(f.envVar) != ""
}

// Create implements Factory. The intent is accepted so factories may pick
// cheaper models for simple intents; EnvFactory itself ignores it.
func (f *EnvFactory) Create(_ core.Intent, optFns ...func(o *Options)) (Client, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return f.construct(opts)
}

// ScriptedTurn is one canned model turn for the ScriptedClient: either
// assistant content, tool calls, or an error simulating a provider
// failure.
type ScriptedTurn struct {
	Content   string
	ToolCalls []core.ToolCall
	Err       error
}

// ScriptedClient replays a fixed sequence of turns, recording everything
// it receives. It backs loop and handler tests the same way a canned mock
// model would; once the script is exhausted it keeps returning a plain
// final answer so tests never hang on an empty queue.
type ScriptedClient struct {
	mu       sync.Mutex
	turns    []ScriptedTurn
	pos      int
	Requests [][]core.Message
	Tools    [][]tool.Schema
}

// NewScriptedClient builds a client replaying the given turns in order.
func NewScriptedClient(turns ...ScriptedTurn) *ScriptedClient {
	return &ScriptedClient{turns: turns}
}

// ScriptedToolCall is a convenience constructor generating a unique call id.
func ScriptedToolCall(name, arguments string) core.ToolCall {
	return core.ToolCall{ID: "call_" + uuid.NewString()[:8], Name: name, Arguments: arguments}
}

// Chat implements Client.
func (c *ScriptedClient) Chat(_ context.Context, messages []core.Message, tools []tool.Schema) (*ChatResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Requests = append(c.Requests, append([]core.Message(nil), messages...))
	c.Tools = append(c.Tools, append([]tool.Schema(nil), tools...))

	if c.pos >= len(c.turns) {
		return &ChatResult{Content: "Done.", FinishReason: "stop"}, nil
	}
	turn := c.turns[c.pos]
	c.pos++

	if turn.Err != nil {
		return nil, turn.Err
	}
	result := &ChatResult{Content: turn.Content, FinishReason: "stop"}
	if len(turn.ToolCalls) > 0 {
		result.ToolCalls = turn.ToolCalls
		result.FinishReason = "tool_calls"
	}
	return result, nil
}

// Info implements Client.
func (c *ScriptedClient) Info() Info {
	return Info{Name: "scripted", Provider: "mock"}
}

// Calls returns how many chat turns were requested so far.
func (c *ScriptedClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}

// StaticFactory wraps a fixed client; useful for tests and examples.
type StaticFactory struct {
	Client     Client
	Credential bool
}

// HasCredential implements Factory.
func (f *StaticFactory) HasCredential() bool { return f.Credential }

// Create implements Factory.
func (f *StaticFactory) Create(core.Intent, ...func(o *Options)) (Client, error) {
	return f.Client, nil
}
