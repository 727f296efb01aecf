// Package openai adapts the OpenAI Chat Completions API (including
// function/tool calling) to the intentmesh model.Client interface. One
// Chat invocation maps onto exactly one non-streaming completion request.
package openai

import (
	"context"
	"fmt"

	"github.com/hupe1980/intentmesh/core"
	"github.com/hupe1980/intentmesh/model"
	"github.com/hupe1980/intentmesh/tool"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI client adapter. Fields mirror a minimal
// subset of Chat Completion parameters.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Client wraps the OpenAI SDK behind model.Client.
type Client struct {
	client *openai.Client
	opts   Options
}

// NewClient creates a client using the SDK's default credential chain
// (OPENAI_API_KEY).
func NewClient(optFns ...func(o *Options)) *Client {
	client := openai.NewClient()
	return NewClientFromSDK(&client, optFns...)
}

// NewClientFromSDK wraps an existing SDK client.
func NewClientFromSDK(client *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

// NewFactoryConstructor adapts NewClient to the signature model.EnvFactory
// expects, translating generic model.Options onto adapter options.
func NewFactoryConstructor() func(opts model.Options) (model.Client, error) {
	return func(opts model.Options) (model.Client, error) {
		return NewClient(func(o *Options) {
			if opts.Model != "" {
				o.Model = opts.Model
			}
			if opts.Temperature > 0 {
				o.Temperature = opts.Temperature
			}
			if opts.MaxTokens > 0 {
				o.MaxCompletionTokens = opts.MaxTokens
			}
		}), nil
	}
}

// Chat implements model.Client with a single blocking completion call.
func (c *Client) Chat(ctx context.Context, messages []core.Message, tools []tool.Schema) (*model.ChatResult, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(messages),
		Model:               c.opts.Model,
		Temperature:         openai.Float(c.opts.Temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxCompletionTokens),
	}
	if len(tools) > 0 {
		params.Tools = buildTools(tools)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai api returned no choices")
	}

	choice := resp.Choices[0]
	result := &model.ChatResult{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Usage: &model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}
	for _, tc := range choice.Message.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, core.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return result, nil
}

// Info implements model.Client.
func (c *Client) Info() model.Info {
	return model.Info{Name: c.opts.Model, Provider: "openai"}
}

// buildMessages converts transcript messages into the SDK union type.
// Tool-role messages become tool messages keyed by their call id.
func buildMessages(messages []core.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case core.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case core.RoleAssistant:
			if len(msg.ToolCalls) == 0 {
				out = append(out, openai.AssistantMessage(msg.Content))
				continue
			}
			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(msg.ToolCalls))
			for i, tc := range msg.ToolCalls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID:   tc.ID,
					Type: "function",
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				}
			}
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &openai.ChatCompletionAssistantMessageParam{
					Role:      "assistant",
					ToolCalls: toolCalls,
				},
			})
		case core.RoleTool:
			out = append(out, openai.ToolMessage(msg.Content, msg.ToolCallID))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

// buildTools converts schemas into SDK tool definitions.
func buildTools(tools []tool.Schema) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		out[i] = openai.ChatCompletionToolParam{
			Type: "function",
			Function: openai.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  t.Parameters,
			},
		}
	}
	return out
}
