// Package openai implements the model boundary on top of the OpenAI chat
// completions API, as the alternative to the default Gemini provider.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/kumar-ambuj/mcp-client/agents"
	"github.com/kumar-ambuj/mcp-client/log"
	"github.com/kumar-ambuj/mcp-client/tools"
)

// Client handles OpenAI chat completion requests.
type Client struct {
	client openai.Client
	model  string
}

// Ensure Client satisfies agents.ModelClient
var _ agents.ModelClient = (*Client)(nil)

// NewClient creates a new OpenAI client for the given model.
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Generate issues a single stateless chat completion request.
func (c *Client) Generate(ctx context.Context, history []*agents.Content, decls []tools.FunctionDeclaration) (*agents.Response, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: toMessages(history),
	}
	if len(decls) > 0 {
		params.Tools = toToolParams(decls)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return &agents.Response{}, nil
	}

	return fromMessage(ctx, resp.Choices[0].Message), nil
}

// Close implements io.Closer; the underlying HTTP client holds no resources
// that need explicit release.
func (c *Client) Close() error {
	return nil
}

// toMessages maps the neutral conversation onto chat completion messages.
// Function calls become assistant tool calls and function responses become
// tool messages; call IDs are synthesized deterministically from the tool
// name since one follow-up carries exactly one call.
func toMessages(history []*agents.Content) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	for _, content := range history {
		for _, part := range content.Parts {
			switch {
			case part.FunctionCall != nil:
				args, err := json.Marshal(part.FunctionCall.Args)
				if err != nil {
					args = []byte("{}")
				}
				messages = append(messages, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						ToolCalls: []openai.ChatCompletionMessageToolCallParam{{
							ID: callID(part.FunctionCall.Name),
							Function: openai.ChatCompletionMessageToolCallFunctionParam{
								Name:      part.FunctionCall.Name,
								Arguments: string(args),
							},
						}},
					},
				})

			case part.FunctionResponse != nil:
				payload, err := json.Marshal(part.FunctionResponse.Response)
				if err != nil {
					payload = []byte("{}")
				}
				messages = append(messages, openai.ToolMessage(string(payload), callID(part.FunctionResponse.Name)))

			case content.Role == agents.RoleModel:
				messages = append(messages, openai.AssistantMessage(part.Text))

			default:
				messages = append(messages, openai.UserMessage(part.Text))
			}
		}
	}

	return messages
}

func callID(name string) string {
	return "call_" + name
}

func toToolParams(decls []tools.FunctionDeclaration) []openai.ChatCompletionToolParam {
	params := make([]openai.ChatCompletionToolParam, 0, len(decls))

	for _, decl := range decls {
		params = append(params, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        decl.Name,
				Description: openai.String(decl.Description),
				Parameters:  toFunctionParameters(decl.Parameters),
			},
		})
	}

	return params
}

func toFunctionParameters(params tools.Parameters) shared.FunctionParameters {
	properties := make(map[string]any, len(params.Properties))
	for name, prop := range params.Properties {
		property := map[string]any{}
		if prop.Type != "" {
			property["type"] = prop.Type
		}
		if prop.Description != "" {
			property["description"] = prop.Description
		}
		if len(prop.Enum) > 0 {
			property["enum"] = prop.Enum
		}
		properties[name] = property
	}

	return shared.FunctionParameters{
		"type":       "object",
		"properties": properties,
		"required":   params.Required,
	}
}

// fromMessage maps a chat completion message onto the neutral part union.
// Text content comes first, then tool calls, preserving the API's ordering.
func fromMessage(ctx context.Context, msg openai.ChatCompletionMessage) *agents.Response {
	out := &agents.Response{}

	if msg.Content != "" {
		out.Parts = append(out.Parts, agents.Part{Text: msg.Content})
	}

	for _, call := range msg.ToolCalls {
		out.Parts = append(out.Parts, agents.Part{FunctionCall: &agents.FunctionCall{
			Name: call.Function.Name,
			Args: parseArguments(ctx, call.Function.Arguments),
		}})
	}

	return out
}

func parseArguments(ctx context.Context, raw string) map[string]any {
	args := map[string]any{}
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		log.Warnf(ctx, "Failed to parse tool call arguments: %v", err)
	}
	return args
}
