// Package gemini implements the model boundary on top of the official
// Gemini SDK.
package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/kumar-ambuj/mcp-client/agents"
	"github.com/kumar-ambuj/mcp-client/log"
	"github.com/kumar-ambuj/mcp-client/tools"
)

// Client handles Gemini API requests using the official SDK.
type Client struct {
	APIKey string
	model  string
	client *genai.Client
}

// Ensure Client satisfies agents.ModelClient
var _ agents.ModelClient = (*Client)(nil)

// NewClient creates a new Gemini API client for the given model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		APIKey: apiKey,
		model:  model,
		client: client,
	}, nil
}

// Generate issues a single stateless generation request. The last history
// entry is sent as the message, anything before it rides along as chat
// history on a fresh session; nothing is reused between calls.
func (c *Client) Generate(ctx context.Context, history []*agents.Content, decls []tools.FunctionDeclaration) (*agents.Response, error) {
	if c.client == nil {
		return nil, fmt.Errorf("client not initialized")
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	model := c.client.GenerativeModel(c.model)
	if len(decls) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: toGenaiDeclarations(decls)}}
		model.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingAuto},
		}
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, content := range history {
		contents = append(contents, toGenaiContent(content))
	}

	chat := model.StartChat()
	chat.History = contents[:len(contents)-1]

	resp, err := chat.SendMessage(ctx, contents[len(contents)-1].Parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return fromGenaiResponse(ctx, resp), nil
}

// Close closes the Gemini client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func toGenaiDeclarations(decls []tools.FunctionDeclaration) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(decls))

	for _, decl := range decls {
		properties := make(map[string]*genai.Schema, len(decl.Parameters.Properties))
		for name, prop := range decl.Parameters.Properties {
			properties[name] = &genai.Schema{
				Type:        toGenaiType(prop.Type),
				Description: prop.Description,
				Enum:        prop.Enum,
			}
		}

		out = append(out, &genai.FunctionDeclaration{
			Name:        decl.Name,
			Description: decl.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: properties,
				Required:   decl.Parameters.Required,
			},
		})
	}

	return out
}

func toGenaiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	}
	return genai.TypeUnspecified
}

func toGenaiContent(content *agents.Content) *genai.Content {
	parts := make([]genai.Part, 0, len(content.Parts))

	for _, part := range content.Parts {
		switch {
		case part.FunctionCall != nil:
			parts = append(parts, genai.FunctionCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		case part.FunctionResponse != nil:
			parts = append(parts, genai.FunctionResponse{
				Name:     part.FunctionResponse.Name,
				Response: part.FunctionResponse.Response,
			})
		default:
			parts = append(parts, genai.Text(part.Text))
		}
	}

	return &genai.Content{Role: content.Role, Parts: parts}
}

// fromGenaiResponse maps the first candidate's parts onto the neutral part
// union, preserving their order.
func fromGenaiResponse(ctx context.Context, resp *genai.GenerateContentResponse) *agents.Response {
	out := &agents.Response{}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return out
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			out.Parts = append(out.Parts, agents.Part{Text: string(p)})
		case genai.FunctionCall:
			out.Parts = append(out.Parts, agents.Part{FunctionCall: &agents.FunctionCall{
				Name: p.Name,
				Args: p.Args,
			}})
		default:
			log.Warnf(ctx, "Ignoring unsupported response part of type %T", part)
		}
	}

	return out
}
