// Package mcpclient implements the tool session boundary using the official
// MCP Go SDK, speaking stdio to a spawned server process.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kumar-ambuj/mcp-client/log"
	"github.com/kumar-ambuj/mcp-client/tools"
)

// Session wraps a connected MCP client session. The underlying transport is
// owned by the session and released by Close.
type Session struct {
	session *mcp.ClientSession
}

// Ensure Session satisfies tools.Session
var _ tools.Session = (*Session)(nil)

// Connect spawns the MCP server script, performs the protocol handshake and
// logs the advertised tools. Python scripts run under python, JavaScript
// under node; anything else is rejected.
func Connect(ctx context.Context, serverScript string) (*Session, error) {
	interpreter, err := interpreterFor(serverScript)
	if err != nil {
		return nil, err
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "mcp-client", Version: "1.0.0"}, nil)
	transport := &mcp.CommandTransport{Command: exec.Command(interpreter, serverScript)}

	clientSession, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MCP server: %w", err)
	}

	session := &Session{session: clientSession}

	descs, err := session.ListTools(ctx)
	if err != nil {
		clientSession.Close()
		return nil, err
	}

	names := make([]string, 0, len(descs))
	for _, desc := range descs {
		names = append(names, desc.Name)
	}
	log.Infof(ctx, "Connected to server with tools: %v", names)

	return session, nil
}

func interpreterFor(path string) (string, error) {
	switch filepath.Ext(path) {
	case ".py":
		return "python", nil
	case ".js":
		return "node", nil
	}
	return "", fmt.Errorf("server script must be a .py or .js file")
}

// ListTools fetches the currently advertised tool set.
func (s *Session) ListTools(ctx context.Context) ([]tools.ToolDescriptor, error) {
	result, err := s.session.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	descs := make([]tools.ToolDescriptor, 0, len(result.Tools))
	for _, t := range result.Tools {
		descs = append(descs, tools.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: fromJSONSchema(t.InputSchema),
		})
	}

	return descs, nil
}

// CallTool invokes the named tool. Server-reported errors come back in the
// result's IsError flag with their payload intact.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (*tools.ToolResult, error) {
	result, err := s.session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, err
	}

	out := &tools.ToolResult{IsError: result.IsError}
	for _, content := range result.Content {
		out.Parts = append(out.Parts, contentText(content))
	}

	return out, nil
}

// Close shuts down the session and the spawned server process.
func (s *Session) Close() error {
	return s.session.Close()
}

// fromJSONSchema maps the SDK's schema onto the internal node, recursively
// for properties. Enum values are stringified the way the model providers
// expect them.
func fromJSONSchema(schema *jsonschema.Schema) *tools.SchemaNode {
	if schema == nil {
		return nil
	}

	node := &tools.SchemaNode{
		Type:        schema.Type,
		Description: schema.Description,
		Title:       schema.Title,
		Format:      schema.Format,
		Required:    append([]string(nil), schema.Required...),
	}

	for _, value := range schema.Enum {
		node.Enum = append(node.Enum, enumString(value))
	}

	if len(schema.Properties) > 0 {
		node.Properties = make(map[string]*tools.SchemaNode, len(schema.Properties))
		for name, prop := range schema.Properties {
			node.Properties[name] = fromJSONSchema(prop)
		}
	}

	return node
}

func enumString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// contentText reduces one content item to text. Non-text content is
// JSON-stringified so binary and resource payloads still reach the model in
// some readable form.
func contentText(content mcp.Content) string {
	switch c := content.(type) {
	case *mcp.TextContent:
		return c.Text
	default:
		b, err := json.Marshal(content)
		if err != nil {
			return fmt.Sprintf("%v", content)
		}
		return string(b)
	}
}
