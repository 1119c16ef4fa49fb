// Package tools defines the tool-side domain model: descriptors advertised
// by an MCP server, the lossy projection into the function-declaration shape
// model providers accept, and the execution adapter that turns tool calls
// into plain string payloads.
package tools

import "context"

// ToolDescriptor is a tool as advertised by the MCP session. It is immutable
// for the lifetime of a query.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema *SchemaNode
}

// SchemaNode is a JSON-Schema subset describing a tool's input. Fields like
// Title and Format are carried so the session adapter can map them, but
// translation discards everything except type, description and enum.
type SchemaNode struct {
	Type        string
	Description string
	Title       string
	Format      string
	Enum        []string
	Properties  map[string]*SchemaNode
	Required    []string
}

// FunctionDeclaration is the provider-neutral function-calling shape a
// descriptor translates into.
type FunctionDeclaration struct {
	Name        string
	Description string
	Parameters  Parameters
}

// Parameters is always an object schema with cleaned properties.
type Parameters struct {
	Type       string
	Properties map[string]Property
	Required   []string
}

// Property keeps only the three schema keys the function-calling interface
// supports.
type Property struct {
	Type        string
	Description string
	Enum        []string
}

// ToolResult is the outcome of a tool invocation. Error payloads reported by
// the server via IsError flow through as data, they are never converted into
// Go errors.
type ToolResult struct {
	Parts   []string
	IsError bool
}

// Session is the boundary to a long-lived, already-initialized MCP session.
// Handshake and version negotiation happen before a Session is handed out.
type Session interface {
	ListTools(ctx context.Context) ([]ToolDescriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error)
}
