package agents

import "strings"

// Conversation roles understood by the model providers.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// FunctionCall represents the model requesting a tool execution.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// FunctionResponse carries a tool's result back to the model, keyed by tool
// name.
type FunctionResponse struct {
	Name     string
	Response map[string]any
}

// Part is one component of a conversation message. Exactly one of the fields
// is set; a part with none set is unrecognized and skipped with a warning by
// the orchestrator.
type Part struct {
	Text             string
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

// Content is a single message in the per-query conversation. It is ephemeral:
// nothing survives beyond the current query.
type Content struct {
	Role  string
	Parts []Part
}

// NewTextContent creates a Content with a single text part.
func NewTextContent(role, text string) *Content {
	return &Content{
		Role:  role,
		Parts: []Part{{Text: text}},
	}
}

// Response is a model reply. A single response may mix text and
// function-call parts; their order is preserved.
type Response struct {
	Parts []Part
}

// Text concatenates the response's text parts, separated by newlines.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}

	var fragments []string
	for _, part := range r.Parts {
		if part.Text != "" {
			fragments = append(fragments, part.Text)
		}
	}

	return strings.Join(fragments, "\n")
}
