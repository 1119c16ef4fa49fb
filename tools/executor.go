package tools

import (
	"context"
	"errors"
	"strings"
)

// NoContentText is returned when a tool succeeds without producing any
// content parts, so the model always receives a non-empty result.
const NoContentText = "Tool executed successfully but returned no content"

// ErrToolNotFound reports a tool name absent from the currently advertised
// set. The message is fed verbatim into the error payload the model sees.
var ErrToolNotFound = errors.New("ToolNotFound")

// Executor adapts the session's call primitive to the single-string results
// the orchestrator feeds back to the model. Failures are returned as values;
// the orchestrator decides how to phrase them for the model.
type Executor struct {
	session Session
}

// NewExecutor creates an Executor on top of an MCP session.
func NewExecutor(session Session) *Executor {
	return &Executor{session: session}
}

// Execute invokes the named tool and reduces its result to one string by
// joining the content parts with newlines. Server-side error payloads
// (IsError results) are passed through as data.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	result, err := e.session.CallTool(ctx, name, args)
	if err != nil {
		return "", err
	}

	if result == nil || len(result.Parts) == 0 {
		return NoContentText, nil
	}

	return strings.Join(result.Parts, "\n"), nil
}
