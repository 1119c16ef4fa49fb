package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/kumar-ambuj/mcp-client/log"
	"github.com/kumar-ambuj/mcp-client/tools"
)

// NoResponseText is returned when the model produced no usable content. It is
// a valid outcome, not an error, and gives callers a detectable terminal
// signal instead of an empty string.
const NoResponseText = "No response generated"

// Orchestrator drives one query through the request -> tool execution ->
// follow-up cycle. Its dependencies are injected so tool session and model
// client can both be replaced with test doubles.
type Orchestrator struct {
	session  tools.Session
	model    ModelClient
	executor *tools.Executor
}

// NewOrchestrator creates an Orchestrator over an MCP session and a model
// client.
func NewOrchestrator(session tools.Session, model ModelClient) *Orchestrator {
	return &Orchestrator{
		session:  session,
		model:    model,
		executor: tools.NewExecutor(session),
	}
}

// ProcessQuery answers a single user query, executing any tools the model
// requests along the way. Failures stay local to the query: model API errors
// come back as an "Error: ..." string and tool failures are reported to the
// model as data, so the surrounding loop always survives to take the next
// query.
func (o *Orchestrator) ProcessQuery(ctx context.Context, query string) string {
	// Fresh listing on every query so server-side tool set changes are
	// picked up live.
	descs, err := o.session.ListTools(ctx)
	if err != nil {
		log.Errorf(ctx, "Failed to list tools: %v", err)
		return fmt.Sprintf("Error: %v", err)
	}

	decls := tools.Translate(descs)
	known := make(map[string]bool, len(descs))
	for _, desc := range descs {
		known[desc.Name] = true
	}

	log.Debugf(ctx, "Sending query with %d tools available", len(decls))

	resp, err := o.model.Generate(ctx, []*Content{NewTextContent(RoleUser, query)}, decls)
	if err != nil {
		log.Errorf(ctx, "Model request failed: %v", err)
		return fmt.Sprintf("Error: %v", err)
	}
	if resp == nil || len(resp.Parts) == 0 {
		return NoResponseText
	}

	var answers []string

	for _, part := range resp.Parts {
		switch {
		case part.FunctionCall != nil:
			text, err := o.runFunctionCall(ctx, query, part.FunctionCall, known)
			if err != nil {
				log.Errorf(ctx, "Follow-up model request failed: %v", err)
				return fmt.Sprintf("Error: %v", err)
			}
			if text != "" {
				answers = append(answers, text)
			}

		case part.Text != "":
			answers = append(answers, part.Text)

		default:
			log.Warnf(ctx, "Skipping response part with neither text nor function call")
		}
	}

	if len(answers) == 0 {
		return NoResponseText
	}

	return strings.Join(answers, "\n")
}

// runFunctionCall executes one tool call and round-trips its result through
// a fresh follow-up request: the original query, the model's own call echoed
// back, and the tool result as a function response. Each call gets its own
// follow-up; results are never batched.
func (o *Orchestrator) runFunctionCall(ctx context.Context, query string, call *FunctionCall, known map[string]bool) (string, error) {
	args := call.Args
	if args == nil {
		args = map[string]any{}
	}

	log.Infof(ctx, "Executing tool: %s with arguments: %v", call.Name, args)

	var payload string
	if !known[call.Name] {
		log.Warnf(ctx, "Model requested unknown tool %q", call.Name)
		payload = fmt.Sprintf("Error executing tool %s: %v", call.Name, tools.ErrToolNotFound)
	} else if output, err := o.executor.Execute(ctx, call.Name, args); err != nil {
		log.Errorf(ctx, "Tool %s failed: %v", call.Name, err)
		payload = fmt.Sprintf("Error executing tool %s: %v", call.Name, err)
	} else {
		payload = output
	}

	followUp := []*Content{
		NewTextContent(RoleUser, query),
		{Role: RoleModel, Parts: []Part{{FunctionCall: call}}},
		{Role: RoleUser, Parts: []Part{{FunctionResponse: &FunctionResponse{
			Name:     call.Name,
			Response: map[string]any{"result": payload},
		}}}},
	}

	final, err := o.model.Generate(ctx, followUp, nil)
	if err != nil {
		return "", err
	}

	return final.Text(), nil
}
