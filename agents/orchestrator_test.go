package agents_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kumar-ambuj/mcp-client/agents"
	"github.com/kumar-ambuj/mcp-client/tools"
)

// fakeSession is a scripted tool session double.
type fakeSession struct {
	descs   []tools.ToolDescriptor
	listErr error
	results map[string]*tools.ToolResult
	callErr error

	calls  []string
	args   []map[string]any
	events *[]string
}

func (f *fakeSession) ListTools(ctx context.Context) ([]tools.ToolDescriptor, error) {
	return f.descs, f.listErr
}

func (f *fakeSession) CallTool(ctx context.Context, name string, args map[string]any) (*tools.ToolResult, error) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	if f.events != nil {
		*f.events = append(*f.events, "tool:"+name)
	}
	if f.callErr != nil {
		return nil, f.callErr
	}
	if result, ok := f.results[name]; ok {
		return result, nil
	}
	return &tools.ToolResult{Parts: []string{"ok"}}, nil
}

// fakeModel replays scripted responses in call order.
type fakeModel struct {
	responses []*agents.Response
	errs      []error

	histories [][]*agents.Content
	decls     [][]tools.FunctionDeclaration
	events    *[]string
}

func (f *fakeModel) Generate(ctx context.Context, history []*agents.Content, decls []tools.FunctionDeclaration) (*agents.Response, error) {
	f.histories = append(f.histories, history)
	f.decls = append(f.decls, decls)
	if f.events != nil {
		*f.events = append(*f.events, "generate")
	}

	i := len(f.histories) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return &agents.Response{}, nil
}

func textResponse(text string) *agents.Response {
	return &agents.Response{Parts: []agents.Part{{Text: text}}}
}

func callResponse(name string, args map[string]any) *agents.Response {
	return &agents.Response{Parts: []agents.Part{{FunctionCall: &agents.FunctionCall{Name: name, Args: args}}}}
}

func addTool() tools.ToolDescriptor {
	return tools.ToolDescriptor{
		Name: "add",
		InputSchema: &tools.SchemaNode{
			Properties: map[string]*tools.SchemaNode{
				"a": {Type: "integer"},
				"b": {Type: "integer"},
			},
			Required: []string{"a", "b"},
		},
	}
}

func TestProcessQuery_PlainText(t *testing.T) {
	session := &fakeSession{}
	model := &fakeModel{responses: []*agents.Response{textResponse("hi there")}}
	orchestrator := agents.NewOrchestrator(session, model)

	answer := orchestrator.ProcessQuery(context.Background(), "hello")

	assert.Equal(t, "hi there", answer)
	assert.Len(t, model.histories, 1)
	// Empty tool set means no tool configuration at all.
	assert.Empty(t, model.decls[0])
	assert.Empty(t, session.calls)
}

func TestProcessQuery_SingleToolCall(t *testing.T) {
	session := &fakeSession{
		descs:   []tools.ToolDescriptor{addTool()},
		results: map[string]*tools.ToolResult{"add": {Parts: []string{"5"}}},
	}
	model := &fakeModel{responses: []*agents.Response{
		callResponse("add", map[string]any{"a": float64(2), "b": float64(3)}),
		textResponse("The sum is 5"),
	}}
	orchestrator := agents.NewOrchestrator(session, model)

	answer := orchestrator.ProcessQuery(context.Background(), "add 2 and 3")

	assert.Equal(t, "The sum is 5", answer)
	assert.Equal(t, []string{"add"}, session.calls)
	assert.Equal(t, map[string]any{"a": float64(2), "b": float64(3)}, session.args[0])
	assert.Len(t, model.histories, 2)

	// Declarations are attached on the first request only.
	assert.Len(t, model.decls[0], 1)
	assert.Equal(t, "add", model.decls[0][0].Name)
	assert.Empty(t, model.decls[1])

	// Follow-up carries query, echoed call and the tool result.
	followUp := model.histories[1]
	assert.Len(t, followUp, 3)
	assert.Equal(t, agents.RoleUser, followUp[0].Role)
	assert.Equal(t, "add 2 and 3", followUp[0].Parts[0].Text)
	assert.Equal(t, agents.RoleModel, followUp[1].Role)
	assert.Equal(t, "add", followUp[1].Parts[0].FunctionCall.Name)
	assert.Equal(t, agents.RoleUser, followUp[2].Role)
	response := followUp[2].Parts[0].FunctionResponse
	assert.Equal(t, "add", response.Name)
	assert.Equal(t, "5", response.Response["result"])
}

func TestProcessQuery_UnknownToolBecomesErrorPayload(t *testing.T) {
	session := &fakeSession{descs: []tools.ToolDescriptor{addTool()}}
	model := &fakeModel{responses: []*agents.Response{
		callResponse("multiply", map[string]any{"a": float64(2)}),
		textResponse("I could not multiply those."),
	}}
	orchestrator := agents.NewOrchestrator(session, model)

	answer := orchestrator.ProcessQuery(context.Background(), "multiply 2 by 3")

	assert.Equal(t, "I could not multiply those.", answer)
	// The session is never asked to run a tool it did not advertise.
	assert.Empty(t, session.calls)

	response := model.histories[1][2].Parts[0].FunctionResponse
	assert.Equal(t, "multiply", response.Name)
	assert.Equal(t, "Error executing tool multiply: ToolNotFound", response.Response["result"])
}

func TestProcessQuery_UnknownToolWithEmptyToolSet(t *testing.T) {
	session := &fakeSession{}
	model := &fakeModel{responses: []*agents.Response{
		callResponse("anything", nil),
		textResponse("sorry"),
	}}
	orchestrator := agents.NewOrchestrator(session, model)

	answer := orchestrator.ProcessQuery(context.Background(), "do something")

	assert.Equal(t, "sorry", answer)
	assert.Empty(t, session.calls)
	response := model.histories[1][2].Parts[0].FunctionResponse
	assert.Equal(t, "Error executing tool anything: ToolNotFound", response.Response["result"])
}

func TestProcessQuery_EmptyResponse(t *testing.T) {
	orchestrator := agents.NewOrchestrator(&fakeSession{}, &fakeModel{
		responses: []*agents.Response{{}},
	})

	answer := orchestrator.ProcessQuery(context.Background(), "hello")
	assert.Equal(t, agents.NoResponseText, answer)
}

func TestProcessQuery_SequentialToolCalls(t *testing.T) {
	var events []string
	session := &fakeSession{
		descs: []tools.ToolDescriptor{{Name: "first"}, {Name: "second"}},
		results: map[string]*tools.ToolResult{
			"first":  {Parts: []string{"1"}},
			"second": {Parts: []string{"2"}},
		},
		events: &events,
	}
	model := &fakeModel{
		responses: []*agents.Response{
			{Parts: []agents.Part{
				{FunctionCall: &agents.FunctionCall{Name: "first"}},
				{FunctionCall: &agents.FunctionCall{Name: "second"}},
			}},
			textResponse("first done"),
			textResponse("second done"),
		},
		events: &events,
	}
	orchestrator := agents.NewOrchestrator(session, model)

	answer := orchestrator.ProcessQuery(context.Background(), "run both")

	assert.Equal(t, "first done\nsecond done", answer)
	// Tool A's follow-up completes before tool B starts.
	assert.Equal(t, []string{"generate", "tool:first", "generate", "tool:second", "generate"}, events)
}

func TestProcessQuery_MixedTextAndCallParts(t *testing.T) {
	session := &fakeSession{
		descs:   []tools.ToolDescriptor{addTool()},
		results: map[string]*tools.ToolResult{"add": {Parts: []string{"5"}}},
	}
	model := &fakeModel{responses: []*agents.Response{
		{Parts: []agents.Part{
			{Text: "Let me add those."},
			{FunctionCall: &agents.FunctionCall{Name: "add", Args: map[string]any{"a": float64(2), "b": float64(3)}}},
		}},
		textResponse("The sum is 5"),
	}}
	orchestrator := agents.NewOrchestrator(session, model)

	answer := orchestrator.ProcessQuery(context.Background(), "add 2 and 3")
	assert.Equal(t, "Let me add those.\nThe sum is 5", answer)
}

func TestProcessQuery_NilArgsBecomeEmptyMap(t *testing.T) {
	session := &fakeSession{descs: []tools.ToolDescriptor{{Name: "ping"}}}
	model := &fakeModel{responses: []*agents.Response{
		callResponse("ping", nil),
		textResponse("pong"),
	}}
	orchestrator := agents.NewOrchestrator(session, model)

	orchestrator.ProcessQuery(context.Background(), "ping it")

	assert.Len(t, session.args, 1)
	assert.NotNil(t, session.args[0])
	assert.Empty(t, session.args[0])
}

func TestProcessQuery_ToolFailureFedBackAsData(t *testing.T) {
	session := &fakeSession{
		descs:   []tools.ToolDescriptor{addTool()},
		callErr: errors.New("deadline exceeded"),
	}
	model := &fakeModel{responses: []*agents.Response{
		callResponse("add", map[string]any{"a": float64(1), "b": float64(2)}),
		textResponse("Sorry, the tool failed."),
	}}
	orchestrator := agents.NewOrchestrator(session, model)

	answer := orchestrator.ProcessQuery(context.Background(), "add 1 and 2")

	assert.Equal(t, "Sorry, the tool failed.", answer)
	response := model.histories[1][2].Parts[0].FunctionResponse
	assert.Equal(t, "Error executing tool add: deadline exceeded", response.Response["result"])
}

func TestProcessQuery_ModelError(t *testing.T) {
	orchestrator := agents.NewOrchestrator(&fakeSession{}, &fakeModel{
		errs: []error{errors.New("quota exceeded")},
	})

	answer := orchestrator.ProcessQuery(context.Background(), "hello")
	assert.Equal(t, "Error: quota exceeded", answer)
}

func TestProcessQuery_FollowUpModelError(t *testing.T) {
	session := &fakeSession{descs: []tools.ToolDescriptor{addTool()}}
	model := &fakeModel{
		responses: []*agents.Response{callResponse("add", nil)},
		errs:      []error{nil, errors.New("connection reset")},
	}
	orchestrator := agents.NewOrchestrator(session, model)

	answer := orchestrator.ProcessQuery(context.Background(), "add")
	assert.Equal(t, "Error: connection reset", answer)
}

func TestProcessQuery_ListToolsError(t *testing.T) {
	session := &fakeSession{listErr: errors.New("session closed")}
	orchestrator := agents.NewOrchestrator(session, &fakeModel{})

	answer := orchestrator.ProcessQuery(context.Background(), "hello")
	assert.Equal(t, "Error: session closed", answer)
}

func TestProcessQuery_NoTextAnywhere(t *testing.T) {
	// A tool call whose follow-up yields no text falls back to the sentinel.
	session := &fakeSession{descs: []tools.ToolDescriptor{addTool()}}
	model := &fakeModel{responses: []*agents.Response{
		callResponse("add", nil),
		{},
	}}
	orchestrator := agents.NewOrchestrator(session, model)

	answer := orchestrator.ProcessQuery(context.Background(), "add")
	assert.Equal(t, agents.NoResponseText, answer)
}

func TestProcessQuery_FreshToolListingPerQuery(t *testing.T) {
	session := &fakeSession{descs: []tools.ToolDescriptor{addTool()}}
	model := &fakeModel{responses: []*agents.Response{
		textResponse("one"),
		textResponse("two"),
	}}
	orchestrator := agents.NewOrchestrator(session, model)

	orchestrator.ProcessQuery(context.Background(), "first")

	// Tool set changes server-side between queries are picked up.
	session.descs = nil
	orchestrator.ProcessQuery(context.Background(), "second")

	assert.Len(t, model.decls[0], 1)
	assert.Empty(t, model.decls[1])
}
