package agents

import (
	"context"

	"github.com/kumar-ambuj/mcp-client/tools"
)

// ModelClient is the boundary to a hosted LLM API. Generate is stateless:
// each call carries all needed context explicitly, there is no server-side
// conversation memory.
//
// With a non-empty decls slice the provider attaches the declarations with
// automatic function calling; with an empty slice it issues plain generation
// without any tool configuration.
type ModelClient interface {
	Generate(ctx context.Context, history []*Content, decls []tools.FunctionDeclaration) (*Response, error)
}
