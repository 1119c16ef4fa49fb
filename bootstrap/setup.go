// Package bootstrap wires the MCP session, the model provider and the
// orchestrator into a running application.
package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/kumar-ambuj/mcp-client/agents"
	"github.com/kumar-ambuj/mcp-client/config"
	"github.com/kumar-ambuj/mcp-client/log"
	"github.com/kumar-ambuj/mcp-client/providers/gemini"
	"github.com/kumar-ambuj/mcp-client/providers/mcpclient"
	"github.com/kumar-ambuj/mcp-client/providers/openai"
)

// App holds the initialized components of the application
type App struct {
	Orchestrator *agents.Orchestrator
	Session      *mcpclient.Session
	Model        agents.ModelClient
}

// Setup initializes the application components based on the configuration.
// Failures here are fatal: no query is accepted before both the MCP session
// and the model client are up.
func Setup(ctx context.Context, cfg *config.Config, serverScript string) (*App, error) {
	session, err := mcpclient.Connect(ctx, serverScript)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	var model agents.ModelClient

	switch cfg.AI.Plugin {
	case "openai":
		log.Infof(ctx, "Using OpenAI plugin (model: %s)...", cfg.AI.OpenAI.Model)
		model, err = openai.NewClient(cfg.AI.OpenAI.APIKey, cfg.AI.OpenAI.Model)
		if err != nil {
			session.Close()
			return nil, fmt.Errorf("OPENAI_API_KEY must be set when AI_PLUGIN=openai: %w", err)
		}

	default:
		log.Infof(ctx, "Using Gemini plugin (model: %s)...", cfg.AI.Gemini.Model)
		model, err = gemini.NewClient(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model)
		if err != nil {
			session.Close()
			return nil, fmt.Errorf("GEMINI_API_KEY must be set (or set AI_PLUGIN=openai): %w", err)
		}
	}

	return &App{
		Orchestrator: agents.NewOrchestrator(session, model),
		Session:      session,
		Model:        model,
	}, nil
}

// Close releases the MCP session and the model client. Safe to call exactly
// once on shutdown regardless of how the interactive loop exited.
func (a *App) Close() {
	if err := a.Session.Close(); err != nil {
		log.Errorf(context.Background(), "Failed to close MCP session: %v", err)
	}
	if closer, ok := a.Model.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Errorf(context.Background(), "Failed to close model client: %v", err)
		}
	}
}
