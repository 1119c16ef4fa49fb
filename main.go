package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kumar-ambuj/mcp-client/agents"
	"github.com/kumar-ambuj/mcp-client/bootstrap"
	"github.com/kumar-ambuj/mcp-client/config"
	reqcontext "github.com/kumar-ambuj/mcp-client/context"
	"github.com/kumar-ambuj/mcp-client/log"
)

func main() {
	// Load .env if present
	_ = godotenv.Load()

	log.Init()

	if len(os.Args) < 2 {
		fmt.Println("Usage: mcp-client <path_to_server_script>")
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info(context.Background(), "\nProgram terminated externally. Exiting...")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(ctx, "Failed to load config: %v", err)
	}

	app, err := bootstrap.Setup(ctx, cfg, os.Args[1])
	if err != nil {
		log.Fatalf(ctx, "Setup failed: %v", err)
	}
	defer app.Close()

	chatLoop(ctx, app.Orchestrator)
}

// chatLoop reads one query per line until EOF, a quit command or context
// cancellation. One query is processed start-to-finish before the next is
// read; responses are printed as-is.
func chatLoop(ctx context.Context, orchestrator *agents.Orchestrator) {
	fmt.Println("\nMCP Client Started!")
	fmt.Println("Type your queries or 'quit' to exit.")

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nQuery: ")
		if !scanner.Scan() {
			return
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if strings.EqualFold(query, "quit") {
			return
		}

		queryCtx := reqcontext.WithRequestID(ctx, reqcontext.NewRequestID())
		response := orchestrator.ProcessQuery(queryCtx, query)
		fmt.Printf("\nResponse: %s\n", response)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
