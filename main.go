package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/autostream-agent/server/internal/agent/graph"
	"github.com/autostream-agent/server/internal/agent/graph/nodes"
	"github.com/autostream-agent/server/internal/agent/graph/sessions"
	"github.com/autostream-agent/server/internal/agent/graph/tools"
	"github.com/autostream-agent/server/internal/agent/kb"
	"github.com/autostream-agent/server/internal/agent/llm"
	"github.com/autostream-agent/server/internal/agent/model"
	"github.com/autostream-agent/server/internal/agent/repo"
	httpserver "github.com/autostream-agent/server/internal/http"
	"github.com/autostream-agent/server/internal/observability/metrics"
	logx "github.com/autostream-agent/server/pkg/logger"
	pkgredis "github.com/autostream-agent/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the agent, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config
	Addr  string `envconfig:"SERVER_ADDR" default:":8080"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Session      model.SessionConfig
	Classifier   model.ClassifierModelConfig
	Responder    model.ResponderModelConfig
	Prompt       model.PromptConfig
	Collaborator model.CollaboratorConfig
}

// demoFlow walks one lead from pricing question to captured record.
var demoFlow = []string{
	"Hi, tell me about your pricing.",
	"That sounds good, I want to try the Pro plan for my YouTube channel.",
	"John Doe",
	"john@example.com",
	"YouTube",
}

func main() {
	serve := flag.Bool("serve", false, "run the HTTP server instead of the terminal chat")
	demo := flag.Bool("demo", false, "run the scripted demo flow and exit")
	flag.Parse()

	logx.Init()
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		logx.Debug().Err(err).Msg("no .env file loaded")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}

	registry := prometheus.NewRegistry()
	svc, err := buildService(ctx, &cfg, registry)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build agent service")
	}

	switch {
	case *serve:
		runServer(ctx, cfg.Addr, svc, registry)
	case *demo:
		runDemo(ctx, svc)
	default:
		runInteractive(ctx, svc)
	}
}

// buildService wires the repositories, collaborators, and turn graph.
func buildService(ctx context.Context, cfg *AppConfig, registry *prometheus.Registry) (graph.Service, error) {
	ttl, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL %q: %w", cfg.Session.TTL, err)
	}
	timeout, err := time.ParseDuration(cfg.Collaborator.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid COLLABORATOR_TIMEOUT %q: %w", cfg.Collaborator.Timeout, err)
	}

	var sessionRepo model.SessionRepository
	switch cfg.Session.Store {
	case "redis":
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise redis client: %w", err)
		}
		sessionRepo = repo.NewRedisSessionRepository(rdb, ttl)
		logx.Info().Msg("using redis session store")
	case "memory":
		sessionRepo = repo.NewMemorySessionRepository()
		logx.Info().Msg("using in-memory session store")
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.Session.Store)
	}

	store, err := kb.NewStore()
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	logx.Info().Int("sections", store.Len()).Msg("knowledge base loaded")

	factory := &llm.Factory{
		BaseURL:    cfg.BaseURL,
		Classifier: cfg.Classifier,
		Responder:  cfg.Responder,
		Prompt:     cfg.Prompt,
		Store:      store,
	}

	defaultSet, err := factory.Build(ctx, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build default collaborators: %w", err)
	}
	captureTool := tools.NewCaptureLeadTool()

	defaults := &nodes.Collaborators{
		Classifier: defaultSet.Classifier,
		Knowledge:  defaultSet.Knowledge,
		Chat:       defaultSet.Chat,
		Capture:    captureTool,
	}

	// Per-turn credentials get their own model handles; the default set is
	// never mutated.
	resolver := func(rctx context.Context, credential string) (*nodes.Collaborators, error) {
		if credential == "" {
			return defaults, nil
		}
		set, err := factory.Build(rctx, credential)
		if err != nil {
			return nil, err
		}
		return &nodes.Collaborators{
			Classifier: set.Classifier,
			Knowledge:  set.Knowledge,
			Chat:       set.Chat,
			Capture:    captureTool,
		}, nil
	}

	return graph.NewService(ctx, &graph.Config{
		Collaborators: resolver,
		Sessions:      sessions.NewManager(sessionRepo, cfg.Session),
		Prompt:        cfg.Prompt,
		Timeout:       timeout,
		Metrics:       metrics.NewTurnMetrics(registry),
	})
}

func runServer(ctx context.Context, addr string, svc graph.Service, registry *prometheus.Registry) {
	srv := httpserver.NewServer(addr, svc, registry)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			logx.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.Error().Err(err).Msg("server forced to shut down")
		return
	}
	logx.Info().Msg("server stopped")
}

// runDemo drives the scripted lead journey end to end on one session.
func runDemo(ctx context.Context, svc graph.Service) {
	sessionID := "demo"
	fmt.Println("Running AutoStream agent demo...")

	for i, message := range demoFlow {
		fmt.Printf("\n--- Turn %d ---\n", i+1)
		fmt.Printf("User: %s\n", message)

		result, err := svc.ProcessTurn(ctx, model.TurnInput{SessionID: sessionID, Message: message})
		if err != nil {
			logx.Fatal().Err(err).Int("turn", i+1).Msg("demo turn failed")
		}

		fmt.Printf("Agent: %s\n", result.Reply)
		fmt.Printf("State: intent=%s, name=%s, lead_captured=%v\n",
			result.Intent, result.Lead.Name, result.LeadCaptured)
	}

	fmt.Println("\nDemo complete: knowledge answer, intent routing, and lead capture exercised.")
}

// runInteractive is the manual terminal chat.
func runInteractive(ctx context.Context, svc graph.Service) {
	sessionID := "interactive"
	fmt.Println("AutoStream Agent (type 'demo' for auto-run, 'reset' to start over, 'exit' to quit)")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nUser: ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "":
			continue
		case "exit":
			return
		case "demo":
			runDemo(ctx, svc)
			continue
		case "reset":
			if err := svc.ResetSession(ctx, sessionID); err != nil {
				fmt.Printf("Reset failed: %v\n", err)
			} else {
				fmt.Println("Session cleared.")
			}
			continue
		}

		result, err := svc.ProcessTurn(ctx, model.TurnInput{SessionID: sessionID, Message: input})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Printf("Agent: %s\n", result.Reply)
	}
}
