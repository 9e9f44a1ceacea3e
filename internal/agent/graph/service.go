package graph

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/compose"

	"github.com/autostream-agent/server/internal/agent/graph/observers"
	"github.com/autostream-agent/server/internal/agent/graph/sessions"
	"github.com/autostream-agent/server/internal/agent/model"
	errx "github.com/autostream-agent/server/internal/core/error"
	"github.com/autostream-agent/server/internal/observability/metrics"
	logx "github.com/autostream-agent/server/pkg/logger"
)

// Service is the public surface of the agent: one call per user turn plus
// session reset. Implementations serialize turns per session key.
type Service interface {
	ProcessTurn(ctx context.Context, in model.TurnInput) (*model.TurnResult, error)
	ResetSession(ctx context.Context, sessionID string) error
}

type service struct {
	runnable compose.Runnable[model.TurnInput, *model.TurnResult]
	sessions *sessions.Manager
	metrics  *metrics.TurnMetrics
}

// NewService compiles the turn graph from cfg and returns the ready Service.
func NewService(ctx context.Context, cfg *Config) (Service, error) {
	runnable, err := BuildTurnGraph(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &service{
		runnable: runnable,
		sessions: cfg.Sessions,
		metrics:  cfg.Metrics,
	}, nil
}

// ProcessTurn runs one user message through the turn pipeline. Empty or
// whitespace-only messages are rejected before any state is touched.
// Turns for the same session run strictly in order; concurrent calls for
// one session queue behind each other.
func (s *service) ProcessTurn(ctx context.Context, in model.TurnInput) (*model.TurnResult, error) {
	if strings.TrimSpace(in.SessionID) == "" {
		return nil, errx.InvalidInput("session id must not be empty")
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, errx.InvalidInput("message must not be empty")
	}

	unlock := s.sessions.Lock(in.SessionID)
	defer unlock()

	result, err := s.runnable.Invoke(ctx, in,
		compose.WithCallbacks(observers.NewAllCallbacks()),
	)
	if err != nil {
		logx.Error().Err(err).Str("session_id", in.SessionID).Msg("turn failed")
		return nil, err
	}

	s.metrics.ObserveTurn(string(result.Intent))
	logx.Info().
		Str("session_id", in.SessionID).
		Str("intent", string(result.Intent)).
		Bool("lead_captured", result.LeadCaptured).
		Int("history_length", result.HistoryLength).
		Msg("turn processed")
	return result, nil
}

// ResetSession discards all stored state for the session. Resetting an
// unknown session returns errx.ErrSessionNotFound.
func (s *service) ResetSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errx.InvalidInput("session id must not be empty")
	}

	unlock := s.sessions.Lock(sessionID)
	defer unlock()

	if err := s.sessions.Reset(ctx, sessionID); err != nil {
		return err
	}
	logx.Info().Str("session_id", sessionID).Msg("session reset")
	return nil
}
