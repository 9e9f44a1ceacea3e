package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"

	"github.com/autostream-agent/server/internal/agent/graph/nodes"
	"github.com/autostream-agent/server/internal/agent/graph/sessions"
	"github.com/autostream-agent/server/internal/agent/model"
	"github.com/autostream-agent/server/internal/observability/metrics"
	logx "github.com/autostream-agent/server/pkg/logger"
)

// Config holds everything needed to compose the full turn graph end-to-end.
type Config struct {
	Collaborators nodes.CollaboratorResolver
	Sessions      *sessions.Manager
	Prompt        model.PromptConfig
	Timeout       time.Duration // per-collaborator call deadline
	Metrics       *metrics.TurnMetrics
}

// GraphBuilder handles the construction of the turn graph.
type GraphBuilder struct {
	config *Config
	graph  *compose.Graph[model.TurnInput, *model.TurnResult]
}

// BuildTurnGraph constructs and compiles the turn pipeline:
//
//	START -> InputGate -+-> EditDeflect ----------------------+
//	                    `-> Classifier -+-> KnowledgeResponder +-> Finalize -> END
//	                                    +-> LeadCollector -?-> LeadCapture
//	                                    `-> CasualChat
//
// State lives in model.TurnState, generated per invocation; cross-turn
// state is loaded and saved through the sessions manager.
func BuildTurnGraph(ctx context.Context, config *Config) (compose.Runnable[model.TurnInput, *model.TurnResult], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Collaborators == nil {
		return nil, fmt.Errorf("collaborator resolver is nil")
	}
	if config.Sessions == nil {
		return nil, fmt.Errorf("sessions manager is nil")
	}
	if config.Metrics == nil {
		config.Metrics = metrics.NewTurnMetrics(nil)
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.TurnInput, *model.TurnResult](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	cfg := b.config

	b.graph.AddLambdaNode(nodes.NodeInputGate,
		nodes.NewInputGateNode(cfg.Sessions),
		compose.WithStatePreHandler(nodes.NewInputGatePreHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeEditDeflect,
		nodes.NewEditDeflectNode(cfg.Metrics),
	)

	b.graph.AddLambdaNode(nodes.NodeClassifier,
		nodes.NewClassifierNode(cfg.Collaborators, cfg.Timeout, cfg.Metrics),
	)

	b.graph.AddLambdaNode(nodes.NodeKnowledge,
		nodes.NewKnowledgeNode(cfg.Sessions, cfg.Collaborators, cfg.Timeout, cfg.Metrics),
	)

	b.graph.AddLambdaNode(nodes.NodeLeadCollect,
		nodes.NewLeadCollectNode(),
	)

	b.graph.AddLambdaNode(nodes.NodeCapture,
		nodes.NewCaptureNode(cfg.Collaborators, cfg.Timeout, cfg.Metrics),
	)

	b.graph.AddLambdaNode(nodes.NodeCasualChat,
		nodes.NewCasualChatNode(cfg.Sessions, cfg.Prompt, cfg.Collaborators, cfg.Timeout, cfg.Metrics),
	)

	b.graph.AddLambdaNode(nodes.NodeFinalize,
		nodes.NewFinalizeNode(cfg.Sessions),
	)
}

// addEdges creates the unconditional flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeInputGate},
		{nodes.NodeEditDeflect, nodes.NodeFinalize},
		{nodes.NodeKnowledge, nodes.NodeFinalize},
		{nodes.NodeCasualChat, nodes.NodeFinalize},
		{nodes.NodeCapture, nodes.NodeFinalize},
		{nodes.NodeFinalize, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the conditional routing branches
func (b *GraphBuilder) addBranches() error {
	gateBranch := compose.NewGraphBranch(
		nodes.NewInputGateCondition(),
		map[string]bool{
			nodes.NodeEditDeflect: true,
			nodes.NodeClassifier:  true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeInputGate, gateBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding input gate branch")
		return fmt.Errorf("error adding input gate branch: %w", err)
	}

	intentBranch := compose.NewGraphBranch(
		nodes.NewClassifierCondition(),
		map[string]bool{
			nodes.NodeKnowledge:   true,
			nodes.NodeLeadCollect: true,
			nodes.NodeCasualChat:  true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeClassifier, intentBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding intent branch")
		return fmt.Errorf("error adding intent branch: %w", err)
	}

	captureBranch := compose.NewGraphBranch(
		nodes.NewLeadCollectCondition(),
		map[string]bool{
			nodes.NodeCapture:  true,
			nodes.NodeFinalize: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeLeadCollect, captureBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding capture branch")
		return fmt.Errorf("error adding capture branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.TurnInput, *model.TurnResult], error) {
	// Every turn visits at most five nodes; leave headroom for branches.
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(20))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Turn graph compiled successfully")
	return runnable, nil
}
