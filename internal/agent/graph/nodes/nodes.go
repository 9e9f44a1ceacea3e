package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/autostream-agent/server/internal/agent/graph/prompts"
	"github.com/autostream-agent/server/internal/agent/graph/sessions"
	"github.com/autostream-agent/server/internal/agent/graph/tools"
	"github.com/autostream-agent/server/internal/agent/model"
	"github.com/autostream-agent/server/internal/observability/metrics"
	logx "github.com/autostream-agent/server/pkg/logger"
)

// Node keys for the turn graph.
const (
	NodeInputGate   = "InputGate"
	NodeEditDeflect = "EditDeflect"
	NodeClassifier  = "Classifier"
	NodeKnowledge   = "KnowledgeResponder"
	NodeLeadCollect = "LeadCollector"
	NodeCapture     = "LeadCapture"
	NodeCasualChat  = "CasualChat"
	NodeFinalize    = "Finalize"
)

// NewInputGatePreHandler stores the turn input and resets per-turn state.
func NewInputGatePreHandler() func(context.Context, model.TurnInput, *model.TurnState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.TurnState) (model.TurnInput, error) {
		s.Input = in
		s.Deflected = false
		s.CaptureReady = false
		s.CaptureToken = ""
		s.CaptureRecord = ""
		s.Trace = nil
		return in, nil
	}
}

// NewInputGateNode loads the session state and applies the two pre-steps
// that precede classification: post-capture edit interception, then
// incremental field fill driven by the previous turn's sticky intent.
// Interception takes priority over everything else this turn.
func NewInputGateNode(mgr *sessions.Manager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) (string, error) {
		state, err := mgr.LoadState(ctx, in.SessionID)
		if err != nil {
			return "", fmt.Errorf("load session state: %w", err)
		}

		perr := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.Conversation = state
			s.PrevIntent = state.Intent

			if state.LeadCaptured && containsEditKeyword(in.Message) {
				s.Deflected = true
				s.AddTrace("edit request after capture, deflecting to human channel")
				return nil
			}

			// Fill before reclassification so a one-word answer like
			// "YouTube" lands as data instead of being reclassified.
			if s.PrevIntent == model.IntentHighIntent && !state.Lead.Complete() {
				if field := state.Lead.FillNext(in.Message); field != "" {
					s.AddTrace("collected lead " + field)
					logx.Debug().
						Str("session_id", in.SessionID).
						Str("field", field).
						Msg("lead field collected")
				}
			}
			return nil
		})
		if perr != nil {
			return "", fmt.Errorf("failed to access state: %w", perr)
		}

		return in.Message, nil
	})
}

// NewInputGateCondition routes intercepted edit requests straight to the
// deflection node, skipping classification entirely.
func NewInputGateCondition() func(context.Context, string) (string, error) {
	return func(ctx context.Context, _ string) (string, error) {
		deflected := false
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			deflected = s.Deflected
			return nil
		}); err != nil {
			return "", err
		}
		if deflected {
			return NodeEditDeflect, nil
		}
		return NodeClassifier, nil
	}
}

// NewEditDeflectNode answers a post-capture correction request with the
// fixed deflection text. Intent and Lead Record stay untouched.
func NewEditDeflectNode(m *metrics.TurnMetrics) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ string) (string, error) {
		m.ObserveDeflection()
		return DeflectionReply, nil
	})
}

// NewClassifierNode invokes the intent classifier under a deadline. On
// failure the turn is routed to the casual branch and the stored intent is
// left at its previous value; classification failures never fail a turn.
func NewClassifierNode(resolve CollaboratorResolver, timeout time.Duration, m *metrics.TurnMetrics) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, message string) (model.Intent, error) {
		var in model.TurnInput
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			in = s.Input
			return nil
		}); err != nil {
			return model.IntentUnknown, err
		}

		label, cerr := classify(ctx, resolve, timeout, in.Credential, message)

		perr := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			if cerr != nil {
				// recover locally: casual branch, sticky intent unchanged
				s.RouteIntent = model.IntentCasual
				s.AddTrace("classification failed, defaulting to casual branch")
				logx.Warn().
					Err(cerr).
					Str("session_id", in.SessionID).
					Msg("intent classification failed")
				m.ObserveCollaboratorFailure("classifier")
				return nil
			}
			s.Conversation.Intent = label
			s.RouteIntent = label
			s.AddTrace("intent: " + string(label))
			logx.Debug().
				Str("session_id", in.SessionID).
				Str("intent", string(label)).
				Msg("intent classified")
			return nil
		})
		if perr != nil {
			return model.IntentUnknown, perr
		}

		if cerr != nil {
			return model.IntentCasual, nil
		}
		return label, nil
	})
}

func classify(ctx context.Context, resolve CollaboratorResolver, timeout time.Duration, credential, message string) (model.Intent, error) {
	collab, err := resolve(ctx, credential)
	if err != nil {
		return model.IntentUnknown, err
	}
	cctx, cancel := collaboratorContext(ctx, timeout)
	defer cancel()
	return collab.Classifier.Classify(cctx, message)
}

// NewClassifierCondition is the dispatch table: exactly one response branch
// per routed intent.
func NewClassifierCondition() func(context.Context, model.Intent) (string, error) {
	return func(ctx context.Context, routed model.Intent) (string, error) {
		switch routed {
		case model.IntentProductInquiry:
			return NodeKnowledge, nil
		case model.IntentHighIntent:
			return NodeLeadCollect, nil
		default:
			return NodeCasualChat, nil
		}
	}
}

// NewKnowledgeNode answers a product question from the knowledge base over
// the bounded recent-history window. This branch never reads or writes the
// Lead Record.
func NewKnowledgeNode(mgr *sessions.Manager, resolve CollaboratorResolver, timeout time.Duration, m *metrics.TurnMetrics) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Intent) (string, error) {
		var in model.TurnInput
		var window string
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			in = s.Input
			window = mgr.KnowledgeContext(s.Conversation, in.Message)
			return nil
		}); err != nil {
			return "", err
		}

		collab, err := resolve(ctx, in.Credential)
		if err == nil {
			cctx, cancel := collaboratorContext(ctx, timeout)
			defer cancel()
			var answer string
			answer, err = collab.Knowledge.Answer(cctx, in.Message, window)
			if err == nil {
				return answer, nil
			}
		}

		logx.Error().Err(err).Str("session_id", in.SessionID).Msg("knowledge responder failed")
		m.ObserveCollaboratorFailure("knowledge")
		if perr := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.AddTrace("knowledge responder failed")
			return nil
		}); perr != nil {
			return "", perr
		}
		return ResponderFailureReply, nil
	})
}

// NewLeadCollectNode handles high-intent turns: acknowledge after capture,
// trigger capture when the record is complete, otherwise prompt for the
// missing fields.
func NewLeadCollectNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Intent) (string, error) {
		reply := ""
		err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			conv := s.Conversation
			switch {
			case conv.LeadCaptured:
				reply = AlreadyCapturedReply
			case conv.Lead.Complete():
				s.CaptureReady = true
				s.AddTrace("lead record complete, capture pending")
				reply = CaptureAckReply
			default:
				s.AddTrace("awaiting next lead field")
				reply = FieldPromptReply
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		return reply, nil
	})
}

// NewLeadCollectCondition routes to capture only when this turn completed
// the record and the lead has not been captured before.
func NewLeadCollectCondition() func(context.Context, string) (string, error) {
	return func(ctx context.Context, _ string) (string, error) {
		ready := false
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			ready = s.CaptureReady
			return nil
		}); err != nil {
			return "", err
		}
		if ready {
			return NodeCapture, nil
		}
		return NodeFinalize, nil
	}
}

// NewCaptureNode invokes the capture action. Success flips LeadCaptured and
// records the confirmation for the tool audit entry; failure leaves the
// flag false so the next qualifying turn retries, and replaces the reply
// with the fixed failure text.
func NewCaptureNode(resolve CollaboratorResolver, timeout time.Duration, m *metrics.TurnMetrics) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, reply string) (string, error) {
		var in model.TurnInput
		var lead model.Lead
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			in = s.Input
			lead = s.Conversation.Lead
			return nil
		}); err != nil {
			return "", err
		}

		record, token, cerr := capture(ctx, resolve, timeout, in.Credential, lead)

		perr := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			if cerr != nil {
				s.AddTrace("lead capture failed")
				logx.Error().Err(cerr).Str("session_id", in.SessionID).Msg("lead capture failed")
				m.ObserveCapture(false)
				return nil
			}
			s.Conversation.LeadCaptured = true
			s.CaptureToken = token
			s.CaptureRecord = record
			s.AddTrace("lead captured: " + token)
			logx.Info().
				Str("session_id", in.SessionID).
				Str("confirmation", token).
				Msg("lead capture confirmed")
			m.ObserveCapture(true)
			return nil
		})
		if perr != nil {
			return "", perr
		}

		if cerr != nil {
			return CaptureFailureReply, nil
		}
		return reply, nil
	})
}

func capture(ctx context.Context, resolve CollaboratorResolver, timeout time.Duration, credential string, lead model.Lead) (record, token string, err error) {
	collab, err := resolve(ctx, credential)
	if err != nil {
		return "", "", err
	}

	args, err := json.Marshal(tools.CaptureLeadInput{
		Name:     lead.Name,
		Email:    lead.Email,
		Platform: lead.Platform,
	})
	if err != nil {
		return "", "", fmt.Errorf("marshal capture arguments: %w", err)
	}

	cctx, cancel := collaboratorContext(ctx, timeout)
	defer cancel()
	out, err := collab.Capture.InvokableRun(cctx, string(args))
	if err != nil {
		return "", "", err
	}

	var result tools.CaptureLeadOutput
	if err := json.Unmarshal([]byte(out), &result); err != nil || result.Confirmation == "" {
		return "", "", fmt.Errorf("capture action returned malformed confirmation: %q", out)
	}
	return out, result.Confirmation, nil
}

// NewCasualChatNode generates the free-form reply from the persona
// directive plus the bounded conversation window. The only branch allowed
// to produce open-ended text.
func NewCasualChatNode(mgr *sessions.Manager, promptCfg model.PromptConfig, resolve CollaboratorResolver, timeout time.Duration, m *metrics.TurnMetrics) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ model.Intent) (string, error) {
		system, err := prompts.RenderPersonaSystem(ctx, promptCfg)
		if err != nil {
			return "", err
		}

		var in model.TurnInput
		var window []*schema.Message
		if err := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			in = s.Input
			window = mgr.ChatWindow(s.Conversation, system, in.Message)
			return nil
		}); err != nil {
			return "", err
		}

		collab, err := resolve(ctx, in.Credential)
		if err == nil {
			cctx, cancel := collaboratorContext(ctx, timeout)
			defer cancel()
			var reply string
			reply, err = collab.Chat.Reply(cctx, window)
			if err == nil {
				return reply, nil
			}
		}

		logx.Error().Err(err).Str("session_id", in.SessionID).Msg("chat responder failed")
		m.ObserveCollaboratorFailure("chat")
		if perr := compose.ProcessState(ctx, func(_ context.Context, s *model.TurnState) error {
			s.AddTrace("chat responder failed")
			return nil
		}); perr != nil {
			return "", perr
		}
		return ResponderFailureReply, nil
	})
}

// NewFinalizeNode appends this turn's entries to history, persists the
// state, and builds the turn result. The capture flag and its tool audit
// entry become durable in the same save.
func NewFinalizeNode(mgr *sessions.Manager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, reply string) (*model.TurnResult, error) {
		var result *model.TurnResult
		err := compose.ProcessState(ctx, func(pctx context.Context, s *model.TurnState) error {
			conv := s.Conversation
			conv.Append(schema.UserMessage(s.Input.Message))
			conv.Append(schema.AssistantMessage(reply, nil))
			if s.CaptureRecord != "" {
				conv.Append(&schema.Message{
					Role:       schema.Tool,
					Content:    s.CaptureRecord,
					ToolCallID: uuid.NewString(),
				})
			}

			if err := mgr.SaveState(pctx, conv); err != nil {
				return fmt.Errorf("save session state: %w", err)
			}

			result = &model.TurnResult{
				Reply:         reply,
				Intent:        conv.Intent,
				Lead:          conv.Lead,
				LeadCaptured:  conv.LeadCaptured,
				HistoryLength: len(conv.History),
				Trace:         s.Trace,
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}
