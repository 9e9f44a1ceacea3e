package kb

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/autostream-agent/server/internal/agent/graph/prompts"
	"github.com/autostream-agent/server/internal/agent/model"
	logx "github.com/autostream-agent/server/pkg/logger"
)

// NotFoundReply is the fixed sentinel surfaced verbatim when nothing in the
// knowledge base matches the question.
const NotFoundReply = "I don't have that information in my knowledge base."

// Responder answers a product question grounded on the knowledge base,
// given the bounded recent-history window as context.
type Responder interface {
	Answer(ctx context.Context, question, conversationContext string) (string, error)
}

// GeminiResponder retrieves the best-matching passage and has a chat model
// phrase the answer, constrained to that grounding.
type GeminiResponder struct {
	cm     einomodel.BaseChatModel
	store  *Store
	prompt model.PromptConfig
}

func NewGeminiResponder(cm einomodel.BaseChatModel, store *Store, prompt model.PromptConfig) *GeminiResponder {
	return &GeminiResponder{cm: cm, store: store, prompt: prompt}
}

func (r *GeminiResponder) Answer(ctx context.Context, question, conversationContext string) (string, error) {
	passage, ok := r.store.Search(question)
	if !ok {
		logx.Debug().Str("question", question).Msg("no knowledge base match")
		return NotFoundReply, nil
	}

	msgs, err := prompts.RenderKnowledgeMessages(ctx, r.prompt, question, passage.Content, conversationContext, NotFoundReply)
	if err != nil {
		return "", err
	}

	out, err := r.cm.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("knowledge model: %w", err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", fmt.Errorf("knowledge model: empty response")
	}

	logx.Debug().Str("section", passage.Name).Msg("answered from knowledge base")
	return out.Content, nil
}

var _ Responder = (*GeminiResponder)(nil)
