// Package chat holds the free-form responder used by the casual branch,
// the only branch allowed to produce open-ended text.
package chat

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Responder generates a reply from a persona system message plus the
// bounded conversation window.
type Responder interface {
	Reply(ctx context.Context, messages []*schema.Message) (string, error)
}

type GeminiResponder struct {
	cm einomodel.BaseChatModel
}

func NewGeminiResponder(cm einomodel.BaseChatModel) *GeminiResponder {
	return &GeminiResponder{cm: cm}
}

func (r *GeminiResponder) Reply(ctx context.Context, messages []*schema.Message) (string, error) {
	out, err := r.cm.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("chat model: %w", err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", fmt.Errorf("chat model: empty response")
	}
	return out.Content, nil
}

var _ Responder = (*GeminiResponder)(nil)
