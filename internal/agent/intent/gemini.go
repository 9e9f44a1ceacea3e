package intent

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/autostream-agent/server/internal/agent/graph/prompts"
	"github.com/autostream-agent/server/internal/agent/model"
	logx "github.com/autostream-agent/server/pkg/logger"
)

// GeminiClassifier classifies a message with a low-temperature chat model.
type GeminiClassifier struct {
	cm einomodel.BaseChatModel
}

func NewGeminiClassifier(cm einomodel.BaseChatModel) *GeminiClassifier {
	return &GeminiClassifier{cm: cm}
}

func (c *GeminiClassifier) Classify(ctx context.Context, message string) (model.Intent, error) {
	msgs, err := prompts.RenderIntentMessages(ctx, message)
	if err != nil {
		return model.IntentUnknown, err
	}

	out, err := c.cm.Generate(ctx, msgs)
	if err != nil {
		return model.IntentUnknown, fmt.Errorf("intent model: %w", err)
	}
	if out == nil {
		return model.IntentUnknown, fmt.Errorf("intent model: nil response")
	}

	label, err := ParseLabel(out.Content)
	if err != nil {
		logx.Warn().Str("raw_label", out.Content).Msg("unparseable intent label, defaulting to casual")
		return model.IntentCasual, nil
	}
	return label, nil
}

var _ Classifier = (*GeminiClassifier)(nil)
