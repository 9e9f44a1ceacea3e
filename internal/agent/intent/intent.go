package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/autostream-agent/server/internal/agent/model"
)

// Classifier maps one visitor message to an intent label. Implementations
// must resolve ambiguity themselves (typically by answering casual) and
// never return IntentUnknown on success.
type Classifier interface {
	Classify(ctx context.Context, message string) (model.Intent, error)
}

// aliases maps label spellings the model is known to emit onto the
// canonical intent set.
var aliases = map[string]model.Intent{
	"casual":                   model.IntentCasual,
	"casual_greeting":          model.IntentCasual,
	"greeting":                 model.IntentCasual,
	"product_inquiry":          model.IntentProductInquiry,
	"product_or_pricing_query": model.IntentProductInquiry,
	"high_intent":              model.IntentHighIntent,
	"high_intent_lead":         model.IntentHighIntent,
}

// ParseLabel normalises raw model output into a canonical intent.
// Model output is untrusted: it may carry quotes, punctuation, casing, or
// trailing prose, so parsing strips those before matching.
func ParseLabel(raw string) (model.Intent, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.IntentUnknown, fmt.Errorf("empty intent label")
	}
	// keep only the first line, then the first whitespace-separated token
	if idx := strings.IndexAny(s, "\r\n"); idx >= 0 {
		s = s[:idx]
	}
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	s = strings.ToLower(strings.Trim(s, "'\"`.,:;!"))

	if it, ok := aliases[s]; ok {
		return it, nil
	}
	return model.IntentUnknown, fmt.Errorf("unknown intent label %q", raw)
}
