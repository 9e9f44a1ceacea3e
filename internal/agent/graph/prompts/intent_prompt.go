package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/intent_prompt.txt
var intentPrompt string

// RenderIntentMessages renders the intent classification prompt for a single
// visitor message via the Eino prompt component (enables prompt callbacks).
func RenderIntentMessages(ctx context.Context, message string) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.UserMessage(intentPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"Message": message,
	})
	if err != nil {
		return nil, fmt.Errorf("intent prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("intent prompt render: empty result")
	}
	return msgs, nil
}
