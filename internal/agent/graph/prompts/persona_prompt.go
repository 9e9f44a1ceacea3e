package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/autostream-agent/server/internal/agent/model"
)

//go:embed template/persona_prompt.txt
var personaPrompt string

// RenderPersonaSystem renders the free-form chat persona directive used by
// the casual branch. The rendered text becomes the system message ahead of
// the bounded conversation window.
func RenderPersonaSystem(ctx context.Context, config model.PromptConfig) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(personaPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"ProductName": config.ProductName,
		"ProductLine": config.ProductLine,
	})
	if err != nil {
		return "", fmt.Errorf("persona prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("persona prompt render: empty result")
	}
	return msgs[0].Content, nil
}
