package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/autostream-agent/server/internal/agent/model"
)

//go:embed template/knowledge_prompt.txt
var knowledgePrompt string

// RenderKnowledgeMessages renders the grounded-answer prompt: a system
// message carrying the retrieved passage plus the bounded conversation
// window, followed by the visitor's question.
func RenderKnowledgeMessages(
	ctx context.Context,
	config model.PromptConfig,
	question string,
	passage string,
	conversationContext string,
	notFoundReply string,
) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(knowledgePrompt),
		schema.UserMessage("{{.Question}}"),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"ProductName":         config.ProductName,
		"Passage":             passage,
		"ConversationContext": conversationContext,
		"Question":            question,
		"NotFoundReply":       notFoundReply,
	})
	if err != nil {
		return nil, fmt.Errorf("knowledge prompt render: %w", err)
	}
	if len(msgs) < 2 {
		return nil, fmt.Errorf("knowledge prompt render: empty result")
	}
	return msgs, nil
}
