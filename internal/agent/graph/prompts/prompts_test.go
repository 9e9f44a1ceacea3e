package prompts

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autostream-agent/server/internal/agent/model"
)

func TestRenderIntentMessages(t *testing.T) {
	msgs, err := RenderIntentMessages(context.Background(), "I want to try Pro")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, schema.User, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "I want to try Pro")
	assert.NotContains(t, msgs[0].Content, "{{.Message}}")
}

func TestRenderPersonaSystem(t *testing.T) {
	cfg := model.PromptConfig{
		ProductName: "AutoStream",
		ProductLine: "automated video editing tools",
	}
	out, err := RenderPersonaSystem(context.Background(), cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "AutoStream")
	assert.Contains(t, out, "automated video editing tools")
	assert.NotContains(t, out, "{{.ProductName}}")
}

func TestRenderKnowledgeMessages(t *testing.T) {
	cfg := model.PromptConfig{ProductName: "AutoStream"}
	msgs, err := RenderKnowledgeMessages(
		context.Background(),
		cfg,
		"how much is Pro?",
		"Pro costs $79/month.",
		"user: hi\nassistant: hello",
		"I don't have that information in my knowledge base.",
	)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Pro costs $79/month.")
	assert.Contains(t, msgs[0].Content, "user: hi")
	assert.Contains(t, msgs[0].Content, "I don't have that information")

	assert.Equal(t, schema.User, msgs[1].Role)
	assert.Equal(t, "how much is Pro?", msgs[1].Content)
}
