package model

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestLeadFillNextOrder(t *testing.T) {
	var lead Lead

	assert.Equal(t, "name", lead.FillNext("John Doe"))
	assert.Equal(t, "email", lead.FillNext("john@example.com"))
	assert.Equal(t, "platform", lead.FillNext("YouTube"))
	assert.True(t, lead.Complete())

	// complete records never change
	assert.Equal(t, "", lead.FillNext("Twitch"))
	assert.Equal(t, "YouTube", lead.Platform)
}

func TestLeadFillNextTrimsAndSkipsEmpty(t *testing.T) {
	var lead Lead

	assert.Equal(t, "", lead.FillNext("   "))
	assert.Equal(t, Lead{}, lead)

	assert.Equal(t, "name", lead.FillNext("  Jane  "))
	assert.Equal(t, "Jane", lead.Name)
	assert.False(t, lead.Complete())
}

func TestConversationStateAppend(t *testing.T) {
	state := NewConversationState("s1")
	assert.Equal(t, "s1", state.SessionID)
	assert.Empty(t, state.History)
	assert.Equal(t, IntentUnknown, state.Intent)

	state.Append(schema.UserMessage("hi"), schema.AssistantMessage("hello", nil))
	assert.Len(t, state.History, 2)
	assert.Equal(t, schema.User, state.History[0].Role)
	assert.Equal(t, schema.Assistant, state.History[1].Role)
}
