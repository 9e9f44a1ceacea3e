package model

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Intent is the classified disposition of a visitor message.
// It is sticky: the stored value persists between turns until a later
// classification overwrites it.
type Intent string

const (
	IntentUnknown        Intent = ""
	IntentCasual         Intent = "casual"
	IntentProductInquiry Intent = "product_inquiry"
	IntentHighIntent     Intent = "high_intent"
)

// Lead is the progressively collected contact record. Fields fill in
// strict order (name, then email, then platform) and are never revisited.
type Lead struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// Complete reports whether every field has been collected.
func (l Lead) Complete() bool {
	return l.Name != "" && l.Email != "" && l.Platform != ""
}

// FillNext assigns the trimmed value to the first empty field and returns
// the field name that was filled, or "" when the record is already complete.
func (l *Lead) FillNext(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	switch {
	case l.Name == "":
		l.Name = value
		return "name"
	case l.Email == "":
		l.Email = value
		return "email"
	case l.Platform == "":
		l.Platform = value
		return "platform"
	}
	return ""
}

// ConversationState is the unit of persistence for one session.
// The session repository exclusively owns instances; the turn pipeline
// holds one for the duration of a single turn and writes it back.
type ConversationState struct {
	SessionID    string            `json:"session_id"`
	History      []*schema.Message `json:"history"`
	Intent       Intent            `json:"intent"`
	Lead         Lead              `json:"lead"`
	LeadCaptured bool              `json:"lead_captured"`
}

// NewConversationState returns the empty state for a fresh session key.
func NewConversationState(sessionID string) *ConversationState {
	return &ConversationState{
		SessionID: sessionID,
		History:   []*schema.Message{},
	}
}

// Append adds entries to the conversation history. History is append-only;
// existing entries are never mutated.
func (s *ConversationState) Append(msgs ...*schema.Message) {
	s.History = append(s.History, msgs...)
}
