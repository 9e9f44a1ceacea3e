package model

import "context"

// SessionRepository persists one ConversationState per session key.
type SessionRepository interface {
	// Load retrieves the state for a session, or (nil, nil) when the key
	// has never been seen.
	Load(ctx context.Context, sessionID string) (*ConversationState, error)

	// Save writes the full state back under its session key.
	Save(ctx context.Context, state *ConversationState) error

	// Reset removes all stored state for a session. Resetting an unknown
	// key returns a session-not-found error.
	Reset(ctx context.Context, sessionID string) error
}
