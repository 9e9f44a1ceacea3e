package repo

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/autostream-agent/server/internal/agent/model"
	errx "github.com/autostream-agent/server/internal/core/error"
)

// MemorySessionRepository keeps session state in process memory for the
// process lifetime. Sessions exist from first save until explicit reset.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*model.ConversationState
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]*model.ConversationState)}
}

func (r *MemorySessionRepository) Load(ctx context.Context, sessionID string) (*model.ConversationState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return cloneState(state), nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, state *model.ConversationState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[state.SessionID] = cloneState(state)
	return nil
}

func (r *MemorySessionRepository) Reset(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return errx.SessionNotFound(sessionID)
	}
	delete(r.sessions, sessionID)
	return nil
}

// cloneState copies the state so the store never shares a mutable instance
// with a caller. History entries are append-only and safe to share.
func cloneState(s *model.ConversationState) *model.ConversationState {
	out := *s
	out.History = make([]*schema.Message, len(s.History))
	copy(out.History, s.History)
	return &out
}

var _ model.SessionRepository = (*MemorySessionRepository)(nil)
