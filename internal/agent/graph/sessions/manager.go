package sessions

import (
	"context"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/autostream-agent/server/internal/agent/model"
)

// Manager mediates all session-state access for the turn graph: loading and
// saving through the repository, building bounded context windows, and
// serializing turns per session key.
type Manager struct {
	repo           model.SessionRepository
	knowledgeTurns int
	chatTurns      int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewManager(repo model.SessionRepository, config model.SessionConfig) *Manager {
	return &Manager{
		repo:           repo,
		knowledgeTurns: config.Context.KnowledgeTurns,
		chatTurns:      config.Context.ChatTurns,
		locks:          map[string]*sync.Mutex{},
	}
}

// Lock acquires the per-session mutex and returns its release func.
// Turns for one session run strictly sequentially; other sessions are
// unaffected. Lock entries live for the process lifetime, like sessions.
func (m *Manager) Lock(sessionID string) func() {
	m.mu.Lock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sessionID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// LoadState returns the stored state for a session, or a fresh empty state
// when the key has never been seen.
func (m *Manager) LoadState(ctx context.Context, sessionID string) (*model.ConversationState, error) {
	state, err := m.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = model.NewConversationState(sessionID)
	}
	return state, nil
}

func (m *Manager) SaveState(ctx context.Context, state *model.ConversationState) error {
	return m.repo.Save(ctx, state)
}

func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	return m.repo.Reset(ctx, sessionID)
}

// KnowledgeContext formats the bounded window handed to the knowledge
// responder: the last knowledgeTurns entries, current message included.
func (m *Manager) KnowledgeContext(state *model.ConversationState, current string) string {
	window := trimTail(withCurrent(state.History, current), m.knowledgeTurns)

	var b strings.Builder
	for _, msg := range window {
		if msg == nil || msg.Content == "" {
			continue
		}
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ChatWindow builds the messages for the free-form branch: the persona
// directive followed by the last chatTurns entries, current message included.
func (m *Manager) ChatWindow(state *model.ConversationState, systemPrompt, current string) []*schema.Message {
	window := trimTail(withCurrent(state.History, current), m.chatTurns)

	messages := make([]*schema.Message, 0, len(window)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	messages = append(messages, window...)
	return messages
}

func withCurrent(history []*schema.Message, current string) []*schema.Message {
	out := make([]*schema.Message, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, schema.UserMessage(current))
	return out
}

func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		return messages
	}
	return messages[len(messages)-maxTurns:]
}
