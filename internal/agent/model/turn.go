package model

// TurnInput is the public input for processing one user message.
type TurnInput struct {
	SessionID  string `json:"session_id"`
	Message    string `json:"message"`
	Credential string `json:"credential,omitempty"`
}

// TurnResult is what a processed turn reports back to the caller:
// the agent reply plus a snapshot of the session state after the turn.
type TurnResult struct {
	Reply         string   `json:"reply"`
	Intent        Intent   `json:"intent"`
	Lead          Lead     `json:"lead"`
	LeadCaptured  bool     `json:"lead_captured"`
	HistoryLength int      `json:"history_length"`
	Trace         []string `json:"trace,omitempty"`
}

// TurnState stores per-invocation state for the turn graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers
//     (WithStatePreHandler, WithStatePostHandler, compose.ProcessState),
//     which Eino serializes, so no extra mutex is needed.
//   - Cross-turn ordering for a session is the sessions manager's per-key
//     lock, not this struct.
type TurnState struct {
	Input         TurnInput
	Conversation  *ConversationState
	PrevIntent    Intent // intent stored before this turn; drives field fill
	RouteIntent   Intent // branch taken this turn (may differ on classifier failure)
	Deflected     bool   // post-capture edit request intercepted
	CaptureReady  bool   // all fields present, capture pending
	CaptureToken  string // confirmation token from a successful capture
	CaptureRecord string // raw capture action output, appended as the tool audit entry
	Trace         []string
}

// AddTrace appends a trace note for the current turn.
func (s *TurnState) AddTrace(note string) {
	s.Trace = append(s.Trace, note)
}
