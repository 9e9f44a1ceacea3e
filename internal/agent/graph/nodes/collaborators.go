package nodes

import (
	"context"

	"github.com/cloudwego/eino/components/tool"

	"github.com/autostream-agent/server/internal/agent/chat"
	"github.com/autostream-agent/server/internal/agent/intent"
	"github.com/autostream-agent/server/internal/agent/kb"
)

// Collaborators bundles the external capabilities one turn depends on.
type Collaborators struct {
	Classifier intent.Classifier
	Knowledge  kb.Responder
	Chat       chat.Responder
	Capture    tool.InvokableTool
}

// CollaboratorResolver yields the collaborator set for a turn. With an
// empty credential it returns the process-default set; with a credential it
// builds handles scoped to that credential, so nothing credentialed is ever
// shared between sessions.
type CollaboratorResolver func(ctx context.Context, credential string) (*Collaborators, error)

// StaticResolver always returns the given set, ignoring credentials.
// Used when the process runs with a single configured credential.
func StaticResolver(c *Collaborators) CollaboratorResolver {
	return func(ctx context.Context, credential string) (*Collaborators, error) {
		return c, nil
	}
}
