package nodes

import (
	"context"
	"strings"
	"time"
)

const DefaultCollaboratorTimeout = 15 * time.Second

// editKeywords signal a correction request against already-submitted details.
var editKeywords = []string{
	"edit", "update", "change", "modify", "fix", "wrong", "correct", "mistake",
}

// containsEditKeyword reports whether the message contains any edit keyword,
// case-insensitively.
func containsEditKeyword(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range editKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// collaboratorContext derives the per-call deadline for classifier,
// responder, and capture calls. A collaborator may hang; the turn must not.
func collaboratorContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultCollaboratorTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
