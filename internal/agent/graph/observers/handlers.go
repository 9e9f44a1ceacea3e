package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates all observer handlers (model, tool) into one
// callbacks.Handler attached per graph invocation.
func NewAllCallbacks() einocb.Handler {
	toolHandler := newToolHandler()
	modelHandler := newModelHandler()

	return callbackHelper.NewHandlerHelper().
		Tool(toolHandler).
		ChatModel(modelHandler).
		Handler()
}
