package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/autostream-agent/server/pkg/logger"
)

// newToolHandler builds a typed ToolCallbackHandler that logs tool
// invocations. Capture arguments carry contact details, so only sizes are
// logged, never payloads.
func newToolHandler() *callbackHelper.ToolCallbackHandler {
	return &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			ev := logx.Debug().
				Str("component", info.Type).
				Str("tool", info.Name)
			if input != nil {
				ev = ev.Int("arguments_bytes", len(input.ArgumentsInJSON))
			}
			ev.Msg("tool call start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			ev := logx.Debug().
				Str("component", info.Type).
				Str("tool", info.Name)
			if output != nil {
				ev = ev.Int("response_bytes", len(output.Response))
			}
			ev.Msg("tool call end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().
				Err(err).
				Str("component", info.Type).
				Str("tool", info.Name).
				Msg("tool call failed")
			return ctx
		},
	}
}
