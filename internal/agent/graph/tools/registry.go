package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// GetLeadTools returns the tools available to the lead pipeline.
func GetLeadTools() []tool.BaseTool {
	return []tool.BaseTool{
		NewCaptureLeadTool(),
	}
}

// GetToolInfos resolves ToolInfo for each tool, e.g. for model binding.
func GetToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
