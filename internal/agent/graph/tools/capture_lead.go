package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	logx "github.com/autostream-agent/server/pkg/logger"
)

const ToolCaptureLead = "capture_lead"

type CaptureLeadInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Platform string `json:"platform"`
}

type CaptureLeadOutput struct {
	Confirmation string `json:"confirmation"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Platform     string `json:"platform"`
}

// NewCaptureLeadTool returns the lead capture action. This is a stand-in
// for a CRM integration: it accepts a complete lead record and returns an
// opaque confirmation token. The turn pipeline, not the tool, guards the
// exactly-once invariant.
func NewCaptureLeadTool() tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCaptureLead,
			Desc: "Register a qualified lead. Call only when name, email, and creator platform are all collected.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type:     "string",
					Desc:     "The visitor's full name.",
					Required: true,
				},
				"email": {
					Type:     "string",
					Desc:     "The visitor's email address.",
					Required: true,
				},
				"platform": {
					Type:     "string",
					Desc:     "The creator platform, e.g. YouTube, Instagram, TikTok.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CaptureLeadInput) (*CaptureLeadOutput, error) {
			if in.Name == "" || in.Email == "" || in.Platform == "" {
				return nil, fmt.Errorf("incomplete lead record")
			}

			confirmation := "LEAD-" + uuid.NewString()
			logx.Info().
				Str("name", in.Name).
				Str("email", in.Email).
				Str("platform", in.Platform).
				Str("confirmation", confirmation).
				Msg("Lead captured")

			return &CaptureLeadOutput{
				Confirmation: confirmation,
				Name:         in.Name,
				Email:        in.Email,
				Platform:     in.Platform,
			}, nil
		},
	)
}
