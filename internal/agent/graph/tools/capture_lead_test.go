package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureLeadTool(t *testing.T) {
	ctx := context.Background()
	ct := NewCaptureLeadTool()

	args, err := json.Marshal(CaptureLeadInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Platform: "YouTube",
	})
	require.NoError(t, err)

	raw, err := ct.InvokableRun(ctx, string(args))
	require.NoError(t, err)

	var out CaptureLeadOutput
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	assert.True(t, strings.HasPrefix(out.Confirmation, "LEAD-"))
	assert.Equal(t, "John Doe", out.Name)
	assert.Equal(t, "john@example.com", out.Email)
	assert.Equal(t, "YouTube", out.Platform)
}

func TestCaptureLeadToolConfirmationsAreUnique(t *testing.T) {
	ctx := context.Background()
	ct := NewCaptureLeadTool()
	args := `{"name":"A","email":"a@b.c","platform":"Twitch"}`

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		raw, err := ct.InvokableRun(ctx, args)
		require.NoError(t, err)
		var out CaptureLeadOutput
		require.NoError(t, json.Unmarshal([]byte(raw), &out))
		assert.False(t, seen[out.Confirmation])
		seen[out.Confirmation] = true
	}
}

func TestCaptureLeadToolRejectsIncompleteRecord(t *testing.T) {
	ctx := context.Background()
	ct := NewCaptureLeadTool()

	for _, args := range []string{
		`{}`,
		`{"name":"John"}`,
		`{"name":"John","email":"john@example.com"}`,
	} {
		_, err := ct.InvokableRun(ctx, args)
		assert.Error(t, err, "args=%s", args)
	}
}

func TestRegistryExposesCaptureTool(t *testing.T) {
	ts := GetLeadTools()
	require.Len(t, ts, 1)

	infos, err := GetToolInfos(context.Background(), ts)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, ToolCaptureLead, infos[0].Name)

	_, ok := ts[0].(tool.InvokableTool)
	assert.True(t, ok)
}
