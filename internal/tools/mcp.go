package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/RETR0-OS/Doc2Mcp/internal/common"
)

// BuildMCPTool converts a descriptor into an mcp.Tool. The full wire schema
// is advertised raw so nested objects, enums, and bounds survive intact.
func BuildMCPTool(d *Descriptor) mcp.Tool {
	raw, err := json.Marshal(d.InputSchema)
	if err != nil {
		raw = []byte(`{"type":"object","properties":{}}`)
	}
	return mcp.NewToolWithRawSchema(d.Name, d.Description, json.RawMessage(raw))
}

// MCPHandler adapts a descriptor's handler to the protocol server. Failures
// are converted into a structured {error, tool} payload rather than being
// thrown across the protocol boundary, so one failing call never disturbs
// the registry or other in-flight calls.
func MCPHandler(d *Descriptor, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := r.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		result, err := d.Handler(ctx, args)
		if err != nil {
			logger.Warn().Str("tool", d.Name).Str("error", err.Error()).Msg("tool call failed")
			return errorResult(d.Name, err), nil
		}

		encoded, err := json.Marshal(result)
		if err != nil {
			return errorResult(d.Name, err), nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(encoded))}}, nil
	}
}

// errorResult builds the structured error payload returned to the caller.
func errorResult(tool string, err error) *mcp.CallToolResult {
	payload, _ := json.Marshal(map[string]string{
		"error": err.Error(),
		"tool":  tool,
	})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(payload))},
		IsError: true,
	}
}
