package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// makeRawHandler wraps a no-argument service call that already returns the
// upstream JSON payload.
func makeRawHandler(what string, fetch func(ctx context.Context) (json.RawMessage, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := fetch(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get %s: %v", what, err)), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func toolResultJSON(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}
