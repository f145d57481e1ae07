package mcpserver

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pixel-poker/internal/game"
	"pixel-poker/internal/session"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	return toolErrorWith(code, message, nil)
}

func toolErrorWith(code, message string, extra map[string]any) *mcp.CallToolResult {
	body := map[string]any{
		"code":    code,
		"message": message,
	}
	for k, v := range extra {
		body[k] = v
	}
	result := mcp.NewToolResultStructured(
		map[string]any{"error": body},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

// mapDomainError reports manager failures with the same codes the HTTP API
// uses. Illegal actions carry the violated constraint and the legal set.
func mapDomainError(err error) *mcp.CallToolResult {
	if err == nil {
		return toolError("internal_error", "unknown error")
	}
	_, code := session.MapError(err)
	var ia *game.IllegalActionError
	if errors.As(err, &ia) {
		return toolErrorWith(code, err.Error(), map[string]any{
			"constraint":   ia.Constraint,
			"legalActions": ia.Legal,
		})
	}
	return toolError(code, err.Error())
}
