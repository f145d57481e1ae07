package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pixel-poker/internal/game"
	"pixel-poker/internal/session"
)

func (s *Server) registerTableTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"submit_action",
			mcp.WithDescription("Act for the human seat. The bot answers before the call returns."),
			mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
			mcp.WithString("action_type", mcp.Required(), mcp.Description("fold|check|call|bet|raise|all_in")),
			mcp.WithNumber("amount", mcp.Description("Additional chips for bet/raise")),
		),
		s.handleSubmitAction,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"next_hand",
			mcp.WithDescription("Deal the next hand once the current one is complete."),
			mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		),
		s.handleNextHand,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"rebuy",
			mcp.WithDescription("Reset both stacks after a bust and deal a new hand."),
			mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		),
		s.handleRebuy,
	)
}

func (s *Server) handleSubmitAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	actionType, err := request.RequireString("action_type")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	at := game.ActionType(strings.ToLower(strings.TrimSpace(actionType)))
	if !at.Valid() {
		return toolError("invalid_request", "unknown action_type "+actionType), nil
	}
	var amount *int64
	if request.GetArguments()["amount"] != nil {
		v, convErr := request.RequireFloat("amount")
		if convErr != nil {
			return toolError("invalid_request", convErr.Error()), nil
		}
		iv := int64(v)
		amount = &iv
	}
	res, err := s.sessions.SubmitHumanAction(ctx, id, session.ActionRequest{ActionType: at, Amount: amount})
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(res), nil
}

func (s *Server) handleNextHand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	st, err := s.sessions.NextHand(ctx, id)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(st), nil
}

func (s *Server) handleRebuy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	st, err := s.sessions.Rebuy(ctx, id)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(st), nil
}
