package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSessionTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"create_session",
			mcp.WithDescription("Start a heads-up session against the bot. The first hand is dealt immediately."),
		),
		s.handleCreateSession,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_session",
			mcp.WithDescription("Current session snapshot: hand, board, stacks, legal actions and recent events."),
			mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		),
		s.handleGetSession,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_hands",
			mcp.WithDescription("Hand summaries, current hand first, then completed hands newest first."),
			mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		),
		s.handleListHands,
	)
	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_replay",
			mcp.WithDescription("Full event log for one hand of the session."),
			mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
			mcp.WithString("hand_id", mcp.Required(), mcp.Description("Hand id, e.g. hand-001")),
		),
		s.handleGetReplay,
	)
}

func (s *Server) handleCreateSession(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.sessions.CreateSession(ctx)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(st), nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	st, err := s.sessions.GetState(ctx, id)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(st), nil
}

func (s *Server) handleListHands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	hands, err := s.sessions.ListHands(ctx, id)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(map[string]any{"items": hands}), nil
}

func (s *Server) handleGetReplay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	handID, err := request.RequireString("hand_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	replay, err := s.sessions.GetHandReplay(ctx, id, handID)
	if err != nil {
		return mapDomainError(err), nil
	}
	return toolResult(replay), nil
}
