package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pixel-poker/internal/session"
)

type Server struct {
	sessions *session.Manager

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(sessions *session.Manager, version string) *Server {
	mcpSrv := server.NewMCPServer(
		"pixel-poker",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
	)
	s := &Server{
		sessions:   sessions,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerSessionTools()
	s.registerTableTools()
	s.registerResources()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

// registerResources exposes hand replays as session://{session_id}/hands/{hand_id}.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"session://{session_id}/hands/{hand_id}",
			"hand_replay",
			mcp.WithTemplateDescription("Full event log of one hand"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			raw := request.Params.URI
			sessionID, handID, ok := parseReplayURI(raw)
			if !ok {
				return nil, fmt.Errorf("invalid_replay_uri: %s", raw)
			}
			replay, err := s.sessions.GetHandReplay(ctx, sessionID, handID)
			if err != nil {
				return nil, err
			}
			payload, err := json.Marshal(replay)
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      raw,
					MIMEType: "application/json",
					Text:     string(payload),
				},
			}, nil
		},
	)
}

func parseReplayURI(raw string) (string, string, bool) {
	rest, ok := strings.CutPrefix(raw, "session://")
	if !ok {
		return "", "", false
	}
	sessionID, handID, ok := strings.Cut(rest, "/hands/")
	if !ok || sessionID == "" || handID == "" || strings.Contains(handID, "/") {
		return "", "", false
	}
	return sessionID, handID, true
}
