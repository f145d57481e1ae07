package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"pixel-poker/internal/config"
	"pixel-poker/internal/gateway"
	"pixel-poker/internal/mcpserver"
)

// Deps are the components the router exposes. MCP may be nil.
type Deps struct {
	Sessions gateway.Sessions
	Gateway  *gateway.Server
	MCP      *mcpserver.Server
	Server   config.ServerConfig
}

func NewRouter(deps Deps) *chi.Mux {
	sessionHandlers := NewSessionHandlers(deps.Sessions)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(CORSMiddleware(deps.Server.CORSAllowOrigins))

	if deps.Gateway != nil {
		r.Get("/ws", deps.Gateway.HandleWS)
	}

	if deps.MCP != nil {
		mcpHandler := deps.MCP.Handler()
		r.With(APILogMiddleware()).MethodFunc(http.MethodOptions, "/mcp", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Allow", "POST, GET, DELETE, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
		})
		r.With(APILogMiddleware()).Method(http.MethodPost, "/mcp", mcpHandler)
		r.With(APILogMiddleware()).Method(http.MethodGet, "/mcp", mcpHandler)
		r.With(APILogMiddleware()).Method(http.MethodDelete, "/mcp", mcpHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/health", sessionHandlers.Health())

		r.Post("/sessions", sessionHandlers.Create())
		r.Route("/sessions/{session_id}", func(r chi.Router) {
			r.Get("/", sessionHandlers.Get())
			r.Post("/actions", sessionHandlers.Action())
			r.Post("/next-hand", sessionHandlers.NextHand())
			r.Post("/rebuy", sessionHandlers.Rebuy())
			r.Get("/hands", sessionHandlers.Hands())
			r.Get("/hands/{hand_id}/replay", sessionHandlers.Replay())
		})

		r.Get("/debug/vars", expvar.Handler().ServeHTTP)
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
