package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"pixel-poker/internal/game"
	"pixel-poker/internal/session"
)

// Sessions is the manager surface the gateway drives.
type Sessions interface {
	CreateSession(ctx context.Context) (session.State, error)
	GetState(ctx context.Context, id string) (session.State, error)
	SubmitHumanAction(ctx context.Context, id string, req session.ActionRequest) (session.ActionResult, error)
	NextHand(ctx context.Context, id string) (session.State, error)
	Rebuy(ctx context.Context, id string) (session.State, error)
	ListHands(ctx context.Context, id string) ([]session.HandSummary, error)
	GetHandReplay(ctx context.Context, id, handID string) (session.HandReplay, error)
}

type Options struct {
	// ResultsPerSession bounds the remembered mutation results per session.
	ResultsPerSession int
	// MaxSessions bounds how many sessions keep result memory.
	MaxSessions int
	QueueSize   int
}

func (o Options) withDefaults() Options {
	if o.ResultsPerSession <= 0 {
		o.ResultsPerSession = 128
	}
	if o.MaxSessions <= 0 {
		o.MaxSessions = 1024
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 32
	}
	return o
}

type Server struct {
	sessions Sessions
	opts     Options
	upgrader websocket.Upgrader

	mu      sync.Mutex
	busy    map[string]bool
	results *lru.Cache[string, *lru.Cache[string, Response]]
}

func NewServer(sessions Sessions, opts Options) (*Server, error) {
	opts = opts.withDefaults()
	results, err := lru.New[string, *lru.Cache[string, Response]](opts.MaxSessions)
	if err != nil {
		return nil, err
	}
	return &Server{
		sessions: sessions,
		opts:     opts,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		busy:     map[string]bool{},
		results:  results,
	}, nil
}

type conn struct {
	ws     *websocket.Conn
	send   chan []byte
	queue  chan Message
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending map[string]bool
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &conn{
		ws:      ws,
		send:    make(chan []byte, s.opts.QueueSize),
		queue:   make(chan Message, s.opts.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
		pending: map[string]bool{},
	}
	metricConnectionsTotal.Add(1)
	metricConnectionsActive.Add(1)
	log.Debug().Str("remote_addr", r.RemoteAddr).Msg("gateway_connected")

	done := make(chan struct{})
	go s.writeLoop(c)
	go func() {
		defer close(done)
		s.worker(c)
	}()
	s.readLoop(c)
	<-done
	close(c.send)
	metricConnectionsActive.Add(-1)
	log.Debug().Str("remote_addr", r.RemoteAddr).Msg("gateway_disconnected")
}

func (s *Server) readLoop(c *conn) {
	defer func() {
		c.cancel()
		close(c.queue)
		_ = c.ws.Close()
	}()
	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.reply(c, Response{Error: CodeInvalidMessage, Status: http.StatusBadRequest})
			continue
		}
		if !validRequestID(msg.RequestID) {
			s.reply(c, Response{RequestID: msg.RequestID, Error: CodeInvalidRequestID, Status: http.StatusBadRequest})
			continue
		}
		if !c.track(msg.RequestID) {
			s.reply(c, Response{RequestID: msg.RequestID, Error: CodeDuplicateRequestID, Status: http.StatusConflict})
			continue
		}
		metricRequestsTotal.Add(1)
		select {
		case c.queue <- msg:
		case <-c.ctx.Done():
			return
		}
	}
}

func (s *Server) writeLoop(c *conn) {
	for msg := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.cancel()
			_ = c.ws.Close()
			// keep draining so senders never block
			for range c.send {
			}
			return
		}
	}
}

// worker runs one request at a time. Once the connection is gone, queued
// requests are failed without reaching the manager.
func (s *Server) worker(c *conn) {
	for msg := range c.queue {
		var res Response
		if c.ctx.Err() != nil {
			metricDisconnectedTotal.Add(1)
			res = Response{RequestID: msg.RequestID, Error: CodeDisconnected, Status: http.StatusServiceUnavailable}
		} else {
			res = s.handle(c.ctx, msg)
		}
		c.untrack(msg.RequestID)
		s.reply(c, res)
	}
}

func (s *Server) handle(ctx context.Context, msg Message) Response {
	if mutating(msg.Type) && msg.SessionID != "" {
		if prev, ok := s.remembered(msg.SessionID, msg.RequestID); ok {
			metricReplayedTotal.Add(1)
			return prev
		}
		if !s.acquire(msg.SessionID) {
			metricBusyTotal.Add(1)
			return Response{RequestID: msg.RequestID, Error: CodeSessionBusy, Status: http.StatusConflict}
		}
		defer s.release(msg.SessionID)
	}

	res := s.dispatch(ctx, msg)
	if mutating(msg.Type) && msg.SessionID != "" {
		s.remember(msg.SessionID, msg.RequestID, res)
	}
	return res
}

func (s *Server) dispatch(ctx context.Context, msg Message) Response {
	var (
		data any
		err  error
	)
	switch msg.Type {
	case TypeCreateSession:
		data, err = s.sessions.CreateSession(ctx)
	case TypeGetState:
		data, err = s.sessions.GetState(ctx, msg.SessionID)
	case TypeAction:
		data, err = s.sessions.SubmitHumanAction(ctx, msg.SessionID, session.ActionRequest{ActionType: msg.ActionType, Amount: msg.Amount})
	case TypeNextHand:
		data, err = s.sessions.NextHand(ctx, msg.SessionID)
	case TypeRebuy:
		data, err = s.sessions.Rebuy(ctx, msg.SessionID)
	case TypeListHands:
		data, err = s.sessions.ListHands(ctx, msg.SessionID)
	case TypeGetReplay:
		data, err = s.sessions.GetHandReplay(ctx, msg.SessionID, msg.HandID)
	default:
		return Response{RequestID: msg.RequestID, Error: CodeUnknownType, Status: http.StatusBadRequest}
	}
	if err != nil {
		status, code := session.MapError(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("type", msg.Type).Str("session_id", msg.SessionID).Msg("gateway_request_failed")
		}
		res := Response{RequestID: msg.RequestID, Error: code, Status: status}
		var ia *game.IllegalActionError
		if errors.As(err, &ia) {
			res.Constraint = ia.Constraint
			res.LegalActions = ia.Legal
		}
		return res
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Response{RequestID: msg.RequestID, Error: "internal_error", Status: http.StatusInternalServerError}
	}
	return Response{RequestID: msg.RequestID, OK: true, Status: http.StatusOK, Data: raw}
}

func (s *Server) reply(c *conn, res Response) {
	res.Type = TypeResponse
	raw, err := json.Marshal(res)
	if err != nil {
		return
	}
	select {
	case c.send <- raw:
	case <-c.ctx.Done():
	}
}

func (s *Server) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[sessionID] {
		return false
	}
	s.busy[sessionID] = true
	return true
}

func (s *Server) release(sessionID string) {
	s.mu.Lock()
	delete(s.busy, sessionID)
	s.mu.Unlock()
}

func (s *Server) remembered(sessionID, requestID string) (Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byReq, ok := s.results.Get(sessionID)
	if !ok {
		return Response{}, false
	}
	return byReq.Get(requestID)
}

func (s *Server) remember(sessionID, requestID string, res Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byReq, ok := s.results.Get(sessionID)
	if !ok {
		var err error
		byReq, err = lru.New[string, Response](s.opts.ResultsPerSession)
		if err != nil {
			return
		}
		s.results.Add(sessionID, byReq)
	}
	byReq.Add(requestID, res)
}

func (c *conn) track(requestID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending[requestID] {
		return false
	}
	c.pending[requestID] = true
	return true
}

func (c *conn) untrack(requestID string) {
	c.mu.Lock()
	delete(c.pending, requestID)
	c.mu.Unlock()
}
