package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"pixel-poker/internal/game"
	"pixel-poker/internal/session"
	"pixel-poker/internal/store"
)

var ErrDisconnected = errors.New("disconnected")

// RemoteError is a response the server marked as failed. Constraint and
// LegalActions are set for illegal actions.
type RemoteError struct {
	Code         string
	Status       int
	Constraint   string
	LegalActions []game.LegalAction
}

func (e *RemoteError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Code, e.Constraint, e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Code, e.Status)
}

// RequestError is a call that got no response. Resending with the same
// RequestID returns the server's remembered result if the request ran.
type RequestError struct {
	RequestID string
	Err       error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request %s: %v", e.RequestID, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// CallOption adjusts the message a helper sends.
type CallOption func(*Message)

// WithRequestID sends the call under id instead of a fresh one.
func WithRequestID(id string) CallOption {
	return func(m *Message) { m.RequestID = id }
}

// Client correlates responses to requests by request id. It is safe for
// concurrent use.
type Client struct {
	ws  *websocket.Conn
	ids *store.IDGen

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan Response
	closed  bool

	done      chan struct{}
	closeOnce sync.Once
}

func Dial(ctx context.Context, url string) (*Client, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{
		ws:      ws,
		ids:     store.NewIDGen(nil),
		pending: map[string]chan Response{},
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Close() error {
	err := c.ws.Close()
	c.shutdown()
	return err
}

// Call sends msg and waits for its response. An empty RequestID gets a fresh
// ULID; callers retrying a request pass the original id again.
func (c *Client) Call(ctx context.Context, msg Message) (Response, error) {
	if msg.RequestID == "" {
		msg.RequestID = c.ids.New()
	}
	ch := make(chan Response, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Response{}, &RequestError{RequestID: msg.RequestID, Err: ErrDisconnected}
	}
	if _, dup := c.pending[msg.RequestID]; dup {
		c.mu.Unlock()
		return Response{}, &RemoteError{Code: CodeDuplicateRequestID, Status: http.StatusConflict}
	}
	c.pending[msg.RequestID] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	err := c.ws.WriteJSON(msg)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(msg.RequestID)
		c.shutdown()
		return Response{}, &RequestError{RequestID: msg.RequestID, Err: ErrDisconnected}
	}

	select {
	case res, ok := <-ch:
		if !ok {
			return Response{}, &RequestError{RequestID: msg.RequestID, Err: ErrDisconnected}
		}
		return res, nil
	case <-ctx.Done():
		c.forget(msg.RequestID)
		return Response{}, &RequestError{RequestID: msg.RequestID, Err: ctx.Err()}
	}
}

func (c *Client) readLoop() {
	defer c.shutdown()
	for {
		var res Response
		if err := c.ws.ReadJSON(&res); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("gateway_client_read_failed")
			}
			return
		}
		c.mu.Lock()
		ch, ok := c.pending[res.RequestID]
		delete(c.pending, res.RequestID)
		c.mu.Unlock()
		if ok {
			ch <- res
		}
	}
}

// shutdown fails every pending call with ErrDisconnected.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		for id, ch := range c.pending {
			close(ch)
			delete(c.pending, id)
		}
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Client) forget(requestID string) {
	c.mu.Lock()
	delete(c.pending, requestID)
	c.mu.Unlock()
}

// do runs a call and decodes a successful payload into out.
func (c *Client) do(ctx context.Context, msg Message, out any, opts []CallOption) error {
	for _, opt := range opts {
		opt(&msg)
	}
	res, err := c.Call(ctx, msg)
	if err != nil {
		return err
	}
	if !res.OK {
		return &RemoteError{Code: res.Error, Status: res.Status, Constraint: res.Constraint, LegalActions: res.LegalActions}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(res.Data, out)
}

func (c *Client) CreateSession(ctx context.Context, opts ...CallOption) (session.State, error) {
	var st session.State
	err := c.do(ctx, Message{Type: TypeCreateSession}, &st, opts)
	return st, err
}

func (c *Client) GetState(ctx context.Context, sessionID string, opts ...CallOption) (session.State, error) {
	var st session.State
	err := c.do(ctx, Message{Type: TypeGetState, SessionID: sessionID}, &st, opts)
	return st, err
}

func (c *Client) Act(ctx context.Context, sessionID string, req session.ActionRequest, opts ...CallOption) (session.ActionResult, error) {
	var res session.ActionResult
	err := c.do(ctx, Message{Type: TypeAction, SessionID: sessionID, ActionType: req.ActionType, Amount: req.Amount}, &res, opts)
	return res, err
}

func (c *Client) NextHand(ctx context.Context, sessionID string, opts ...CallOption) (session.State, error) {
	var st session.State
	err := c.do(ctx, Message{Type: TypeNextHand, SessionID: sessionID}, &st, opts)
	return st, err
}

func (c *Client) Rebuy(ctx context.Context, sessionID string, opts ...CallOption) (session.State, error) {
	var st session.State
	err := c.do(ctx, Message{Type: TypeRebuy, SessionID: sessionID}, &st, opts)
	return st, err
}

func (c *Client) ListHands(ctx context.Context, sessionID string, opts ...CallOption) ([]session.HandSummary, error) {
	var hands []session.HandSummary
	err := c.do(ctx, Message{Type: TypeListHands, SessionID: sessionID}, &hands, opts)
	return hands, err
}

func (c *Client) GetReplay(ctx context.Context, sessionID, handID string, opts ...CallOption) (session.HandReplay, error) {
	var r session.HandReplay
	err := c.do(ctx, Message{Type: TypeGetReplay, SessionID: sessionID, HandID: handID}, &r, opts)
	return r, err
}
