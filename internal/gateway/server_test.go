package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-poker/internal/game"
	"pixel-poker/internal/policy"
	"pixel-poker/internal/session"
)

type fakeSessions struct {
	mu      sync.Mutex
	calls   map[string]int
	started chan string
	release chan struct{}
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{calls: map[string]int{}, started: make(chan string, 16)}
}

func (f *fakeSessions) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
	select {
	case f.started <- op:
	default:
	}
	if f.release != nil {
		<-f.release
	}
}

func (f *fakeSessions) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeSessions) CreateSession(context.Context) (session.State, error) {
	f.record(TypeCreateSession)
	return session.State{SessionID: "s-1"}, nil
}

func (f *fakeSessions) GetState(_ context.Context, id string) (session.State, error) {
	f.record(TypeGetState)
	return session.State{SessionID: id}, nil
}

func (f *fakeSessions) SubmitHumanAction(_ context.Context, id string, _ session.ActionRequest) (session.ActionResult, error) {
	f.record(TypeAction)
	return session.ActionResult{SessionState: session.State{SessionID: id}}, nil
}

func (f *fakeSessions) NextHand(_ context.Context, id string) (session.State, error) {
	f.record(TypeNextHand)
	return session.State{SessionID: id, HandID: "hand-002"}, nil
}

func (f *fakeSessions) Rebuy(context.Context, string) (session.State, error) {
	f.record(TypeRebuy)
	return session.State{}, session.ErrSessionNotComplete
}

func (f *fakeSessions) ListHands(context.Context, string) ([]session.HandSummary, error) {
	f.record(TypeListHands)
	return nil, nil
}

func (f *fakeSessions) GetHandReplay(context.Context, string, string) (session.HandReplay, error) {
	f.record(TypeGetReplay)
	return session.HandReplay{}, session.ErrHandNotFound
}

func startServer(t *testing.T, sessions Sessions) string {
	t.Helper()
	srv, err := NewServer(sessions, Options{})
	require.NoError(t, err)
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWS))
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dialRaw(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readResponse(t *testing.T, ws *websocket.Conn) Response {
	t.Helper()
	_ = ws.SetReadDeadline(time.Now().Add(3 * time.Second))
	var res Response
	require.NoError(t, ws.ReadJSON(&res))
	assert.Equal(t, TypeResponse, res.Type)
	return res
}

func waitStarted(t *testing.T, f *fakeSessions, op string) {
	t.Helper()
	select {
	case got := <-f.started:
		require.Equal(t, op, got)
	case <-time.After(3 * time.Second):
		t.Fatalf("%s never reached the manager", op)
	}
}

func TestInvalidRequestIDRejected(t *testing.T) {
	f := newFakeSessions()
	ws := dialRaw(t, startServer(t, f))

	require.NoError(t, ws.WriteJSON(Message{Type: TypeGetState, SessionID: "s-1"}))
	res := readResponse(t, ws)
	assert.False(t, res.OK)
	assert.Equal(t, CodeInvalidRequestID, res.Error)

	long := strings.Repeat("r", 65)
	require.NoError(t, ws.WriteJSON(Message{Type: TypeGetState, RequestID: long, SessionID: "s-1"}))
	res = readResponse(t, ws)
	assert.Equal(t, CodeInvalidRequestID, res.Error)
	assert.Equal(t, long, res.RequestID)
	assert.Zero(t, f.count(TypeGetState))
}

func TestMalformedMessageRejected(t *testing.T) {
	ws := dialRaw(t, startServer(t, newFakeSessions()))
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))
	res := readResponse(t, ws)
	assert.Equal(t, CodeInvalidMessage, res.Error)
	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func TestRetriedMutationReturnsRememberedResult(t *testing.T) {
	f := newFakeSessions()
	ws := dialRaw(t, startServer(t, f))

	msg := Message{Type: TypeNextHand, RequestID: "req-1", SessionID: "s-1"}
	require.NoError(t, ws.WriteJSON(msg))
	first := readResponse(t, ws)
	require.True(t, first.OK)

	require.NoError(t, ws.WriteJSON(msg))
	second := readResponse(t, ws)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.count(TypeNextHand))

	require.NoError(t, ws.WriteJSON(Message{Type: TypeNextHand, RequestID: "req-1", SessionID: "s-2"}))
	readResponse(t, ws)
	assert.Equal(t, 2, f.count(TypeNextHand), "result memory is per session")
}

func TestRememberedFailureIsReplayed(t *testing.T) {
	f := newFakeSessions()
	ws := dialRaw(t, startServer(t, f))

	msg := Message{Type: TypeRebuy, RequestID: "rb", SessionID: "s-1"}
	require.NoError(t, ws.WriteJSON(msg))
	res := readResponse(t, ws)
	assert.Equal(t, "session_not_complete", res.Error)
	assert.Equal(t, http.StatusConflict, res.Status)

	require.NoError(t, ws.WriteJSON(msg))
	assert.Equal(t, res, readResponse(t, ws))
	assert.Equal(t, 1, f.count(TypeRebuy))
}

func TestDuplicatePendingRequestID(t *testing.T) {
	f := newFakeSessions()
	f.release = make(chan struct{})
	ws := dialRaw(t, startServer(t, f))

	msg := Message{Type: TypeNextHand, RequestID: "dup", SessionID: "s-1"}
	require.NoError(t, ws.WriteJSON(msg))
	waitStarted(t, f, TypeNextHand)
	require.NoError(t, ws.WriteJSON(msg))

	res := readResponse(t, ws)
	assert.Equal(t, CodeDuplicateRequestID, res.Error)

	close(f.release)
	res = readResponse(t, ws)
	assert.True(t, res.OK)
	assert.Equal(t, "dup", res.RequestID)
}

func TestConcurrentMutationIsBusy(t *testing.T) {
	f := newFakeSessions()
	f.release = make(chan struct{})
	url := startServer(t, f)
	a := dialRaw(t, url)
	b := dialRaw(t, url)

	require.NoError(t, a.WriteJSON(Message{Type: TypeAction, RequestID: "a-1", SessionID: "s-1", ActionType: game.ActionCheck}))
	waitStarted(t, f, TypeAction)

	require.NoError(t, b.WriteJSON(Message{Type: TypeAction, RequestID: "b-1", SessionID: "s-1", ActionType: game.ActionCheck}))
	res := readResponse(t, b)
	assert.Equal(t, CodeSessionBusy, res.Error)

	require.NoError(t, b.WriteJSON(Message{Type: TypeGetState, RequestID: "b-2", SessionID: "s-1"}))
	waitStarted(t, f, TypeGetState)

	close(f.release)
	assert.True(t, readResponse(t, a).OK)
	assert.True(t, readResponse(t, b).OK, "reads are not gated by the mutation guard")
	assert.Equal(t, 1, f.count(TypeAction))
}

func TestDisconnectFailsQueuedRequests(t *testing.T) {
	f := newFakeSessions()
	f.release = make(chan struct{})
	ws := dialRaw(t, startServer(t, f))

	before := metricRequestsTotal.Value()
	require.NoError(t, ws.WriteJSON(Message{Type: TypeNextHand, RequestID: "q-1", SessionID: "s-1"}))
	waitStarted(t, f, TypeNextHand)
	require.NoError(t, ws.WriteJSON(Message{Type: TypeNextHand, RequestID: "q-2", SessionID: "s-9"}))
	require.NoError(t, ws.WriteJSON(Message{Type: TypeCreateSession, RequestID: "q-3"}))
	require.Eventually(t, func() bool { return metricRequestsTotal.Value()-before >= 3 }, 3*time.Second, 5*time.Millisecond)

	disconnected := metricDisconnectedTotal.Value()
	require.NoError(t, ws.Close())
	time.Sleep(50 * time.Millisecond)
	close(f.release)

	require.Eventually(t, func() bool { return metricDisconnectedTotal.Value()-disconnected == 2 }, 3*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.count(TypeNextHand))
	assert.Zero(t, f.count(TypeCreateSession))
}

func TestClientFailsPendingOnDisconnect(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_, _, _ = ws.ReadMessage()
		_ = ws.Close()
	}))
	defer ts.Close()

	c, err := Dial(context.Background(), "ws"+strings.TrimPrefix(ts.URL, "http"))
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err = c.Call(ctx, Message{Type: TypeGetState, RequestID: "lost-1", SessionID: "s-1"})
	require.ErrorIs(t, err, ErrDisconnected)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "lost-1", reqErr.RequestID)

	<-c.Done()
	_, err = c.Call(ctx, Message{Type: TypeGetState, SessionID: "s-1"})
	assert.ErrorIs(t, err, ErrDisconnected)
}

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	engine := game.NewEngine(game.NewScorerChain(game.PureScorer{}), quartz.NewMock(t))
	decider, err := policy.NewService(nil, policy.Config{})
	require.NoError(t, err)
	return session.NewManager(session.Config{SmallBlind: 1, BigBlind: 2, StartingStack: 200, LiveFeedLimit: 80, MaxPolicyCallsPerRequest: 1}, engine, decider, nil)
}

func TestClientPlaysHandAgainstManager(t *testing.T) {
	c, err := Dial(context.Background(), startServer(t, newManager(t)))
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	st, err := c.CreateSession(ctx)
	require.NoError(t, err)
	require.Equal(t, session.StatusInProgress, st.Status)

	res, err := c.Act(ctx, st.SessionID, session.ActionRequest{ActionType: game.ActionFold})
	require.NoError(t, err)
	assert.True(t, res.HandComplete)
	assert.Equal(t, int64(199), res.SessionState.Players.Human.Stack)

	_, err = c.Act(ctx, st.SessionID, session.ActionRequest{ActionType: game.ActionCheck})
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "hand_complete", re.Code)

	next, err := c.NextHand(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "hand-002", next.HandID)

	hands, err := c.ListHands(ctx, st.SessionID)
	require.NoError(t, err)
	require.Len(t, hands, 2)

	replay, err := c.GetReplay(ctx, st.SessionID, "hand-001")
	require.NoError(t, err)
	assert.Equal(t, st.SessionID+":1", replay.Seed)

	_, err = c.GetReplay(ctx, st.SessionID, "hand-404")
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
}

func TestIllegalActionNamesConstraint(t *testing.T) {
	url := startServer(t, newManager(t))
	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	st, err := c.CreateSession(ctx)
	require.NoError(t, err)

	one := int64(1)
	_, err = c.Act(ctx, st.SessionID, session.ActionRequest{ActionType: game.ActionRaise, Amount: &one})
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "illegal_action", re.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, re.Status)
	assert.Equal(t, game.ConstraintAmountOutRange, re.Constraint)
	_, ok := game.FindLegal(re.LegalActions, game.ActionRaise)
	assert.True(t, ok, "legal set is returned with the rejection")

	ws := dialRaw(t, url)
	require.NoError(t, ws.WriteJSON(Message{Type: TypeAction, RequestID: "r1", SessionID: st.SessionID, ActionType: game.ActionBet, Amount: &one}))
	res := readResponse(t, ws)
	assert.False(t, res.OK)
	assert.Equal(t, game.ConstraintNotLegal, res.Constraint)
	assert.NotEmpty(t, res.LegalActions)
}

func TestClientResendsWithOriginalRequestID(t *testing.T) {
	c, err := Dial(context.Background(), startServer(t, newManager(t)))
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	st, err := c.CreateSession(ctx)
	require.NoError(t, err)

	first, err := c.Act(ctx, st.SessionID, session.ActionRequest{ActionType: game.ActionFold}, WithRequestID("fold-1"))
	require.NoError(t, err)
	require.True(t, first.HandComplete)

	again, err := c.Act(ctx, st.SessionID, session.ActionRequest{ActionType: game.ActionFold}, WithRequestID("fold-1"))
	require.NoError(t, err, "a resent request id returns the remembered result")
	assert.Equal(t, first, again)

	_, err = c.Act(ctx, st.SessionID, session.ActionRequest{ActionType: game.ActionFold})
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "hand_complete", re.Code)
}
