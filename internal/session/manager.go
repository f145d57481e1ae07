package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog/log"

	"pixel-poker/internal/config"
	"pixel-poker/internal/game"
	"pixel-poker/internal/policy"
	"pixel-poker/internal/store"
)

// Decider picks the opponent's action. Implementations must always return an
// action from the legal set.
type Decider interface {
	Decide(ctx context.Context, st *game.HandState, budget *policy.Budget) game.Action
}

type Config struct {
	SmallBlind               int64
	BigBlind                 int64
	StartingStack            int64
	LiveFeedLimit            int
	MaxPolicyCallsPerRequest int
	HumanName                string
	OpponentName             string
	// IdleTTL evicts sessions nobody touched for this long. Zero keeps them.
	IdleTTL                  time.Duration
}

func ConfigFromTable(t config.TableConfig) Config {
	return Config{
		SmallBlind:               t.SmallBlind,
		BigBlind:                 t.BigBlind,
		StartingStack:            t.StartingStack,
		LiveFeedLimit:            t.LiveFeedLimit,
		MaxPolicyCallsPerRequest: t.MaxPolicyCallsPerRequest,
		IdleTTL:                  t.SessionIdleTTL,
	}
}

type Session struct {
	mu sync.Mutex

	id          string
	createdAt   time.Time
	lastActive  atomic.Int64
	smallBlind  int64
	bigBlind    int64
	stacks      [2]int64
	buttonSeat  int
	handCounter int
	hand        *game.HandState
	// set under mu by the janitor when it removes the session
	evicted bool
	// newest first
	summaries []HandSummary
	replays   map[string]HandReplay
}

func (s *Session) status() Status {
	switch {
	case !s.hand.Complete:
		return StatusInProgress
	case s.stacks[game.SeatHuman] <= 0 || s.stacks[game.SeatOpponent] <= 0:
		return StatusSessionComplete
	default:
		return StatusHandComplete
	}
}

type Manager struct {
	cfg      Config
	engine   *game.Engine
	decider  Decider
	clock    quartz.Clock
	ids      *store.IDGen
	sessions *store.Registry[*Session]
}

func NewManager(cfg Config, engine *game.Engine, decider Decider, clock quartz.Clock) *Manager {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if cfg.LiveFeedLimit <= 0 {
		cfg.LiveFeedLimit = 80
	}
	if cfg.HumanName == "" {
		cfg.HumanName = "You"
	}
	if cfg.OpponentName == "" {
		cfg.OpponentName = "LLM Bot"
	}
	return &Manager{
		cfg:      cfg,
		engine:   engine,
		decider:  decider,
		clock:    clock,
		ids:      store.NewIDGen(clock),
		sessions: store.NewRegistry[*Session](),
	}
}

func (m *Manager) CreateSession(ctx context.Context) (State, error) {
	s := &Session{
		id:         m.ids.New(),
		createdAt:  m.clock.Now().UTC(),
		smallBlind: m.cfg.SmallBlind,
		bigBlind:   m.cfg.BigBlind,
		stacks:     [2]int64{m.cfg.StartingStack, m.cfg.StartingStack},
		buttonSeat: game.SeatHuman,
		replays:    map[string]HandReplay{},
	}
	s.touch(s.createdAt)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := m.dealLocked(ctx, s); err != nil {
		return State{}, err
	}
	if err := m.sessions.Create(ctx, s.id, s); err != nil {
		return State{}, err
	}
	metricSessionCreateTotal.Add(1)
	log.Info().
		Str("session_id", s.id).
		Int64("small_blind", s.smallBlind).
		Int64("big_blind", s.bigBlind).
		Int64("starting_stack", m.cfg.StartingStack).
		Msg("session_created")
	return m.snapshotLocked(s), nil
}

func (m *Manager) GetState(ctx context.Context, id string) (State, error) {
	s, err := m.acquire(ctx, id)
	if err != nil {
		return State{}, err
	}
	defer s.mu.Unlock()
	return m.snapshotLocked(s), nil
}

// SubmitHumanAction applies the human's action and then lets the opponent
// act until control returns to the human or the hand ends. Nothing is
// committed to the session unless every step succeeds.
func (m *Manager) SubmitHumanAction(ctx context.Context, id string, req ActionRequest) (ActionResult, error) {
	metricActionSubmitTotal.Add(1)
	s, err := m.acquire(ctx, id)
	if err != nil {
		metricActionSubmitErrors.Add(1)
		return ActionResult{}, err
	}
	defer s.mu.Unlock()

	hand := s.hand
	if hand.Complete {
		metricActionSubmitErrors.Add(1)
		return ActionResult{}, ErrHandComplete
	}
	if actor := hand.Actor(); actor == nil || actor.ID != game.PlayerHuman {
		metricActionSubmitErrors.Add(1)
		return ActionResult{}, ErrNotYourTurn
	}

	action := game.Action{Actor: game.PlayerHuman, Type: req.ActionType}
	if req.Amount != nil {
		action.Amount = *req.Amount
	}
	next, err := m.engine.ApplyAction(hand, action)
	if err != nil {
		metricActionSubmitErrors.Add(1)
		log.Debug().
			Err(err).
			Str("session_id", s.id).
			Str("hand_id", hand.HandID).
			Str("action_type", string(req.ActionType)).
			Msg("human_action_rejected")
		return ActionResult{}, err
	}
	next, err = m.runOpponent(ctx, s, next)
	if err != nil {
		metricActionSubmitErrors.Add(1)
		return ActionResult{}, err
	}

	applied := append([]game.ReplayEvent(nil), next.Events[len(hand.Events):]...)
	m.commitLocked(s, next)
	return ActionResult{
		SessionState:  m.snapshotLocked(s),
		AppliedEvents: applied,
		HandComplete:  next.Complete,
	}, nil
}

func (m *Manager) NextHand(ctx context.Context, id string) (State, error) {
	s, err := m.acquire(ctx, id)
	if err != nil {
		return State{}, err
	}
	defer s.mu.Unlock()

	switch s.status() {
	case StatusInProgress:
		return State{}, ErrHandNotComplete
	case StatusSessionComplete:
		return State{}, ErrSessionComplete
	}
	if err := m.rotateLocked(ctx, s); err != nil {
		return State{}, err
	}
	return m.snapshotLocked(s), nil
}

// Rebuy resets both stacks after a bust and deals the next hand.
func (m *Manager) Rebuy(ctx context.Context, id string) (State, error) {
	s, err := m.acquire(ctx, id)
	if err != nil {
		return State{}, err
	}
	defer s.mu.Unlock()

	if s.status() != StatusSessionComplete {
		return State{}, ErrSessionNotComplete
	}
	prev := s.stacks
	s.stacks = [2]int64{m.cfg.StartingStack, m.cfg.StartingStack}
	if err := m.rotateLocked(ctx, s); err != nil {
		s.stacks = prev
		return State{}, err
	}
	metricRebuyTotal.Add(1)
	log.Info().
		Str("session_id", s.id).
		Int64("stack", m.cfg.StartingStack).
		Msg("session_rebuy")
	return m.snapshotLocked(s), nil
}

// ListHands returns the current hand first, then completed hands newest
// first.
func (m *Manager) ListHands(ctx context.Context, id string) ([]HandSummary, error) {
	s, err := m.acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	out := make([]HandSummary, 0, len(s.summaries)+1)
	out = append(out, Summarize(s.hand.HandID, s.hand.Events))
	out = append(out, s.summaries...)
	return out, nil
}

func (m *Manager) GetHandReplay(ctx context.Context, id, handID string) (HandReplay, error) {
	s, err := m.acquire(ctx, id)
	if err != nil {
		return HandReplay{}, err
	}
	defer s.mu.Unlock()

	if s.hand.HandID == handID {
		return BuildReplay(s.hand), nil
	}
	r, ok := s.replays[handID]
	if !ok {
		return HandReplay{}, ErrHandNotFound
	}
	return r, nil
}

// acquire returns the session locked. The caller unlocks.
func (m *Manager) acquire(ctx context.Context, id string) (*Session, error) {
	s, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.lock(); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) lookup(ctx context.Context, id string) (*Session, error) {
	s, err := m.sessions.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	s.touch(m.clock.Now())
	return s, nil
}

// lock fails for a session the janitor removed after it was looked up.
func (s *Session) lock() error {
	s.mu.Lock()
	if s.evicted {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	return nil
}

// rotateLocked archives the finished hand, passes the button and deals.
func (m *Manager) rotateLocked(ctx context.Context, s *Session) error {
	prevButton := s.buttonSeat
	s.buttonSeat = 1 - s.buttonSeat
	if err := m.dealLocked(ctx, s); err != nil {
		s.buttonSeat = prevButton
		return err
	}
	return nil
}

// dealLocked starts hand number handCounter+1. The finished hand, if any, is
// archived only once the new one is dealt.
func (m *Manager) dealLocked(ctx context.Context, s *Session) error {
	n := s.handCounter + 1
	st, err := m.engine.StartHand(game.HandSpec{
		HandID:     fmt.Sprintf("hand-%03d", n),
		Seed:       fmt.Sprintf("%s:%d", s.id, n),
		Human:      game.PlayerSeed{Name: m.cfg.HumanName, Stack: s.stacks[game.SeatHuman], CardsVisible: true},
		Opponent:   game.PlayerSeed{Name: m.cfg.OpponentName, Stack: s.stacks[game.SeatOpponent]},
		ButtonSeat: s.buttonSeat,
		SmallBlind: s.smallBlind,
		BigBlind:   s.bigBlind,
	})
	if err != nil {
		return err
	}
	st, err = m.runOpponent(ctx, s, st)
	if err != nil {
		return err
	}

	if prev := s.hand; prev != nil {
		s.summaries = append([]HandSummary{Summarize(prev.HandID, prev.Events)}, s.summaries...)
		s.replays[prev.HandID] = BuildReplay(prev)
	}
	s.handCounter = n
	m.commitLocked(s, st)
	metricHandStartTotal.Add(1)
	log.Info().
		Str("session_id", s.id).
		Str("hand_id", st.HandID).
		Str("button", string(st.Players[st.ButtonSeat].ID)).
		Int64("human_stack", s.stacks[game.SeatHuman]).
		Int64("opponent_stack", s.stacks[game.SeatOpponent]).
		Msg("hand_started")
	return nil
}

// runOpponent applies opponent decisions while the opponent is on turn. The
// call budget is shared by every decision made for one request.
func (m *Manager) runOpponent(ctx context.Context, s *Session, st *game.HandState) (*game.HandState, error) {
	budget := policy.NewBudget(m.cfg.MaxPolicyCallsPerRequest)
	for !st.Complete {
		actor := st.Actor()
		if actor == nil || actor.ID != game.PlayerOpponent {
			break
		}
		a := m.decider.Decide(ctx, st, budget)
		next, err := m.engine.ApplyAction(st, a)
		if err != nil {
			log.Error().
				Err(err).
				Str("session_id", s.id).
				Str("hand_id", st.HandID).
				Str("action_type", string(a.Type)).
				Int64("amount", a.Amount).
				Msg("opponent_action_failed")
			return nil, err
		}
		metricOpponentActions.Add(1)
		st = next
	}
	return st, nil
}

func (m *Manager) commitLocked(s *Session, st *game.HandState) {
	s.hand = st
	s.stacks = [2]int64{st.Players[game.SeatHuman].Stack, st.Players[game.SeatOpponent].Stack}
	if st.Complete {
		metricHandCompleteTotal.Add(1)
		log.Info().
			Str("session_id", s.id).
			Str("hand_id", st.HandID).
			Str("winner", st.Winner).
			Int64("pot", st.Pot()).
			Msg("hand_completed")
	}
}
