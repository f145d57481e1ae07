package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
)

type Engine struct {
	scorers *ScorerChain
	clock   quartz.Clock
}

// NewEngine wires the showdown scorers and the clock used for event
// timestamps. A nil clock means wall time.
func NewEngine(scorers *ScorerChain, clock quartz.Clock) *Engine {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Engine{scorers: scorers, clock: clock}
}

type PlayerSeed struct {
	Name         string
	Stack        int64
	CardsVisible bool
}

type HandSpec struct {
	HandID     string
	Seed       string
	Human      PlayerSeed
	Opponent   PlayerSeed
	ButtonSeat int
	SmallBlind int64
	BigBlind   int64
}

var errInvalidBlinds = errors.New("invalid_blinds")

// StartHand deals hole cards and posts the blinds. A blind larger than a
// stack is posted for the whole stack and leaves that player all-in.
func (e *Engine) StartHand(spec HandSpec) (*HandState, error) {
	if spec.SmallBlind <= 0 || spec.BigBlind < spec.SmallBlind {
		return nil, errInvalidBlinds
	}
	if spec.ButtonSeat != SeatHuman && spec.ButtonSeat != SeatOpponent {
		return nil, fmt.Errorf("invalid_button_seat: %d", spec.ButtonSeat)
	}
	if spec.Human.Stack <= 0 {
		return nil, &InsufficientStackError{Player: PlayerHuman, Stack: spec.Human.Stack}
	}
	if spec.Opponent.Stack <= 0 {
		return nil, &InsufficientStackError{Player: PlayerOpponent, Stack: spec.Opponent.Stack}
	}

	now := e.clock.Now()
	s := &HandState{
		HandID:       spec.HandID,
		Seed:         spec.Seed,
		Street:       StreetPreFlop,
		Deck:         NewSeededDeck(spec.Seed),
		ButtonSeat:   spec.ButtonSeat,
		CurrentActor: NoActor,
		LastRaise:    spec.BigBlind,
		SmallBlind:   spec.SmallBlind,
		BigBlind:     spec.BigBlind,
		StartedAt:    now.UTC(),
	}
	s.Players[SeatHuman] = &Player{ID: PlayerHuman, Name: spec.Human.Name, Stack: spec.Human.Stack, CardsVisible: spec.Human.CardsVisible}
	s.Players[SeatOpponent] = &Player{ID: PlayerOpponent, Name: spec.Opponent.Name, Stack: spec.Opponent.Stack, CardsVisible: spec.Opponent.CardsVisible}
	s.Players[s.ButtonSeat].IsButton = true

	for i := 0; i < 2; i++ {
		for _, seat := range [2]int{s.ButtonSeat, s.nonButtonSeat()} {
			s.Players[seat].Hole = append(s.Players[seat].Hole, s.Deck.Deal())
		}
	}

	s.addEvent(now, EventHandStart, ActorSystem, fmt.Sprintf("hand_started blinds %d/%d", spec.SmallBlind, spec.BigBlind), nil)
	sb := s.Players[s.ButtonSeat]
	bb := s.Players[s.nonButtonSeat()]
	sbPaid := commit(sb, spec.SmallBlind)
	s.addEvent(now, EventBlind, string(sb.ID), "post_small_blind", int64Ptr(sbPaid))
	bbPaid := commit(bb, spec.BigBlind)
	s.addEvent(now, EventBlind, string(bb.ID), "post_big_blind", int64Ptr(bbPaid))

	s.CurrentBet = max64(sb.RoundBet, bb.RoundBet)
	s.resetPending(-1)
	if err := e.progress(s, now); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyAction validates a against st and returns the next state. st is
// never modified; on error the caller keeps using it unchanged.
func (e *Engine) ApplyAction(st *HandState, a Action) (*HandState, error) {
	if a.Type == ActionAllIn && a.Amount == 0 {
		a = Normalize(st, a)
	}
	if err := ValidateAction(st, a); err != nil {
		return nil, err
	}

	s := st.Clone()
	now := e.clock.Now()
	seat := s.CurrentActor
	p := s.Players[seat]
	p.LastAction = a.Type

	switch a.Type {
	case ActionFold:
		p.Folded = true
		s.Pending[seat] = false
		s.addEvent(now, EventAction, string(p.ID), string(a.Type), nil)
	case ActionCheck:
		s.Pending[seat] = false
		s.addEvent(now, EventAction, string(p.ID), string(a.Type), nil)
	case ActionCall:
		paid := commit(p, s.ToCall(seat))
		s.Pending[seat] = false
		s.addEvent(now, EventAction, string(p.ID), string(a.Type), int64Ptr(paid))
	case ActionBet, ActionRaise:
		prev := s.CurrentBet
		paid := commit(p, a.Amount)
		s.CurrentBet = p.RoundBet
		s.LastRaise = p.RoundBet - prev
		s.resetPending(seat)
		s.addEvent(now, EventAction, string(p.ID), string(a.Type), int64Ptr(paid))
	case ActionAllIn:
		prev := s.CurrentBet
		paid := commit(p, p.Stack)
		if p.RoundBet > prev {
			// A short all-in raises the price but does not grow the minimum increment.
			if inc := p.RoundBet - prev; inc >= s.LastRaise {
				s.LastRaise = inc
			}
			s.CurrentBet = p.RoundBet
			s.resetPending(seat)
		} else {
			s.Pending[seat] = false
		}
		s.addEvent(now, EventAction, string(p.ID), string(a.Type), int64Ptr(paid))
	}

	if err := e.progress(s, now); err != nil {
		return nil, err
	}
	return s, nil
}

// progress moves the hand forward after chips changed hands: fold wins,
// all-in runouts, round closure and the next actor.
func (e *Engine) progress(s *HandState, now time.Time) error {
	if s.activeCount() == 1 {
		s.awardFold(now)
		return nil
	}
	if s.canBetCount() == 0 {
		return e.runout(s, now)
	}
	if !s.Pending[0] && !s.Pending[1] {
		return e.advance(s, now)
	}
	s.CurrentActor = s.firstPending()
	return nil
}

func (e *Engine) advance(s *HandState, now time.Time) error {
	if s.Street == StreetRiver {
		return e.showdown(s, now)
	}
	s.dealNext(now)
	for _, p := range s.Players {
		p.RoundBet = 0
	}
	s.CurrentBet = 0
	s.LastRaise = s.BigBlind
	if s.canBetCount() <= 1 {
		return e.runout(s, now)
	}
	s.resetPending(-1)
	s.CurrentActor = s.firstPending()
	return nil
}

func (e *Engine) runout(s *HandState, now time.Time) error {
	s.CurrentActor = NoActor
	s.Pending = [2]bool{}
	for len(s.Board) < 5 {
		s.dealNext(now)
	}
	return e.showdown(s, now)
}

func (s *HandState) dealNext(now time.Time) {
	switch len(s.Board) {
	case 0:
		s.Street = StreetFlop
		s.Board = append(s.Board, s.Deck.Deal(), s.Deck.Deal(), s.Deck.Deal())
		s.addEvent(now, EventStreet, ActorSystem, MarkerFlop, nil)
	case 3:
		s.Street = StreetTurn
		s.Board = append(s.Board, s.Deck.Deal())
		s.addEvent(now, EventStreet, ActorSystem, MarkerTurn, nil)
	case 4:
		s.Street = StreetRiver
		s.Board = append(s.Board, s.Deck.Deal())
		s.addEvent(now, EventStreet, ActorSystem, MarkerRiver, nil)
	}
}

func (e *Engine) showdown(s *HandState, now time.Time) error {
	s.Street = StreetShowdown
	awards, err := e.ResolveShowdown(s)
	if err != nil {
		return err
	}
	s.Awards = awards
	for _, a := range awards {
		s.Player(a.Player).Stack += a.Amount
	}
	s.Winner = mainPotWinner(awards)
	s.finish()
	s.addEvent(now, EventShowdown, ActorSystem, "showdown_"+s.Winner, nil)
	for _, a := range awards {
		s.addEvent(now, EventAward, string(a.Player), "collect", int64Ptr(a.Amount))
	}
	return nil
}

func (s *HandState) awardFold(now time.Time) {
	var winner *Player
	for _, p := range s.Players {
		if !p.Folded {
			winner = p
		}
	}
	pot := s.Pot()
	winner.Stack += pot
	s.Awards = []Award{{Player: winner.ID, Amount: pot}}
	s.Winner = string(winner.ID)
	s.finish()
	s.addEvent(now, EventAward, ActorSystem, string(winner.ID)+"_wins_after_fold", int64Ptr(pot))
}

func (s *HandState) finish() {
	s.Complete = true
	s.CurrentActor = NoActor
	s.Pending = [2]bool{}
	s.CurrentBet = 0
	for _, p := range s.Players {
		p.CardsVisible = true
	}
}

// resetPending marks every live player who can still bet as owing a
// decision, except the seat that just acted (-1 for none).
func (s *HandState) resetPending(except int) {
	for i, p := range s.Players {
		s.Pending[i] = i != except && !p.Folded && !p.AllIn
	}
}

func (s *HandState) firstPending() int {
	for _, seat := range s.actionOrder() {
		if s.Pending[seat] {
			return seat
		}
	}
	return NoActor
}

// commit moves up to amount from the stack into the pot and returns what
// was actually paid.
func commit(p *Player, amount int64) int64 {
	if amount <= 0 || p.Stack <= 0 {
		return 0
	}
	paid := min64(amount, p.Stack)
	p.Stack -= paid
	p.RoundBet += paid
	p.Contributed += paid
	if p.Stack == 0 {
		p.AllIn = true
	}
	return paid
}
