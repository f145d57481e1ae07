package game

import "time"

type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "all_in"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionFold, ActionCheck, ActionCall, ActionBet, ActionRaise, ActionAllIn:
		return true
	}
	return false
}

type PlayerID string

const (
	PlayerHuman    PlayerID = "human"
	PlayerOpponent PlayerID = "opponent"
)

// ActorSystem marks events that no player caused (deals, blinds summary, awards).
const ActorSystem = "system"

const (
	SeatHuman    = 0
	SeatOpponent = 1
)

func SeatOf(id PlayerID) int {
	if id == PlayerOpponent {
		return SeatOpponent
	}
	return SeatHuman
}

type Street string

const (
	StreetPreFlop  Street = "preflop"
	StreetFlop     Street = "flop"
	StreetTurn     Street = "turn"
	StreetRiver    Street = "river"
	StreetShowdown Street = "showdown"
)

const (
	WinnerSplit = "split"
)

type Player struct {
	ID           PlayerID
	Name         string
	Stack        int64
	Hole         []Card
	IsButton     bool
	Folded       bool
	AllIn        bool
	RoundBet     int64
	Contributed  int64
	CardsVisible bool
	LastAction   ActionType
}

type Action struct {
	Actor  PlayerID
	Type   ActionType
	Amount int64
}

type LegalAction struct {
	Type      ActionType `json:"type"`
	MinAmount *int64     `json:"minAmount"`
	MaxAmount *int64     `json:"maxAmount"`
	ToCall    *int64     `json:"toCall"`
}

type Award struct {
	Player PlayerID
	Amount int64
	// Pot is the index into the pot list the award came from.
	Pot int
}

// HandState is the authoritative state of one hand. The engine never mutates
// a HandState passed to it; every transition returns a fresh copy.
type HandState struct {
	HandID       string
	Seed         string
	Street       Street
	Board        []Card
	Deck         *Deck
	Players      [2]*Player
	ButtonSeat   int
	CurrentActor int
	CurrentBet   int64
	LastRaise    int64
	SmallBlind   int64
	BigBlind     int64
	Pending      [2]bool
	Complete     bool
	Winner       string
	Awards       []Award
	Events       []ReplayEvent
	StartedAt    time.Time
	eventCounter int
}

// NoActor is the CurrentActor value once nobody is to act.
const NoActor = -1

func (s *HandState) Clone() *HandState {
	if s == nil {
		return nil
	}
	out := *s
	for i, p := range s.Players {
		if p == nil {
			continue
		}
		cp := *p
		cp.Hole = append([]Card(nil), p.Hole...)
		out.Players[i] = &cp
	}
	out.Board = append([]Card(nil), s.Board...)
	out.Deck = s.Deck.clone()
	out.Awards = append([]Award(nil), s.Awards...)
	out.Events = append([]ReplayEvent(nil), s.Events...)
	return &out
}

// Pot is the sum of every chip committed this hand. It stays at its final
// value after the awards are paid so summaries can report it.
func (s *HandState) Pot() int64 {
	var total int64
	for _, p := range s.Players {
		total += p.Contributed
	}
	return total
}

func (s *HandState) Player(id PlayerID) *Player {
	return s.Players[SeatOf(id)]
}

// Actor returns the player to act, or nil when the hand is terminal.
func (s *HandState) Actor() *Player {
	if s.Complete || s.CurrentActor == NoActor {
		return nil
	}
	return s.Players[s.CurrentActor]
}

func (s *HandState) ToCall(seat int) int64 {
	return max64(0, s.CurrentBet-s.Players[seat].RoundBet)
}

// ChipsInPlay is stacks plus committed chips; constant for the life of a hand.
func (s *HandState) ChipsInPlay() int64 {
	var total int64
	for _, p := range s.Players {
		total += p.Stack
	}
	if s.Complete {
		return total
	}
	return total + s.Pot()
}

func (s *HandState) nonButtonSeat() int {
	return 1 - s.ButtonSeat
}

// actionOrder is button first preflop, non-button first on later streets.
func (s *HandState) actionOrder() [2]int {
	if s.Street == StreetPreFlop {
		return [2]int{s.ButtonSeat, s.nonButtonSeat()}
	}
	return [2]int{s.nonButtonSeat(), s.ButtonSeat}
}

func (s *HandState) activeCount() int {
	n := 0
	for _, p := range s.Players {
		if !p.Folded {
			n++
		}
	}
	return n
}

func (s *HandState) canBetCount() int {
	n := 0
	for _, p := range s.Players {
		if !p.Folded && !p.AllIn {
			n++
		}
	}
	return n
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func int64Ptr(v int64) *int64 {
	return &v
}
