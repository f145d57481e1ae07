package game

import (
	"fmt"
	"time"
)

type EventKind string

const (
	EventHandStart EventKind = "hand_start"
	EventBlind     EventKind = "blind"
	EventAction    EventKind = "action"
	EventStreet    EventKind = "street"
	EventShowdown  EventKind = "showdown"
	EventAward     EventKind = "award"
)

// Street marker actions.
const (
	MarkerFlop  = "flop_dealt"
	MarkerTurn  = "turn_dealt"
	MarkerRiver = "river_dealt"
)

type SeatStacks struct {
	Human    int64 `json:"human"`
	Opponent int64 `json:"opponent"`
}

type SeatVisibility struct {
	Human    bool `json:"human"`
	Opponent bool `json:"opponent"`
}

// ReplayEvent is one immutable entry in a hand's log. Amount is only set
// for chip-moving entries.
type ReplayEvent struct {
	ID                 string         `json:"id"`
	Timestamp          time.Time      `json:"timestamp"`
	Kind               EventKind      `json:"kind"`
	Street             Street         `json:"street"`
	Actor              string         `json:"actor"`
	Action             string         `json:"action"`
	Amount             *int64         `json:"amount"`
	Pot                int64          `json:"pot"`
	Board              []string       `json:"board"`
	Stacks             SeatStacks     `json:"stacks"`
	HoleCardVisibility SeatVisibility `json:"holeCardVisibility"`
	SeedRef            string         `json:"seedRef"`
}

func (s *HandState) addEvent(now time.Time, kind EventKind, actor, action string, amount *int64) {
	s.eventCounter++
	h := s.Players[SeatHuman]
	o := s.Players[SeatOpponent]
	s.Events = append(s.Events, ReplayEvent{
		ID:                 fmt.Sprintf("evt-%03d", s.eventCounter),
		Timestamp:          now.UTC(),
		Kind:               kind,
		Street:             s.Street,
		Actor:              actor,
		Action:             action,
		Amount:             amount,
		Pot:                s.Pot(),
		Board:              CardStrings(s.Board),
		Stacks:             SeatStacks{Human: h.Stack, Opponent: o.Stack},
		HoleCardVisibility: SeatVisibility{Human: h.CardsVisible, Opponent: o.CardsVisible},
		SeedRef:            s.Seed,
	})
}

// ActionEvents filters a log down to player decisions.
func ActionEvents(events []ReplayEvent) []ReplayEvent {
	out := make([]ReplayEvent, 0, len(events))
	for _, e := range events {
		if e.Kind == EventAction {
			out = append(out, e)
		}
	}
	return out
}
