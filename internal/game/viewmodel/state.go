package viewmodel

import "pixel-poker/internal/game"

type PlayerView struct {
	ID           game.PlayerID `json:"id"`
	Name         string        `json:"name"`
	Stack        int64         `json:"stack"`
	IsButton     bool          `json:"isButton"`
	HoleCards    []string      `json:"holeCards"`
	CardsVisible bool          `json:"cardsVisible"`
}

// BuildPlayerView masks hole cards the viewer may not see yet.
func BuildPlayerView(p *game.Player) PlayerView {
	hole := []string{"??", "??"}
	if p.CardsVisible {
		hole = game.CardStrings(p.Hole)
	}
	return PlayerView{
		ID:           p.ID,
		Name:         p.Name,
		Stack:        p.Stack,
		IsButton:     p.IsButton,
		HoleCards:    hole,
		CardsVisible: p.CardsVisible,
	}
}

type SeatView struct {
	ID                 game.PlayerID `json:"id"`
	Stack              int64         `json:"stack"`
	StreetContribution int64         `json:"street_contribution"`
	HandContribution   int64         `json:"hand_contribution"`
	ToCall             int64         `json:"to_call"`
	LastAction         string        `json:"last_action"`
	IsActive           bool          `json:"is_active"`
	AllIn              bool          `json:"all_in"`
}

type LegalView struct {
	Type      game.ActionType `json:"type"`
	MinAmount *int64          `json:"min_amount,omitempty"`
	MaxAmount *int64          `json:"max_amount,omitempty"`
	ToCall    *int64          `json:"to_call,omitempty"`
}

type BlindsView struct {
	Small int64 `json:"small"`
	Big   int64 `json:"big"`
}

// DecisionView is what the acting seat may know about the hand. It omits the
// hand id and event history so equal situations render identically.
type DecisionView struct {
	Street       game.Street   `json:"street"`
	Pot          int64         `json:"pot"`
	Board        []string      `json:"board"`
	HoleCards    []string      `json:"hole_cards"`
	Me           game.PlayerID `json:"me"`
	Button       game.PlayerID `json:"button"`
	Blinds       BlindsView    `json:"blinds"`
	CurrentBet   int64         `json:"current_bet"`
	ToCall       int64         `json:"to_call"`
	Seats        []SeatView    `json:"seats"`
	LegalActions []LegalView   `json:"legal_actions"`
}

func BuildDecisionView(st *game.HandState, seat int) DecisionView {
	me := st.Players[seat]
	seats := make([]SeatView, 0, len(st.Players))
	for i, p := range st.Players {
		seats = append(seats, SeatView{
			ID:                 p.ID,
			Stack:              p.Stack,
			StreetContribution: p.RoundBet,
			HandContribution:   p.Contributed,
			ToCall:             st.ToCall(i),
			LastAction:         string(p.LastAction),
			IsActive:           !p.Folded,
			AllIn:              p.AllIn,
		})
	}

	var legal []LegalView
	if st.CurrentActor == seat {
		for _, la := range game.LegalActions(st) {
			legal = append(legal, LegalView{Type: la.Type, MinAmount: la.MinAmount, MaxAmount: la.MaxAmount, ToCall: la.ToCall})
		}
	}

	return DecisionView{
		Street:       st.Street,
		Pot:          st.Pot(),
		Board:        game.CardStrings(st.Board),
		HoleCards:    game.CardStrings(me.Hole),
		Me:           me.ID,
		Button:       st.Players[st.ButtonSeat].ID,
		Blinds:       BlindsView{Small: st.SmallBlind, Big: st.BigBlind},
		CurrentBet:   st.CurrentBet,
		ToCall:       st.ToCall(seat),
		Seats:        seats,
		LegalActions: legal,
	}
}
