package policy

import "pixel-poker/internal/game"

// Heuristic is the local fallback. It weighs a rough hand strength against
// the price of continuing and only ever returns an action from the legal set.
type Heuristic struct{}

func (Heuristic) Decide(st *game.HandState) game.Action {
	actor := st.Actor()
	legal := game.LegalActions(st)
	if actor == nil || len(legal) == 0 {
		return game.Action{Type: game.ActionFold}
	}
	seat := st.CurrentActor
	strength := HandStrength(actor.Hole, st.Board)
	toCall := st.ToCall(seat)
	pot := st.Pot()

	pick := func(t game.ActionType, amount int64) (game.Action, bool) {
		la, ok := game.FindLegal(legal, t)
		if !ok {
			return game.Action{}, false
		}
		if la.MinAmount != nil {
			amount = clamp(amount, *la.MinAmount, *la.MaxAmount)
		} else {
			amount = 0
		}
		return game.Action{Actor: actor.ID, Type: t, Amount: amount}, true
	}

	if toCall == 0 {
		if strength >= 0.7 {
			if a, ok := pick(game.ActionBet, pot/2); ok {
				return a
			}
			if a, ok := pick(game.ActionRaise, pot/2); ok {
				return a
			}
		}
		if a, ok := pick(game.ActionCheck, 0); ok {
			return a
		}
	} else {
		odds := float64(toCall) / float64(pot+toCall)
		if strength >= 0.8 {
			if a, ok := pick(game.ActionRaise, toCall+pot/2); ok {
				return a
			}
		}
		if strength > odds {
			if a, ok := pick(game.ActionCall, 0); ok {
				return a
			}
		}
		if a, ok := pick(game.ActionFold, 0); ok {
			return a
		}
	}
	return passiveChoice(actor.ID, legal)
}

// passiveChoice takes the cheapest available line.
func passiveChoice(actor game.PlayerID, legal []game.LegalAction) game.Action {
	for _, t := range []game.ActionType{game.ActionCheck, game.ActionCall, game.ActionFold, game.ActionBet, game.ActionRaise, game.ActionAllIn} {
		la, ok := game.FindLegal(legal, t)
		if !ok {
			continue
		}
		a := game.Action{Actor: actor, Type: t}
		if la.MinAmount != nil {
			a.Amount = *la.MinAmount
		}
		return a
	}
	return game.Action{Actor: actor, Type: game.ActionFold}
}

// HandStrength maps hole cards and board to a value in [0,1].
func HandStrength(hole []game.Card, board []game.Card) float64 {
	if len(hole) != 2 {
		return 0
	}
	if len(board) == 0 {
		return preflopStrength(hole[0], hole[1])
	}
	cards := append(append([]game.Card{}, hole...), board...)
	r := game.EvaluateBest(cards)
	switch r.Category {
	case game.CategoryHighCard:
		if hole[0].Rank == game.Ace || hole[1].Rank == game.Ace {
			return 0.3
		}
		return 0.15
	case game.CategoryPair:
		if len(r.Ranks) > 0 && r.Ranks[0] >= topBoardRank(board) {
			return 0.6
		}
		return 0.45
	case game.CategoryTwoPair:
		return 0.72
	case game.CategoryTrips:
		return 0.8
	default:
		return 0.9
	}
}

func preflopStrength(a, b game.Card) float64 {
	high, low := a.Rank, b.Rank
	if low > high {
		high, low = low, high
	}
	suited := a.Suit == b.Suit
	if high == low {
		switch {
		case high >= game.Jack:
			return 0.9
		case high >= game.Nine:
			return 0.75
		case high >= game.Six:
			return 0.55
		default:
			return 0.45
		}
	}
	if (high == game.Ace && low >= game.King) || (high == game.King && low == game.Queen) {
		if suited {
			return 0.85
		}
		return 0.75
	}
	if (high == game.Ace && low >= game.Ten) || (high == game.King && low >= game.Jack) || (high == game.Queen && low == game.Jack) {
		if suited {
			return 0.7
		}
		return 0.55
	}
	if high == game.Ace {
		return 0.45
	}
	if suited && high-low <= 2 && high >= game.Seven {
		return 0.5
	}
	if high >= game.Ten {
		return 0.35
	}
	return 0.2
}

func topBoardRank(board []game.Card) int {
	top := 0
	for _, c := range board {
		if int(c.Rank) > top {
			top = int(c.Rank)
		}
	}
	return top
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
