package session

import (
	"strings"

	"pixel-poker/internal/game"
)

// Summarize folds a hand's event log into its summary. The winner stays nil
// until the log carries a result entry.
func Summarize(handID string, events []game.ReplayEvent) HandSummary {
	sum := HandSummary{HandID: handID}
	if len(events) == 0 {
		return sum
	}
	sum.StartedAt = events[0].Timestamp
	sum.FinalPot = events[len(events)-1].Pot
	for _, e := range events {
		var winner string
		switch {
		case e.Kind == game.EventShowdown && strings.HasPrefix(e.Action, "showdown_"):
			winner = strings.TrimPrefix(e.Action, "showdown_")
		case e.Kind == game.EventAward && strings.HasSuffix(e.Action, "_wins_after_fold"):
			winner = strings.TrimSuffix(e.Action, "_wins_after_fold")
		default:
			continue
		}
		sum.Winner = &winner
	}
	return sum
}

// BuildReplay copies the log so later appends to a live hand never show
// through a replay already handed out.
func BuildReplay(st *game.HandState) HandReplay {
	events := make([]game.ReplayEvent, len(st.Events))
	copy(events, st.Events)
	return HandReplay{
		HandID: st.HandID,
		Seed:   st.Seed,
		Blinds: Blinds{SmallBlind: st.SmallBlind, BigBlind: st.BigBlind},
		Events: events,
	}
}
