package session

import (
	"pixel-poker/internal/game"
	"pixel-poker/internal/game/viewmodel"
)

func (m *Manager) snapshotLocked(s *Session) State {
	st := s.hand
	legal := []game.LegalAction{}
	if actor := st.Actor(); !st.Complete && actor != nil && actor.ID == game.PlayerHuman {
		legal = game.LegalActions(st)
	}
	feed := st.Events
	if len(feed) > m.cfg.LiveFeedLimit {
		feed = feed[len(feed)-m.cfg.LiveFeedLimit:]
	}
	return State{
		SessionID:  s.id,
		HandID:     st.HandID,
		Street:     st.Street,
		SmallBlind: s.smallBlind,
		BigBlind:   s.bigBlind,
		Pot:        st.Pot(),
		Board:      game.CardStrings(st.Board),
		Players: Players{
			Human:    viewmodel.BuildPlayerView(st.Players[game.SeatHuman]),
			Opponent: viewmodel.BuildPlayerView(st.Players[game.SeatOpponent]),
		},
		LegalActions: legal,
		ActionFeed:   append([]game.ReplayEvent(nil), feed...),
		Status:       s.status(),
	}
}
