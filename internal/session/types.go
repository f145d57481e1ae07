package session

import (
	"time"

	"pixel-poker/internal/game"
	"pixel-poker/internal/game/viewmodel"
)

type Status string

const (
	StatusInProgress      Status = "in_progress"
	StatusHandComplete    Status = "hand_complete"
	StatusSessionComplete Status = "session_complete"
)

type Players struct {
	Human    viewmodel.PlayerView `json:"human"`
	Opponent viewmodel.PlayerView `json:"opponent"`
}

// State is the client-facing snapshot of a session.
type State struct {
	SessionID    string             `json:"sessionId"`
	HandID       string             `json:"handId"`
	Street       game.Street        `json:"street"`
	SmallBlind   int64              `json:"smallBlind"`
	BigBlind     int64              `json:"bigBlind"`
	Pot          int64              `json:"pot"`
	Board        []string           `json:"board"`
	Players      Players            `json:"players"`
	LegalActions []game.LegalAction `json:"legalActions"`
	ActionFeed   []game.ReplayEvent `json:"actionFeed"`
	Status       Status             `json:"status"`
}

type ActionRequest struct {
	ActionType game.ActionType `json:"actionType"`
	Amount     *int64          `json:"amount,omitempty"`
}

type ActionResult struct {
	SessionState  State              `json:"sessionState"`
	AppliedEvents []game.ReplayEvent `json:"appliedEvents"`
	HandComplete  bool               `json:"handComplete"`
}

type HandSummary struct {
	HandID    string    `json:"handId"`
	StartedAt time.Time `json:"startedAt"`
	Winner    *string   `json:"winner"`
	FinalPot  int64     `json:"finalPot"`
}

type Blinds struct {
	SmallBlind int64 `json:"smallBlind"`
	BigBlind   int64 `json:"bigBlind"`
}

type HandReplay struct {
	HandID string             `json:"handId"`
	Seed   string             `json:"seed"`
	Blinds Blinds             `json:"blinds"`
	Events []game.ReplayEvent `json:"events"`
}
