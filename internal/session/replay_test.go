package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-poker/internal/game"
)

func TestSummarizeShowdownLog(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	events := []game.ReplayEvent{
		{Kind: game.EventHandStart, Timestamp: start, Pot: 0},
		{Kind: game.EventBlind, Pot: 3},
		{Kind: game.EventShowdown, Action: "showdown_split", Pot: 40},
		{Kind: game.EventAward, Action: "collect", Pot: 40},
	}
	sum := Summarize("hand-007", events)
	assert.Equal(t, "hand-007", sum.HandID)
	assert.Equal(t, start, sum.StartedAt)
	assert.Equal(t, int64(40), sum.FinalPot)
	require.NotNil(t, sum.Winner)
	assert.Equal(t, game.WinnerSplit, *sum.Winner)
}

func TestSummarizeEmptyLog(t *testing.T) {
	sum := Summarize("hand-001", nil)
	assert.Nil(t, sum.Winner)
	assert.Zero(t, sum.FinalPot)
}

func TestBuildReplayIsDetached(t *testing.T) {
	st := &game.HandState{HandID: "hand-002", Seed: "s:2", SmallBlind: 1, BigBlind: 2}
	st.Events = []game.ReplayEvent{{ID: "evt-001"}}
	r := BuildReplay(st)
	st.Events[0].ID = "changed"
	st.Events = append(st.Events, game.ReplayEvent{ID: "evt-002"})

	require.Len(t, r.Events, 1)
	assert.Equal(t, "evt-001", r.Events[0].ID)
	assert.Equal(t, Blinds{SmallBlind: 1, BigBlind: 2}, r.Blinds)
}
