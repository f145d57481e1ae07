package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"pixel-poker/internal/game"
	"pixel-poker/internal/game/viewmodel"
)

// Request is the serialized view sent to the decision source. Payload is
// canonical: identical situations yield identical bytes and fingerprints.
type Request struct {
	View        viewmodel.DecisionView
	Payload     []byte
	Fingerprint string
}

func BuildRequest(st *game.HandState) (Request, error) {
	view := viewmodel.BuildDecisionView(st, st.CurrentActor)
	payload, err := json.Marshal(view)
	if err != nil {
		return Request{}, err
	}
	sum := sha256.Sum256(payload)
	return Request{View: view, Payload: payload, Fingerprint: hex.EncodeToString(sum[:])}, nil
}

// Decision is what a source proposes before validation.
type Decision struct {
	ActionType game.ActionType
	Amount     *int64
}

// toAction maps a proposal onto the acting seat. A sizing action without an
// amount takes the smallest legal size.
func toAction(st *game.HandState, d Decision) game.Action {
	a := game.Action{
		Actor: st.Actor().ID,
		Type:  game.ActionType(strings.ToLower(strings.TrimSpace(string(d.ActionType)))),
	}
	if d.Amount != nil {
		a.Amount = *d.Amount
	} else if la, ok := game.FindLegal(game.LegalActions(st), a.Type); ok && la.MinAmount != nil {
		a.Amount = *la.MinAmount
	}
	return game.Normalize(st, a)
}
