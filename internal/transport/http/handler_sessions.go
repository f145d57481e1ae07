package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pixel-poker/internal/game"
	"pixel-poker/internal/gateway"
	"pixel-poker/internal/session"
)

type SessionHandlers struct {
	sessions gateway.Sessions
}

func NewSessionHandlers(sessions gateway.Sessions) *SessionHandlers {
	return &SessionHandlers{sessions: sessions}
}

func (h *SessionHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	}
}

func (h *SessionHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := h.sessions.CreateSession(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, st)
	}
}

func (h *SessionHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := h.sessions.GetState(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func (h *SessionHandlers) Action() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req session.ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			metricInvalidJSONTotal.Add(1)
			WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		res, err := h.sessions.SubmitHumanAction(r.Context(), chi.URLParam(r, "session_id"), req)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (h *SessionHandlers) NextHand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := h.sessions.NextHand(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func (h *SessionHandlers) Rebuy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := h.sessions.Rebuy(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func (h *SessionHandlers) Hands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hands, err := h.sessions.ListHands(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		if hands == nil {
			hands = []session.HandSummary{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": hands})
	}
}

func (h *SessionHandlers) Replay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		replayQueryTotal.Add(1)
		replay, err := h.sessions.GetHandReplay(r.Context(), chi.URLParam(r, "session_id"), chi.URLParam(r, "hand_id"))
		if err != nil {
			replayQueryErrorsTotal.Add(1)
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, replay)
	}
}

// writeDomainError renders a manager failure. Illegal actions also carry the
// violated constraint and the legal set so clients can correct themselves.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := session.MapError(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("session_request_failed")
	}
	var ia *game.IllegalActionError
	if errors.As(err, &ia) {
		legal := ia.Legal
		if legal == nil {
			legal = []game.LegalAction{}
		}
		writeHTTPErrorWith(w, status, code, map[string]any{
			"constraint":   ia.Constraint,
			"legalActions": legal,
		})
		return
	}
	WriteHTTPError(w, status, code)
}
