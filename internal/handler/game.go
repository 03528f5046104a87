package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chat-game-backend/internal/model"
)

type enterRequest struct {
	UserID int64 `json:"user_id"`
}

type guessRequest struct {
	UserID int64 `json:"user_id"`
	Guess  int   `json:"guess"`
}

// ListGames returns the playable game catalog.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, h.engine.Catalog())
}

// EnterGame starts a game of the requested kind for the user.
func (h *Handler) EnterGame(w http.ResponseWriter, r *http.Request) {
	kind := model.GameKind(chi.URLParam(r, "kind"))

	var req enterRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.UserID == 0 {
		h.writeError(w, fmt.Errorf("%w: user_id is required", errBadRequest))
		return
	}

	result, err := h.engine.Enter(r.Context(), req.UserID, kind)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, result)
}

// Guess applies one attempt to the user's active session of the
// requested kind.
func (h *Handler) Guess(w http.ResponseWriter, r *http.Request) {
	kind := model.GameKind(chi.URLParam(r, "kind"))

	var req guessRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.UserID == 0 {
		h.writeError(w, fmt.Errorf("%w: user_id is required", errBadRequest))
		return
	}

	result, err := h.engine.Attempt(r.Context(), req.UserID, kind, req.Guess)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, result)
}

// sessionView is the API shape of an active session. The hidden state
// stays server-side.
type sessionView struct {
	Kind         model.GameKind `json:"kind"`
	Stake        int64          `json:"stake"`
	AttemptsLeft int            `json:"attempts_left"`
	Question     string         `json:"question,omitempty"`
	Options      []string       `json:"options,omitempty"`
}

// GetSession returns the user's active session, if any, without its
// hidden state.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	sess, active, err := h.engine.ActiveSession(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !active {
		h.writeSuccess(w, map[string]bool{"active": false})
		return
	}

	view := sessionView{
		Kind:         sess.Kind,
		Stake:        sess.Stake,
		AttemptsLeft: sess.AttemptsLeft(),
	}
	if sess.Quiz != nil {
		view.Question = sess.Quiz.Question
		view.Options = sess.Quiz.Options
	}
	h.writeSuccess(w, map[string]interface{}{
		"active":  true,
		"session": view,
	})
}
