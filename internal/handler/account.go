package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// RegisterUser ensures an account exists, creating one with the
// starting balance on first contact.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.UserID == 0 {
		h.writeError(w, fmt.Errorf("%w: user_id is required", errBadRequest))
		return
	}

	user, created, err := h.ledger.Register(r.Context(), req.UserID, req.DisplayName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, map[string]interface{}{
		"user":    user,
		"created": created,
	})
}

// GetUser returns a user record.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.ledger.GetUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, user)
}

// GetTransactions returns a user's balance-change history, newest
// first.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUserID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			h.writeError(w, fmt.Errorf("%w: limit must be 1..100", errBadRequest))
			return
		}
		limit = n
	}

	if h.history == nil {
		h.writeSuccess(w, []interface{}{})
		return
	}
	transactions, err := h.history.ListByUser(r.Context(), userID, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, transactions)
}

func pathUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid user id", errBadRequest)
	}
	return id, nil
}
