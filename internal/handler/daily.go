package handler

import (
	"fmt"
	"net/http"
)

type claimRequest struct {
	UserID int64 `json:"user_id"`
}

// ClaimDaily credits the user's once-per-day reward.
func (h *Handler) ClaimDaily(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.UserID == 0 {
		h.writeError(w, fmt.Errorf("%w: user_id is required", errBadRequest))
		return
	}

	result, err := h.daily.Claim(r.Context(), req.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, map[string]interface{}{
		"amount":     result.Amount,
		"premium":    result.Premium,
		"balance":    result.Balance,
		"next_reset": h.daily.NextReset(),
	})
}
