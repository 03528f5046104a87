package handler

import (
	"fmt"
	"net/http"

	"chat-game-backend/internal/model"
)

type premiumRequest struct {
	UserID int64             `json:"user_id"`
	Tier   model.PremiumTier `json:"tier"`
}

// CreateCheckout issues a payment reference for a premium tier.
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req premiumRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.UserID == 0 {
		h.writeError(w, fmt.Errorf("%w: user_id is required", errBadRequest))
		return
	}

	checkout, err := h.premium.CreateCheckout(r.Context(), req.UserID, req.Tier)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, checkout)
}

// ActivatePremium applies a confirmed premium payment. The payment
// provider calls this after collection succeeds; replays are harmless.
func (h *Handler) ActivatePremium(w http.ResponseWriter, r *http.Request) {
	var req premiumRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.UserID == 0 {
		h.writeError(w, fmt.Errorf("%w: user_id is required", errBadRequest))
		return
	}

	user, err := h.premium.Activate(r.Context(), req.UserID, req.Tier)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, user)
}
