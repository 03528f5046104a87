package handler

import (
	"fmt"
	"net/http"
	"strconv"
)

// Admin requests name their target by display name, matching the chat
// surface where operators see usernames rather than IDs.
type adminCreditsRequest struct {
	ActorID int64  `json:"actor_id"`
	Target  string `json:"target"`
	Amount  int64  `json:"amount"`
}

type adminPremiumRequest struct {
	ActorID int64  `json:"actor_id"`
	Target  string `json:"target"`
	Days    int    `json:"days"`
}

func (r *adminCreditsRequest) validate() error {
	if r.ActorID == 0 || r.Target == "" {
		return fmt.Errorf("%w: actor_id and target are required", errBadRequest)
	}
	if r.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", errBadRequest)
	}
	return nil
}

// AdminAddCredits grants credits to the target user.
func (h *Handler) AdminAddCredits(w http.ResponseWriter, r *http.Request) {
	var req adminCreditsRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.admin.AddCredits(r.Context(), req.ActorID, req.Target, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, user)
}

// AdminRemoveCredits removes credits from the target user, clamping the
// balance at zero.
func (h *Handler) AdminRemoveCredits(w http.ResponseWriter, r *http.Request) {
	var req adminCreditsRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.admin.RemoveCredits(r.Context(), req.ActorID, req.Target, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, user)
}

// AdminGrantPremium activates premium on the target user.
func (h *Handler) AdminGrantPremium(w http.ResponseWriter, r *http.Request) {
	var req adminPremiumRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.ActorID == 0 || req.Target == "" {
		h.writeError(w, fmt.Errorf("%w: actor_id and target are required", errBadRequest))
		return
	}
	if req.Days <= 0 {
		h.writeError(w, fmt.Errorf("%w: days must be positive", errBadRequest))
		return
	}

	user, err := h.admin.GrantPremium(r.Context(), req.ActorID, req.Target, req.Days)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, user)
}

// AdminRevokePremium clears premium on the target user.
func (h *Handler) AdminRevokePremium(w http.ResponseWriter, r *http.Request) {
	var req adminPremiumRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.ActorID == 0 || req.Target == "" {
		h.writeError(w, fmt.Errorf("%w: actor_id and target are required", errBadRequest))
		return
	}

	user, err := h.admin.RevokePremium(r.Context(), req.ActorID, req.Target)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, user)
}

// AdminStats returns backend-wide aggregates. The actor is identified
// by the actor_id query parameter.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	actorID, err := strconv.ParseInt(r.URL.Query().Get("actor_id"), 10, 64)
	if err != nil || actorID == 0 {
		h.writeError(w, fmt.Errorf("%w: actor_id is required", errBadRequest))
		return
	}

	stats, err := h.admin.Stats(r.Context(), actorID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSuccess(w, stats)
}
