// Package handler exposes the backend over HTTP: a JSON API for game,
// ledger, and admin operations, plus the chat webhook that drives the
// same services from bot commands.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"chat-game-backend/internal/game"
	"chat-game-backend/internal/model"
	"chat-game-backend/internal/repository"
	"chat-game-backend/internal/service"
)

// HistoryReader lists a user's transaction history. Nil disables the
// history endpoint.
type HistoryReader interface {
	ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Transaction, error)
}

// Handler provides the HTTP handlers for the backend API.
type Handler struct {
	ledger  *service.LedgerService
	engine  *game.Engine
	daily   *service.DailyService
	admin   *service.AdminService
	premium *service.PremiumService
	history HistoryReader
}

// NewHandler creates a new Handler instance.
func NewHandler(
	ledger *service.LedgerService,
	engine *game.Engine,
	daily *service.DailyService,
	admin *service.AdminService,
	premium *service.PremiumService,
	history HistoryReader,
) *Handler {
	return &Handler{
		ledger:  ledger,
		engine:  engine,
		daily:   daily,
		admin:   admin,
		premium: premium,
		history: history,
	}
}

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)

	r.Post("/webhook", h.Webhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", h.RegisterUser)
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", h.GetUser)
			r.Get("/session", h.GetSession)
			r.Get("/transactions", h.GetTransactions)
		})

		r.Get("/games", h.ListGames)
		r.Post("/games/{kind}/enter", h.EnterGame)
		r.Post("/games/{kind}/guess", h.Guess)

		r.Post("/daily/claim", h.ClaimDaily)

		r.Post("/premium/checkout", h.CreateCheckout)
		r.Post("/premium/activate", h.ActivatePremium)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/credits/add", h.AdminAddCredits)
			r.Post("/credits/remove", h.AdminRemoveCredits)
			r.Post("/premium/grant", h.AdminGrantPremium)
			r.Post("/premium/revoke", h.AdminRevokePremium)
			r.Get("/stats", h.AdminStats)
		})
	})

	return r
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

// writeError maps a service error to its HTTP status. Unrecognized
// errors are logged and reported as an opaque 500: upstream store
// failures must not leak connection details to clients.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
		err = errors.New("internal error")
	}
	h.writeJSON(w, status, APIResponse{Success: false, Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, game.ErrNoActiveGame):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidGuess),
		errors.Is(err, game.ErrUnknownGame),
		errors.Is(err, service.ErrInvalidTier),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInsufficientCredits):
		return http.StatusPaymentRequired
	case errors.Is(err, game.ErrPremiumRequired),
		errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrDailyAlreadyClaimed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("invalid request body")

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadRequest
	}
	return nil
}
