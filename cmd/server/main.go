// Package main is the entry point for the chat game backend server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chat-game-backend/internal/config"
	"chat-game-backend/internal/game"
	"chat-game-backend/internal/game/dice"
	"chat-game-backend/internal/game/number"
	"chat-game-backend/internal/game/quiz"
	"chat-game-backend/internal/game/slots"
	"chat-game-backend/internal/handler"
	"chat-game-backend/internal/notify"
	"chat-game-backend/internal/pkg/db"
	"chat-game-backend/internal/pkg/kv"
	"chat-game-backend/internal/pkg/lock"
	"chat-game-backend/internal/repository"
	"chat-game-backend/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the record store
	store, err := kv.NewRedisStore(ctx, kv.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer store.Close()

	// Connect to the transaction history database
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Outbound notifications; disabled without a bot token
	var notifier notify.Notifier = notify.Nop{}
	if cfg.Bot.Token != "" {
		telegram, err := notify.NewTelegram(cfg.Bot.Token)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create telegram notifier")
		}
		notifier = telegram
		log.Info().Msg("Telegram notifier enabled")
	}

	// Repositories
	users := repository.NewUserStore(store)
	sessions := repository.NewSessionStore(store)
	dailyStore := repository.NewDailyStore(store)
	history := repository.NewHistoryRepository(dbPool.Pool)

	// Services
	userLock := lock.NewUserLock()
	ledger := service.NewLedgerService(users, history, cfg.Ledger.StartingCredits)
	dailyService := service.NewDailyService(ledger, dailyStore, userLock, cfg.Daily.Reward, cfg.Daily.PremiumReward)
	adminService := service.NewAdminService(ledger, userLock, notifier, cfg.Admin.IDs)
	premiumService := service.NewPremiumService(ledger, userLock, notifier)

	// Game registry
	registry := game.NewRegistry()
	for _, v := range []game.Variant{
		dice.New(&dice.Config{Fee: cfg.Games.DiceFee}),
		number.New(&number.Config{Fee: cfg.Games.NumberFee}),
		quiz.New(&quiz.Config{Fee: cfg.Games.QuizFee}),
	} {
		if err := registry.Register(v); err != nil {
			log.Fatal().Err(err).Str("name", v.Name()).Msg("Failed to register game")
		}
	}
	slotsGame := slots.New(&slots.Config{Fee: cfg.Games.SlotsFee})

	engine := game.NewEngine(
		registry,
		slotsGame,
		ledger,
		sessions,
		userLock,
		func(err error) bool { return errors.Is(err, repository.ErrSessionNotFound) },
		nil,
	)

	log.Info().Int("game_count", registry.Count()+1).Msg("Games registered")

	h := handler.NewHandler(ledger, engine, dailyService, adminService, premiumService, history)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      h.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server is starting...")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete cleanly")
	}
	log.Info().Msg("Server stopped gracefully")
}

// runMigrations creates the transaction history schema.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_transactions_type_time ON transactions(type, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: transactions table created")

	return nil
}
