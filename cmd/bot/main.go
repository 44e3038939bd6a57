package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/semaphore"

	"thumbstudio-ai/internal/config"
	"thumbstudio-ai/internal/gemini"
	"thumbstudio-ai/internal/handlers"
	"thumbstudio-ai/internal/httpclient"
	"thumbstudio-ai/internal/mediagroup"
	"thumbstudio-ai/internal/session"
	"thumbstudio-ai/internal/studio"
	"thumbstudio-ai/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if cfg.TelegramToken == "" {
		panic("TELEGRAM_BOT_TOKEN is required for the bot surface")
	}

	logger := newLogger(cfg)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		HTTPClient: httpClient,
		Logger:     logger,
		Debug:      cfg.Debug,
	})
	if err != nil {
		logger.Error("telegram init failed", "err", err)
		os.Exit(1)
	}

	gem := gemini.New(gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		APIVersion: cfg.GeminiAPIVersion,
		ImageModel: cfg.ImageModel,
		TextModel:  cfg.TextModel,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	st, err := studio.New(studio.Options{
		Client:           gem,
		Logger:           logger,
		GenerateInterval: cfg.GenerateInterval,
	})
	if err != nil {
		logger.Error("studio init failed", "err", err)
		os.Exit(1)
	}

	handler := handlers.New(handlers.Options{
		Telegram: tg,
		Studio:   st,
		Drafts:   session.NewStore(),
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sem := semaphore.NewWeighted(int64(cfg.MaxConcurrent))

	onAlbumFlush := func(album mediagroup.Album) {
		if err := sem.Acquire(ctx, 1); err != nil {
			return
		}

		go func() {
			defer sem.Release(1)

			reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
			defer cancel()

			handler.HandleAlbum(reqCtx, album)
		}()
	}

	aggregator := mediagroup.New(mediagroup.Options{
		Debounce: cfg.MediaGroupDebounce,
		OnFlush:  onAlbumFlush,
	})
	handler.SetMediaGroupAggregator(aggregator)

	logger.Info("bot started", "username", tg.Username())

	updates := tg.Updates(telegram.UpdatesOptions{
		Timeout: 30 * time.Second,
	})
	defer tg.StopUpdates()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return
			}

			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}

			go func(update telegram.Update) {
				defer sem.Release(1)

				reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()

				if err := handler.HandleUpdate(reqCtx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", "err", err)
				}
			}(update)
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
