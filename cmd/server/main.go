// Command server runs the culinary chat API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"sahtein/internal/adapter/chathttp"
	"sahtein/internal/app"
	"sahtein/internal/infra/config"
	"sahtein/internal/infra/logger"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid_configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup_failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	handler := chathttp.NewHandler(a.Pipeline, statusFunc(a), cfg.ChatRateLimit, log)
	handler.RegisterRoutes(e)

	go func() {
		log.Info("server_listening", slog.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown_failed", slog.String("error", err.Error()))
	}
}

func statusFunc(a *app.App) chathttp.StatusFunc {
	return func() chathttp.StatusInfo {
		return chathttp.StatusInfo{
			Status: "ok",
			Components: map[string]any{
				"content_index": a.ContentIndex.Len() > 0,
				"link_index":    a.LinkIndex.Len() > 0,
				"llm_provider":  a.Config.LLMProvider,
			},
			Stats: map[string]any{
				"indexed_documents": a.ContentIndex.Len(),
				"indexed_articles":  a.LinkIndex.Len(),
			},
		}
	}
}
