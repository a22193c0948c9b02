// Package chathttp exposes the chat pipeline over HTTP.
package chathttp

import (
	"log/slog"
	"net/http"
	"sync"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"sahtein/internal/domain"
	"sahtein/internal/usecase"
)

// maxMessageLength bounds user messages in runes.
const maxMessageLength = 500

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Message string `json:"message"`
	Debug   bool   `json:"debug"`
}

// ChatResponse is the JSON answer for one chat turn. Response carries
// ready-to-render HTML.
type ChatResponse struct {
	Response     string         `json:"response"`
	ScenarioID   int            `json:"scenario_id"`
	ScenarioName string         `json:"scenario_name"`
	UsedBase     string         `json:"used_base"`
	PrimaryURL   string         `json:"primary_url,omitempty"`
	Debug        map[string]any `json:"debug,omitempty"`
}

// StatusInfo reports component readiness and corpus sizes.
type StatusInfo struct {
	Status     string         `json:"status"`
	Components map[string]any `json:"components"`
	Stats      map[string]any `json:"stats"`
}

// StatusFunc supplies the current status snapshot.
type StatusFunc func() StatusInfo

// Handler serves the chat API.
type Handler struct {
	pipeline *usecase.Pipeline
	status   StatusFunc
	rate     rate.Limit
	burst    int
	logger   *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHandler wires the HTTP layer. ratePerSecond caps chat requests per
// client IP; bursts up to twice the rate are allowed.
func NewHandler(pipeline *usecase.Pipeline, status StatusFunc, ratePerSecond float64, logger *slog.Logger) *Handler {
	burst := int(2 * ratePerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Handler{
		pipeline: pipeline,
		status:   status,
		rate:     rate.Limit(ratePerSecond),
		burst:    burst,
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
	}
}

// allow rate-limits by client IP. A limiter is created on a client's first
// request and kept for the process lifetime.
func (h *Handler) allow(ip string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	limiter, ok := h.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(h.rate, h.burst)
		h.limiters[ip] = limiter
	}
	return limiter.Allow()
}

// RegisterRoutes mounts the API on an echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.POST("/chat", h.Chat)
	api.GET("/status", h.Status)
	e.GET("/health", h.Health)
}

// Chat answers one user message.
func (h *Handler) Chat(c echo.Context) error {
	if !h.allow(c.RealIP()) {
		h.logger.Warn("chat_rate_limited", slog.String("remote", c.RealIP()))
		return echo.NewHTTPError(http.StatusTooManyRequests, "trop de requêtes, réessayez dans un instant")
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "corps de requête invalide")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message vide")
	}
	if utf8.RuneCountInString(req.Message) > maxMessageLength {
		return echo.NewHTTPError(http.StatusBadRequest, "message trop long (500 caractères max)")
	}

	answer := h.pipeline.Process(c.Request().Context(), req.Message, req.Debug)

	return c.JSON(http.StatusOK, toChatResponse(answer))
}

// Status reports component readiness and corpus statistics.
func (h *Handler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status())
}

// Health is the liveness probe.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func toChatResponse(answer domain.ChatResponse) ChatResponse {
	return ChatResponse{
		Response:     answer.HTML,
		ScenarioID:   answer.ScenarioID,
		ScenarioName: answer.ScenarioName,
		UsedBase:     string(answer.UsedBase),
		PrimaryURL:   answer.PrimaryURL,
		Debug:        answer.Debug,
	}
}
