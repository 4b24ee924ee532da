package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"lg/vital-balance-go-api/internal/nutrition"
	"lg/vital-balance-go-api/internal/store"
)

// Handler holds shared dependencies (stores, engine, notifier, config) for all
// route handlers. It owns the per-user state the engine is fed from.
type Handler struct {
	records  store.RecordStore
	profiles store.ProfileStore
	users    store.UserStore
	engine   *nutrition.Engine
	notifier Notifier
	hub      *Hub // nil disables the websocket route

	openAIBaseURL string // Base URL for OpenAI API (overridable for tests)
	openAIModel   string
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// newRouter builds the engine with recovery and a token-redacting access log
// and registers every route on it.
func newRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{Formatter: accessLogFormatter}), gin.Recovery())
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)
	return router
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/records", h.getRecords)
	api.POST("/records", h.createRecord)
	api.DELETE("/records/:id", h.deleteRecord)
	api.GET("/summary", h.getSummary)
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.GET("/targets", h.getTargets)
	api.POST("/suggest", h.suggestIngredient)
	if h.hub != nil {
		router.GET(wsPath, h.authMiddleware(), h.realtime)
	}
}

// loadState fetches everything the engine needs for one user.
func (h *Handler) loadState(ctx context.Context, userID int) ([]nutrition.Record, nutrition.Profile, error) {
	records, err := h.records.Load(ctx, userID)
	if err != nil {
		return nil, nutrition.Profile{}, err
	}
	profile, err := h.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, nutrition.Profile{}, err
	}
	return records, profile, nil
}

// notify recomputes today's summary and hands ev to the notifier. Failures
// are logged; a mutation that already succeeded is never failed by this.
func (h *Handler) notify(ctx context.Context, userID int, ev Event) {
	if h.notifier == nil {
		return
	}
	if w, ok := h.notifier.(watcher); ok && !w.Watching(userID) {
		return
	}
	if ev.Level != LevelWarning {
		records, profile, err := h.loadState(ctx, userID)
		if err != nil {
			log.Printf("[notify] failed to load state for user %d: %v", userID, err)
		} else {
			summary := h.engine.Summarize(records, profile, nutrition.Selector{Period: nutrition.PeriodToday})
			ev.Summary = &summary
		}
	}
	h.notifier.Notify(userID, ev)
}
