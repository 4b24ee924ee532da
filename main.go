package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"lg/vital-balance-go-api/internal/nutrition"
	"lg/vital-balance-go-api/internal/store"
)

func main() {
	log.SetPrefix("lg/vital-balance-go-api: ")
	log.SetFlags(0)

	// .env is optional in deployed environments where vars are set directly
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}

	cfg := loadConfig()

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		log.Fatalf("invalid TZ_NAME %q: %v", cfg.TimeZone, err)
	}

	ctx := context.Background()
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.Store.Backend, err)
	}
	defer s.Close()

	h := &Handler{
		records:       s,
		profiles:      s,
		users:         s,
		engine:        nutrition.NewEngine(loc, nil),
		openAIBaseURL: cfg.OpenAIBaseURL,
		openAIModel:   cfg.OpenAIModel,
	}
	if cfg.Realtime {
		h.hub = NewHub()
		h.notifier = h.hub
	}

	router := newRouter(h)

	log.Printf("Starting gin app on :%s (store=%s, tz=%s)", cfg.Port, cfg.Store.Backend, loc)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
