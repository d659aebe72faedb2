package main

import (
	"context"
	"log"

	"personachat/internal/api"
	"personachat/internal/config"
	"personachat/internal/persona"
	"personachat/internal/ratelimit"
	"personachat/internal/redis"
	"personachat/internal/service/ai"
	"personachat/internal/service/chat"
	"personachat/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	personaCtx, err := persona.Load(cfg.PersonaPath)
	if err != nil {
		log.Fatalf("load persona: %v", err)
	}

	// The counter store is optional: without it the limiter fails open and
	// every request is allowed.
	var store ratelimit.CounterStore
	rdb, err := redis.NewClient(cfg)
	if err != nil {
		log.Printf("redis unavailable, rate limiting disabled: %v", err)
	} else {
		defer rdb.Close()
		store = rdb
	}
	limiter := ratelimit.NewLimiter(store)

	completer, err := ai.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init completion client: %v", err)
	}
	orchestrator := chat.NewOrchestrator(completer, personaCtx, cfg)

	dispatcher := worker.NewDispatcher(worker.Config{
		MinWorkers:        cfg.MinWorkers,
		MaxWorkers:        cfg.MaxWorkers,
		QueueSize:         cfg.QueueSize,
		WorkerIdleTimeout: cfg.WorkerIdleTimeout,
	})

	handlers := api.NewHandler(orchestrator, limiter, dispatcher, cfg.Production())

	router := gin.Default()
	handlers.RegisterRoutes(router)

	if err := router.Run(cfg.ServerAddress); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
