package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pxsurvey/internal/cache"
	"pxsurvey/internal/config"
	"pxsurvey/internal/repository"
	"pxsurvey/internal/service"
	"pxsurvey/internal/transport/rest"
	"pxsurvey/internal/transport/ws"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories and caches
	formRepo := repository.NewFormRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	sessionCache := cache.NewSessionCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService()
	formSvc := service.NewFormService(formRepo)
	completion := service.NewCompletionService()
	submitSvc := service.NewSubmitService(repository.NewResponseSink(responseRepo))
	sessionSvc := service.NewSessionService(formSvc, sessionCache, completion, submitSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	submitSvc.SetBroadcaster(wsHub)
	sessionSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		FormService:    formSvc,
		SessionService: sessionSvc,
		ResponseRepo:   responseRepo,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/sessions")
		log.Println("  GET  /v1/sessions/current")
		log.Println("  POST /v1/sessions/begin")
		log.Println("  POST /v1/sessions/section/{sectionId}")
		log.Println("  PUT  /v1/sessions/answers")
		log.Println("  POST /v1/sessions/complete")
		log.Println("  POST /v1/sessions/next")
		log.Println("  POST /v1/sessions/previous")
		log.Println("  POST /v1/sessions/restart")
		log.Println("  POST/GET /v1/forms")
		log.Println("  GET  /v1/responses")
		log.Println("  WS   /v1/ws/sessions")
		log.Println("  WS   /v1/ws/monitor")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
