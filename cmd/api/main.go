package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/chachabrian/parcel-backend/internal/auth"
	"github.com/chachabrian/parcel-backend/internal/config"
	"github.com/chachabrian/parcel-backend/internal/database"
	"github.com/chachabrian/parcel-backend/internal/handlers"
	"github.com/chachabrian/parcel-backend/internal/router"
	"github.com/chachabrian/parcel-backend/internal/services"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := database.InitDB(connectCtx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTransactions)
	if err != nil {
		connectCancel()
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := store.EnsureIndexes(connectCtx); err != nil {
		log.Printf("Warning: failed to ensure indexes: %v", err)
	}
	connectCancel()
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Initialize Firebase (optional when an RSA public key is configured)
	var app *firebase.App
	if cfg.FirebaseServiceAccountPath != "" {
		app, err = services.InitFirebase(ctx, cfg.FirebaseServiceAccountPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
	} else {
		log.Println("Warning: FIREBASE_SERVICE_ACCOUNT_PATH not set. Push notifications will be disabled.")
	}

	verifier, err := newVerifier(ctx, app, cfg.AuthPublicKeyPath)
	if err != nil {
		log.Fatalf("Failed to initialize token verifier: %v", err)
	}

	var gateway services.PaymentGateway = services.DisabledGateway{}
	if cfg.StripeSecretKey != "" {
		breaker := config.NewCircuitBreaker("payment-provider", 30*time.Second)
		gateway = services.NewBreakerGateway(services.NewStripeGateway(cfg.StripeSecretKey, cfg.PaymentCurrency), breaker)
	} else {
		log.Println("Warning: STRIPE_SECRET_KEY not set, payment intents are disabled")
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run(ctx)

	checks := map[string]handlers.HealthCheck{
		"database": store.Ping,
	}

	var publisher services.EventPublisher = services.NewLocalPublisher(hub)
	if cfg.RedisURL != "" {
		rdb, err := services.InitRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
		defer rdb.Close()

		publisher = services.NewRedisPublisher(rdb)
		go services.RelayParcelEvents(ctx, rdb, hub)
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
		log.Println("Redis connected, parcel events fan out over pub/sub")
	}

	if app != nil {
		push, err := services.NewPushPublisher(ctx, app)
		if err != nil {
			log.Printf("Firebase messaging warning: %v", err)
		} else {
			publisher = services.MultiPublisher{publisher, push}
		}
	}

	// Initialize Storage (S3 or local fallback)
	var storage services.ImageStorage
	uploadDir := ""
	if cfg.S3Enabled() {
		storage, err = services.NewS3Storage(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSBucket)
	} else {
		log.Println("AWS credentials not found, using local storage")
		var local *services.LocalStorage
		local, err = services.NewLocalStorage(cfg.UploadDir, cfg.BaseURL)
		if err == nil {
			storage = local
			uploadDir = local.Dir()
		}
	}
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	r := router.New(router.Deps{
		Store:        store,
		Verifier:     verifier,
		Gateway:      gateway,
		Publisher:    publisher,
		Hub:          hub,
		Storage:      storage,
		UploadDir:    uploadDir,
		HealthChecks: checks,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down server...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// newVerifier prefers the identity provider and falls back to a self-hosted
// RSA public key.
func newVerifier(ctx context.Context, app *firebase.App, publicKeyPath string) (auth.Verifier, error) {
	switch {
	case app != nil:
		return auth.NewFirebaseVerifier(ctx, app)
	case publicKeyPath != "":
		log.Println("Firebase not configured, verifying RS256 tokens with AUTH_PUBLIC_KEY_PATH")
		return auth.LoadJWTVerifier(publicKeyPath)
	default:
		return nil, errors.New("either FIREBASE_SERVICE_ACCOUNT_PATH or AUTH_PUBLIC_KEY_PATH must be set")
	}
}
