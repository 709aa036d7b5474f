// File: app/app.go
package app

import (
	"context"
	"finease-api/config"
	"finease-api/db"
	"finease-api/handler"
	"finease-api/logger"
	"finease-api/repository"
	"finease-api/router"
	"finease-api/service"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// NewHandler wires the repository through the service and handlers into the router.
func NewHandler(repo repository.ITransactionRepository, readiness handler.ReadinessChecker) http.Handler {
	transactionService := service.NewTransactionService(repo)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	healthHandler := handler.NewHealthHandler(readiness)

	return router.NewRouter(transactionHandler, healthHandler, readiness)
}

func Run() {
	logger.Init()
	if err := config.LoadConfig("."); err != nil {
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}
	cfg := config.AppConfig
	logger.SetLevel(cfg.Log.Level)
	logger.Log.Info("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	readiness := db.NewReadiness()

	// A failed connection is not fatal: the server keeps listening and the
	// readiness gate answers 503 until the database is reachable.
	client, err := db.NewClient(cfg)
	if err != nil {
		logger.Log.WithError(err).Error("Connection error, data routes will stay unavailable")
	}

	var coll *mongo.Collection
	if client != nil {
		coll = client.Database(cfg.Database.Name).Collection(db.TransactionsCollection)
		startMonitor(ctx, client, readiness, cfg)
		defer disconnect(client)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: NewHandler(repository.NewTransactionRepository(coll), readiness),
	}

	go func() {
		logger.Log.Infof("Server is running on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// startMonitor pings once synchronously, then keeps readiness current in the
// background. Migrations run the first time the database becomes reachable.
func startMonitor(ctx context.Context, client *mongo.Client, readiness *db.Readiness, cfg config.Config) {
	var migrateOnce sync.Once
	onReady := func() {
		if !cfg.Database.Migrate {
			return
		}
		migrateOnce.Do(func() {
			if err := db.Migrate(client, cfg.Database.Name); err != nil {
				logger.Log.WithError(err).Error("Failed to apply database migrations")
			}
		})
	}

	if err := db.Ping(client, cfg.Database.ConnectTimeout); err != nil {
		logger.Log.WithError(err).Error("Connection error, requests will get 503 until the database answers")
	} else {
		readiness.Set(true)
		logger.Log.Info("Database connection established successfully")
		onReady()
	}

	go db.Monitor(ctx, client, readiness, cfg.Database.PingInterval, cfg.Database.ConnectTimeout, onReady)
}

func disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logger.Log.WithError(err).Error("Failed to disconnect from the database")
		return
	}
	logger.Log.Info("Database connection closed")
}
