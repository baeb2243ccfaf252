package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lankalotto/ticket-validator/api/routes"
	"github.com/lankalotto/ticket-validator/internal/config"
	"github.com/lankalotto/ticket-validator/internal/handlers"
	"github.com/lankalotto/ticket-validator/internal/logging"
	"github.com/lankalotto/ticket-validator/internal/metrics"
	"github.com/lankalotto/ticket-validator/internal/repositories"
	"github.com/lankalotto/ticket-validator/internal/repositories/memory"
	mongorepo "github.com/lankalotto/ticket-validator/internal/repositories/mongodb"
	"github.com/lankalotto/ticket-validator/internal/services"
	"github.com/lankalotto/ticket-validator/pkg/extraction"
	mongodb "github.com/lankalotto/ticket-validator/pkg/mongodb"
	"github.com/lankalotto/ticket-validator/pkg/nlbresults"
	"github.com/lankalotto/ticket-validator/pkg/qrcode"
	"golang.org/x/exp/slog"
)

func main() {
	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.New(cfg.LogLevel)

	var prizeRules repositories.PrizeRuleRepository
	if cfg.MongoDB.URI != "" {
		mongoClient, err := mongodb.NewClient(context.Background(), cfg.MongoDB.URI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoClient.Disconnect(ctx); err != nil {
				slog.Error("Error disconnecting from MongoDB", "error", err)
			}
		}()
		db := mongoClient.Database(cfg.MongoDB.Database)
		prizeRules = mongorepo.NewPrizeRuleRepository(db, cfg.MongoDB.PrizeCollection)
		slog.Info("Using MongoDB prize rules", "database", cfg.MongoDB.Database, "collection", cfg.MongoDB.PrizeCollection)
	} else {
		prizeRules = memory.NewDefaultPrizeRuleRepository()
		slog.Warn("No MongoDB URI configured, using built-in prize tables")
	}

	keys := extraction.NewKeyRing(cfg.Extraction.APIKeys)
	if keys.Len() == 0 {
		slog.Warn("No extraction API keys configured; QR fallback and face reading will fail")
	}
	keys.OnRotate(func(from, to int) {
		metrics.RecordKeyRotation()
		slog.Warn("Switched extraction API key", "from", from, "to", to)
	})
	extractor := extraction.NewClient(extraction.Config{
		BaseURL:        cfg.Extraction.BaseURL,
		Model:          cfg.Extraction.Model,
		Timeout:        cfg.Extraction.Timeout,
		MaxRetries:     cfg.Extraction.MaxRetries,
		InitialBackoff: cfg.Extraction.InitialBackoff,
	}, keys)

	var winningNumbers services.WinningNumberSource
	switch cfg.Results.Driver {
	case config.DriverBrowser:
		winningNumbers = nlbresults.NewBrowserSource(cfg.Results.BaseURL, cfg.Results.WaitTimeout, cfg.Results.ChromePath)
	default:
		winningNumbers = nlbresults.NewHTTPSource(cfg.Results.BaseURL, cfg.Results.WaitTimeout)
	}

	cache := services.NewResultCache(cfg.Cache.TTL)
	defer cache.Close()

	ticketService := services.NewTicketService(
		services.NewImageDecoder(qrcode.NewScanner(), extractor),
		extractor,
		winningNumbers,
		services.NewPrizeEngine(prizeRules),
		cache,
		cfg.Pipeline.MaxConcurrent,
	)

	handlerDeps := routes.HandlerDependencies{
		TicketHandler: handlers.NewTicketHandler(ticketService, cfg.Server.MaxUploadBytes),
	}
	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	slog.Info("Server starting", "port", cfg.Server.Port, "results_driver", cfg.Results.Driver, "extraction_keys", keys.Len())

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}
