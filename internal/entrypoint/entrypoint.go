// Package entrypoint wires the configured backend, OCR engine and HTTP
// router together and runs the server.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/galmuri/galmuri/internal/auth"
	"github.com/galmuri/galmuri/internal/capture"
	"github.com/galmuri/galmuri/internal/config"
	"github.com/galmuri/galmuri/internal/database"
	"github.com/galmuri/galmuri/internal/database/postgres"
	"github.com/galmuri/galmuri/internal/database/sqlite"
	http_controllers "github.com/galmuri/galmuri/internal/http"
	"github.com/galmuri/galmuri/internal/ocr"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// OpenRepository selects the storage backend once at boot. The variant
// set is closed; everything downstream only sees the contract.
func OpenRepository(cfg config.Database) (database.ItemRepository, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return sqlite.New(cfg.Path)
	case config.BackendPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("DATABASE_DSN is required for the postgres backend")
		}
		return postgres.New(cfg)
	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.Backend)
	}
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Galmuri v%s", version)

	repo, err := OpenRepository(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("Error closing storage backend: %v", err)
		}
	}()
	log.Printf("Storage backend: %s", cfg.Database.Backend)

	engine, err := ocr.NewEngine(cfg.OCR)
	if err != nil {
		log.Fatalf("Failed to initialize OCR engine: %v", err)
	}
	log.Printf("OCR engine: %s", cfg.OCR.Engine)

	service := capture.NewService(repo, engine, cfg.OCR.MaxInFlight)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Service:        service,
		AuthMiddleware: auth.NewMiddleware(cfg.Auth),
		CORS:           cfg.CORS,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		if !service.Drain(ctx) {
			log.Printf("Shutdown: OCR tasks still in flight, giving up on them")
		}
	}

	Serve(router, cfg, onShutdown)
}

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Drain background work before closing the listener's resources.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}
