package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paperless-annotator/internal/config"
	"paperless-annotator/internal/handler"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container := config.NewContainer()

	// Handlers
	catalogHandler := handler.NewCatalogHandler(container.Catalog, container.Logger)
	sessionHandler := handler.NewSessionHandler(container.Sessions, container.Logger)
	exportHandler := handler.NewExportHandler(container.Exporter, container.ArchiveExports, container.Logger)

	// Router
	router := handler.NewRouter(
		catalogHandler,
		sessionHandler,
		exportHandler,
		container.Config.GetAllowedOrigins(),
		container.Logger,
	)

	server := &http.Server{
		Addr:              ":" + container.Config.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Session expiry
	expiryCtx, stopExpiry := context.WithCancel(context.Background())
	defer stopExpiry()
	if container.ExpireSessions != nil {
		go container.ExpireSessions(expiryCtx)
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()
	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		container.Logger.Error("Graceful shutdown failed", err)
		_ = server.Close()
	}

	container.Logger.Info("Server exited")
}
