package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/FixerMob/Protocol-Service/internal/api"
	"github.com/FixerMob/Protocol-Service/internal/api/handlers"
	"github.com/FixerMob/Protocol-Service/internal/configuration"
	"github.com/FixerMob/Protocol-Service/internal/services"
	"github.com/FixerMob/Protocol-Service/internal/storage"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := configuration.Load()

	ledger, err := newLedger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize ledger: %v", err)
	}

	fileStore, err := services.NewFileStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	renderer, err := services.NewPDFRenderer(cfg.Storage.ProtocolDir)
	if err != nil {
		log.Fatalf("Failed to initialize PDF renderer: %v", err)
	}

	// Optional collaborators: the service runs fine without any of them.
	var archive *services.MinioService
	if cfg.MinIO.Endpoint != "" {
		archive, err = services.NewMinioService(
			cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey,
			cfg.MinIO.BucketName, cfg.MinIO.UseSSL)
		if err != nil {
			log.Printf("Warning: MinIO archive unavailable: %v", err)
			archive = nil
		}
	}

	var events *services.EventPublisher
	if cfg.NATSURL != "" {
		events, err = services.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Printf("Warning: NATS unavailable: %v", err)
			events = nil
		}
	}

	var scanner *services.Scanner
	if cfg.CLAMAVURL != "" {
		scanner = services.NewScanner(cfg.CLAMAVURL)
	}

	service := services.NewProtocolService(ledger, fileStore, renderer, archive, events, scanner)

	setupGracefulShutdown(events)

	r := gin.Default()
	api.RegisterRoutes(r, handlers.NewProtocolHandlers(service))

	log.Printf("Server starting on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newLedger(cfg *configuration.Config) (storage.Ledger, error) {
	switch cfg.Ledger.Backend {
	case "postgres":
		return storage.NewPostgresLedger(cfg.Ledger.Database.ConnectionString())
	case "json", "":
		return storage.NewLocalLedger(cfg.Ledger.Path), nil
	case "memory":
		return storage.NewMemoryLedger(), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend: %q", cfg.Ledger.Backend)
	}
}

func setupGracefulShutdown(events *services.EventPublisher) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Shutting down gracefully...")
		// The ledger is rewritten on every mutation, so there is nothing
		// left to flush besides the NATS connection.
		if events != nil {
			events.Close()
		}
		os.Exit(0)
	}()
}
