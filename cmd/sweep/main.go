// Command sweep runs one reconcile pass over timed account work and exits.
// It covers deployments where the API server is not running continuously,
// such as cron-driven environments.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/fhamyla/LexiLearn/internal/config"
	"github.com/fhamyla/LexiLearn/internal/database"
	"github.com/fhamyla/LexiLearn/internal/repository"
	"github.com/fhamyla/LexiLearn/internal/service"
)

func main() {
	timeout := flag.Duration("timeout", time.Minute, "Abort the sweep after this long")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	accountRepo := repository.NewAccountRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// The sweep never sends mail, so the disabled email service is enough
	emailService, err := service.NewEmailService("", "", "", "", false)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	credentials := service.NewLocalCredentialProvider(credentialRepo)
	accountService := service.NewAccountService(accountRepo, otpRepo, credentials, progressRepo, emailService)
	defer accountService.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	purged, deleted, err := accountService.Reconcile(ctx)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	log.Printf("Sweep done in %s: purged=%d deleted=%d", time.Since(start), purged, deleted)
}
