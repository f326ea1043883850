package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fhamyla/LexiLearn/internal/config"
	"github.com/fhamyla/LexiLearn/internal/database"
	"github.com/fhamyla/LexiLearn/internal/handlers"
	"github.com/fhamyla/LexiLearn/internal/models"
	"github.com/fhamyla/LexiLearn/internal/repository"
	"github.com/fhamyla/LexiLearn/internal/security"
	"github.com/fhamyla/LexiLearn/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	levelRepo := repository.NewLevelRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	// Seed default levels
	if err := levelRepo.SeedDefaults(); err != nil {
		log.Fatalf("Failed to seed default levels: %v", err)
	}

	// Initialize services
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	credentials := service.NewLocalCredentialProvider(credentialRepo)
	accountService := service.NewAccountService(accountRepo, otpRepo, credentials, progressRepo, emailService)
	defer accountService.Close()
	progressService := service.NewProgressService(levelRepo, progressRepo)

	// Seed the admin account from config
	if err := seedAdminAccount(cfg, accountRepo, credentials); err != nil {
		log.Printf("Warning: Failed to seed admin account: %v", err)
	}

	// Initialize handlers
	tokens := security.NewTokenManager(cfg.TokenSecret, cfg.TokenLifetime)
	limiter := security.NewRateLimiter(30, time.Minute)
	middleware := handlers.NewMiddleware(tokens, accountRepo, limiter)
	oauth := handlers.NewGoogleOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBaseURL)
	authHandler := handlers.NewAuthHandler(accountService, tokens, oauth)
	adminHandler := handlers.NewAdminHandler(accountService, accountRepo)
	learningHandler := handlers.NewLearningHandler(progressService, accountRepo)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/auth/signup", middleware.RateLimit(authHandler.SignUp))
	mux.HandleFunc("POST /api/auth/otp/send", middleware.RateLimit(authHandler.SendOTP))
	mux.HandleFunc("POST /api/auth/otp/verify", middleware.RateLimit(authHandler.VerifyOTP))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.SignIn))
	mux.HandleFunc("GET /auth/google/start", authHandler.StartGoogleOAuth)
	mux.HandleFunc("GET /auth/google/callback", authHandler.GoogleOAuthCallback)

	// Guardian practice routes
	mux.HandleFunc("GET /api/levels/reading", middleware.RequireAuth(learningHandler.ReadingLevels))
	mux.HandleFunc("GET /api/levels/writing", middleware.RequireAuth(learningHandler.WritingLevels))
	mux.HandleFunc("POST /api/practice/reading", middleware.RequireRole(models.RoleGuardian, learningHandler.SubmitReading))
	mux.HandleFunc("POST /api/practice/writing", middleware.RequireRole(models.RoleGuardian, learningHandler.SubmitWriting))
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(learningHandler.MyProgress))

	// Teacher routes
	mux.HandleFunc("GET /api/students", middleware.RequireRole(models.RoleTeacher, learningHandler.ListStudents))
	mux.HandleFunc("GET /api/students/{email}/progress", middleware.RequireRole(models.RoleTeacher, learningHandler.StudentProgress))

	// Admin routes
	mux.HandleFunc("GET /api/admin/accounts", middleware.RequireRole(models.RoleAdmin, adminHandler.ListAccounts))
	mux.HandleFunc("GET /api/admin/teachers/pending", middleware.RequireRole(models.RoleAdmin, adminHandler.ListPendingTeachers))
	mux.HandleFunc("POST /api/admin/teachers/approve", middleware.RequireRole(models.RoleAdmin, adminHandler.ApproveTeacher))
	mux.HandleFunc("POST /api/admin/accounts/delete", middleware.RequireRole(models.RoleAdmin, adminHandler.DeleteAccount))
	mux.HandleFunc("POST /api/admin/sweep", middleware.RequireRole(models.RoleAdmin, adminHandler.RunSweep))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the background reconcile sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go runSweep(sweepCtx, accountService, cfg.SweepInterval)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// runSweep periodically reconciles timed account work: purging stale
// unverified accounts and erasing accounts whose scheduled deletion is due
func runSweep(ctx context.Context, accountService *service.AccountService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, deleted, err := accountService.Reconcile(ctx)
			if err != nil {
				log.Printf("Sweep failed: %v", err)
				continue
			}
			if purged > 0 || deleted > 0 {
				log.Printf("Sweep done: purged=%d deleted=%d", purged, deleted)
			}
		}
	}
}

// seedAdminAccount creates the configured admin account if it doesn't exist
func seedAdminAccount(cfg *config.Config, accountRepo *repository.AccountRepository, credentials service.CredentialProvider) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("Admin account not configured, skipping seed")
		return nil
	}

	existing, err := accountRepo.GetByEmail(cfg.AdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	now := time.Now()
	account := &models.Account{
		Email:         cfg.AdminEmail,
		Role:          models.RoleAdmin,
		Status:        models.StatusActive,
		EmailVerified: true,
		FirstName:     "Admin",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := accountRepo.Create(account); err != nil {
		return err
	}
	if err := credentials.Create(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	log.Printf("Admin account seeded: %s", cfg.AdminEmail)
	return nil
}
