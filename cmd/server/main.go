package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aripbudiman/lingoecho/internal/config"
	"github.com/aripbudiman/lingoecho/internal/database"
	"github.com/aripbudiman/lingoecho/internal/events"
	"github.com/aripbudiman/lingoecho/internal/genai"
	"github.com/aripbudiman/lingoecho/internal/handlers"
	"github.com/aripbudiman/lingoecho/internal/metrics"
	"github.com/aripbudiman/lingoecho/internal/repository"
	"github.com/aripbudiman/lingoecho/internal/security"
	"github.com/aripbudiman/lingoecho/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

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
	userRepo := repository.NewUserRepository(db)
	chatRepo := repository.NewChatRepository(db)
	scoreRepo := repository.NewScoreRepository(db)

	// Change notifications for the live streams
	broker := events.NewBroker()

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Gemini client for translation and exercise generation
	generator, err := genai.NewClient(genai.Config{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GenerationTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, broker, cfg.SessionDuration)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	translateService := service.NewTranslateService(generator, chatRepo, broker, collector)
	quizService := service.NewQuizService(generator, scoreRepo, broker, collector, cfg.QuizQuestionCount)
	matchingService := service.NewMatchingService(generator, collector, cfg.MatchingPairCount)
	progressService := service.NewProgressService(scoreRepo)

	// Security pieces
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	streamTokens := security.NewStreamTokenIssuer(cfg.StreamTokenSecret, cfg.StreamTokenTTL)
	limiter := security.NewRateLimiter(60, time.Minute, 10)

	done := make(chan struct{})
	defer close(done)
	limiter.StartCleanup(done)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": handlers.GoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret),
	}

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, streamTokens, csrf, limiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, streamTokens, csrf, oauthProviders, cfg.OAuthRedirectBaseURL)
	translateHandler := handlers.NewTranslateHandler(translateService)
	quizHandler := handlers.NewQuizHandler(quizService)
	matchingHandler := handlers.NewMatchingHandler(matchingService)
	progressHandler := handlers.NewProgressHandler(progressService)
	streamHandler := handlers.NewStreamHandler(broker, translateService, progressService, collector)

	// Setup routes
	mux := http.NewServeMux()

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/auth/logout", middleware.RequireAuth(authHandler.Logout))
	mux.HandleFunc("GET /api/auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("GET /api/auth/csrf", middleware.RequireAuth(authHandler.CSRFToken))
	mux.HandleFunc("GET /api/auth/stream-token", middleware.RequireAuth(authHandler.StreamToken))
	mux.HandleFunc("POST /api/auth/forgot-password", middleware.RateLimit(authHandler.ForgotPassword))
	mux.HandleFunc("POST /api/auth/reset-password", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Translation and chat history routes
	mux.HandleFunc("POST /api/translate", middleware.RequireAuth(middleware.CSRFProtect(translateHandler.Translate)))
	mux.HandleFunc("GET /api/sessions", middleware.RequireAuth(translateHandler.ListSessions))
	mux.HandleFunc("GET /api/sessions/{id}/messages", middleware.RequireAuth(translateHandler.ListMessages))

	// Quiz routes
	mux.HandleFunc("POST /api/quiz/start", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.Start)))
	mux.HandleFunc("GET /api/quiz", middleware.RequireAuth(quizHandler.Get))
	mux.HandleFunc("POST /api/quiz/answer", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.Answer)))
	mux.HandleFunc("POST /api/quiz/finish", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.Finish)))
	mux.HandleFunc("POST /api/quiz/reset", middleware.RequireAuth(middleware.CSRFProtect(quizHandler.Reset)))

	// Matching game routes
	mux.HandleFunc("POST /api/matching/start", middleware.RequireAuth(middleware.CSRFProtect(matchingHandler.Start)))
	mux.HandleFunc("GET /api/matching", middleware.RequireAuth(matchingHandler.Get))
	mux.HandleFunc("POST /api/matching/pick", middleware.RequireAuth(middleware.CSRFProtect(matchingHandler.Pick)))
	mux.HandleFunc("POST /api/matching/reset", middleware.RequireAuth(middleware.CSRFProtect(matchingHandler.Reset)))

	// Progress routes
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(progressHandler.Summary))
	mux.HandleFunc("GET /api/scores", middleware.RequireAuth(progressHandler.Scores))

	// Live streams
	mux.HandleFunc("GET /api/stream/sessions", middleware.RequireStreamAuth(streamHandler.Sessions))
	mux.HandleFunc("GET /api/stream/sessions/{id}/messages", middleware.RequireStreamAuth(streamHandler.Messages))
	mux.HandleFunc("GET /api/stream/scores", middleware.RequireStreamAuth(streamHandler.Scores))

	// Metrics
	mux.Handle("GET /metrics", metrics.Handler(registry))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server. No WriteTimeout: the SSE streams stay open until the
	// client disconnects.
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
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

// cleanupExpiredSessions periodically removes expired sessions
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
	}
}
