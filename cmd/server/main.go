package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"heartline/internal/auth"
	"heartline/internal/capabilities"
	"heartline/internal/config"
	"heartline/internal/handler"
	"heartline/internal/middleware"
	"heartline/internal/ratelimit"
	"heartline/internal/repository/postgres"
	postgresAI "heartline/internal/repository/postgres/ai"
	postgresCRM "heartline/internal/repository/postgres/crm"
	aisvc "heartline/internal/service/ai"
	"heartline/internal/service/ai/anthropic"
	"heartline/internal/service/conversation"
	crmsvc "heartline/internal/service/crm"
)

func main() {
	// Load .env if present; production runs on real env vars.
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}
	logOut := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
	)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.AuthJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	limiter, err := ratelimit.NewRedisLimiter(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	if err != nil {
		log.Fatalf("Failed to connect rate limiter: %v", err)
	}
	defer limiter.Close()

	// Repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	}
	txManager := postgres.NewTransactionManager(pool, logger)
	convRepo := postgresAI.NewConversationRepository(repoConfig)
	msgRepo := postgresAI.NewMessageRepository(repoConfig)
	personRepo := postgresCRM.NewPersonRepository(repoConfig)
	noteRepo := postgresCRM.NewNoteRepository(repoConfig)
	eventRepo := postgresCRM.NewEventRepository(repoConfig)
	gestureRepo := postgresCRM.NewGestureRepository(repoConfig)
	prefRepo := postgresCRM.NewPreferenceRepository(repoConfig)
	settingsRepo := postgresCRM.NewSettingsRepository(repoConfig)
	dashRepo := postgresCRM.NewDashboardRepository(repoConfig)

	// AI provider and capability registry
	provider, err := anthropic.NewProvider(cfg.AnthropicAPIKey)
	if err != nil {
		log.Fatalf("Failed to create AI provider: %v", err)
	}
	registry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}

	// Services
	chatService := aisvc.NewChatService(provider, registry, logger, cfg.DefaultModel, cfg.FallbackPrompt)
	convService := conversation.NewService(convRepo, msgRepo, txManager, chatService, logger)
	personService := crmsvc.NewPersonService(personRepo, logger)
	noteService := crmsvc.NewNoteService(noteRepo, personRepo, logger)
	eventService := crmsvc.NewEventService(eventRepo, personRepo, logger)
	gestureService := crmsvc.NewGestureService(gestureRepo, txManager, logger)
	templateService := crmsvc.NewTemplateService(gestureRepo, logger)
	prefService := crmsvc.NewPreferenceService(prefRepo, personRepo, logger)
	settingsService := crmsvc.NewSettingsService(settingsRepo, logger)
	dashboardService := crmsvc.NewDashboardService(dashRepo, personRepo, logger)

	logger.Info("services initialized")

	// Rate limit policies: AI endpoints are tight, the session probe looser.
	aiPolicy := ratelimit.Policy{Name: "ai", Limit: config.AIRateLimit, Window: config.AIRateWindow}
	authPolicy := ratelimit.Policy{Name: "auth", Limit: config.AuthRateLimit, Window: config.AuthRateWindow}

	handlers := &handler.Handlers{
		Chat:          handler.NewChatHandler(chatService, logger),
		Conversations: handler.NewConversationHandler(convService, logger),
		People:        handler.NewPersonHandler(personService, logger),
		Notes:         handler.NewNoteHandler(noteService, logger),
		Events:        handler.NewEventHandler(eventService, logger),
		Gestures:      handler.NewGestureHandler(gestureService, logger),
		Templates:     handler.NewTemplateHandler(templateService, logger),
		Preferences:   handler.NewPreferenceHandler(prefService, logger),
		Settings:      handler.NewSettingsHandler(settingsService, logger),
		Dashboard:     handler.NewDashboardHandler(dashboardService, logger),
		AILimit:       handler.Middleware(middleware.RateLimit(limiter, aiPolicy, logger)),
		AuthLimit:     handler.Middleware(middleware.RateLimit(limiter, authPolicy, logger)),
	}
	mux := handlers.Routes()

	// Middleware chain, applied in reverse wrapping order:
	// CORS → RequestID → Recovery → Auth → mux. CORS sits outermost so
	// OPTIONS pre-flights never hit auth.
	var root http.Handler = mux
	root = middleware.Auth(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)
	root = middleware.RequestID(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
