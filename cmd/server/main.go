package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/andrew-nagda/texting-project/internal/config"
	"github.com/andrew-nagda/texting-project/internal/conversation"
	"github.com/andrew-nagda/texting-project/internal/database"
	"github.com/andrew-nagda/texting-project/internal/handlers"
	"github.com/andrew-nagda/texting-project/internal/middleware"
	"github.com/andrew-nagda/texting-project/internal/quiz"
	"github.com/andrew-nagda/texting-project/internal/routes"
	"github.com/andrew-nagda/texting-project/internal/scheduler"
	"github.com/andrew-nagda/texting-project/internal/services"
	"github.com/andrew-nagda/texting-project/internal/transport"
	"github.com/andrew-nagda/texting-project/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Check encryption key (warn if not set, but don't fail)
	var encKey []byte
	if cfg.EncryptionKey == "" {
		log.Println("⚠️  WARNING: ENCRYPTION_KEY not set. Message bodies will be stored in plaintext.")
		log.Println("   To generate a key, run: openssl rand -base64 32")
		log.Println("   Set it in your environment: ENCRYPTION_KEY=<generated-key>")
	} else {
		key, err := utils.ParseEncryptionKey(cfg.EncryptionKey)
		if err != nil {
			log.Printf("⚠️  WARNING: ENCRYPTION_KEY is invalid: %v", err)
			log.Println("   Key must be base64-encoded 32 bytes. Generate with: openssl rand -base64 32")
		} else {
			encKey = key
			log.Println("✅ Encryption key configured")
		}
	}
	services.InitMessageLog(encKey)

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()
	if err := database.InitPostgresTables(); err != nil {
		log.Fatal("Failed to initialize PostgreSQL tables:", err)
	}

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// MongoDB is optional: without it the message history log is disabled
	// but delivery and grading run normally.
	if cfg.MongoURI == "" {
		log.Println("⚠️  MONGODB_URI not set; message history disabled")
	} else {
		log.Printf("Connecting to MongoDB...")
		if err := database.ConnectMongo(cfg.MongoURI); err != nil {
			log.Printf("⚠️  WARNING: MongoDB unavailable; message history disabled: %v", err)
		} else if err := services.EnsureMessageIndexes(context.Background()); err != nil {
			log.Printf("⚠️  WARNING: failed to ensure message indexes: %v", err)
		} else {
			log.Println("✅ MongoDB message indexes ensured")
		}
	}
	defer database.DisconnectMongo()

	// User store with a journal for failed saves, swept in the background.
	store := services.NewJournaledStore(services.NewUserStore(database.PostgresDB))
	store.StartReconcileSweep(context.Background(), time.Minute)

	services.RestoreUsersFromBackup(context.Background(), store, cfg.BackupRawURL, cfg.BackupToken)

	// Outbound transport: real Twilio when credentials are present.
	var base transport.Sender
	if cfg.TwilioConfigured() {
		base = transport.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
		log.Printf("✅ Twilio transport configured (from %s)", cfg.TwilioFrom)
	} else {
		base = transport.NoopSender{}
		log.Println("⚠️  Twilio credentials not found. Outbound messages will only be logged.")
	}
	sender := &services.LoggingSender{Next: base}

	convo := conversation.New(store, conversation.QuestionFunc(quiz.NewQuestion), conversation.Config{
		DefaultTrack:    cfg.DefaultTrack,
		DefaultPerDay:   1,
		DefaultTimezone: cfg.DefaultTimezone,
		StartHour:       cfg.WindowStartHour,
		EndHour:         cfg.WindowEndHour,
	})
	handlers.Init(cfg, store, convo, sender)

	sched := scheduler.New(store, scheduler.QuestionFunc(quiz.NewQuestion), sender, scheduler.Config{
		Interval:     cfg.TickInterval,
		FallbackZone: cfg.DefaultTimezone,
		StartHour:    cfg.WindowStartHour,
		EndHour:      cfg.WindowEndHour,
	})
	go sched.Run(context.Background())

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → SignupRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, host check, per-IP + signup rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// The webhook and history limiters run in every environment.
	r.Use(middleware.SMSWebhookRateLimit)
	r.Use(middleware.MessageHistoryRateLimit)

	// Setup routes
	routes.SetupRoutes(r)

	// Log registered routes for debugging
	log.Println("📋 Registered routes:")
	log.Println("  GET  /health")
	log.Println("  POST /signup")
	log.Println("  GET  /me")
	log.Println("  POST /update")
	log.Println("  POST /sms")
	log.Println("  GET  /sms")
	log.Println("  GET  /quiz/sample")
	log.Println("  POST /quiz/grade")
	log.Println("  GET  /math/sample")
	log.Println("  POST /math/grade")
	log.Println("  GET  /__admin/users")
	log.Println("  GET  /__admin/users/redacted")
	log.Println("  GET  /__admin/messages")
	log.Println("  GET  /console")

	log.Printf("🚀 texting-project backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
