package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"civictrack/backend/internal/api/handler"
	"civictrack/backend/internal/apperr"
	"civictrack/backend/internal/complaint"
	"civictrack/backend/internal/config"
	"civictrack/backend/internal/livehub"
	"civictrack/backend/internal/models"
	"civictrack/backend/internal/notify"
	"civictrack/backend/internal/storage"
	"civictrack/backend/internal/upload"
	"civictrack/backend/pkg/logger"
)

func setupDependencies(cfg *config.Config, log zerolog.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect PostgreSQL")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect Redis")
	}

	if err := db.AutoMigrate(&models.User{}, &models.Complaint{}); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	log.Info().Msg("database and Redis connections established, migrations complete")
	return db, rdb
}

// ensureDefaultAdmin creates the bootstrap admin account on first start.
func ensureDefaultAdmin(s storage.Storage, cfg *config.Config, log zerolog.Logger) {
	existing, err := s.GetUserByEmail(cfg.AdminEmail)
	if err == nil && existing.Role == models.RoleAdmin {
		return
	}
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		log.Error().Err(err).Msg("admin bootstrap lookup failed")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("admin bootstrap hashing failed")
		return
	}
	admin := &models.User{
		FirstName: "System",
		LastName:  "Admin",
		Email:     cfg.AdminEmail,
		Phone:     "0000000000",
		Address:   "Head Office",
		Password:  string(hashed),
		Role:      models.RoleAdmin,
	}
	if err := s.CreateUser(admin); err != nil {
		log.Error().Err(err).Msg("admin bootstrap failed")
		return
	}
	log.Info().Str("email", cfg.AdminEmail).Msg("default admin created")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.Env)
	log.Info().Msg("starting CivicTrack backend")

	db, rdb := setupDependencies(cfg, log)
	s := storage.NewService(db, rdb, int64(cfg.SessionTTL.Seconds()))
	ensureDefaultAdmin(s, cfg, log)

	uploads, err := upload.NewStore(cfg.UploadDir, cfg.MaxUploadSize, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare upload directory")
	}

	var mailer notify.Mailer
	if cfg.SMTPUser != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		log.Warn().Msg("EMAIL_USER not set, status emails disabled")
	}

	var admin notify.AdminNotifier
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Error().Err(err).Msg("telegram notifier disabled")
		} else {
			admin = tg
		}
	}

	notifier := notify.NewService(s, mailer, admin, config.DefaultNotifyQueue, log)
	hub := livehub.NewHub(livehub.NewRegistry(), log)
	complaints := complaint.NewService(s, uploads, notifier, log)

	go hub.Run()
	go hub.ListenEvents(s)
	go notifier.Run(context.Background())

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(handler.CORS(cfg.FrontendURL))

	h := handler.NewHandler(complaints, s, hub, cfg.JWTSecret, log)
	h.Register(r, cfg.UploadDir)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
