// Package main runs the mail relay API server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bionic-mail/backend/config"
	"github.com/bionic-mail/backend/internal/auth"
	"github.com/bionic-mail/backend/internal/health"
	"github.com/bionic-mail/backend/internal/history"
	"github.com/bionic-mail/backend/internal/mail"
	"github.com/bionic-mail/backend/internal/mailer"
	"github.com/bionic-mail/backend/internal/middleware"
	"github.com/bionic-mail/backend/pkg/database"
	"github.com/bionic-mail/backend/pkg/logging"
	"github.com/bionic-mail/backend/pkg/response"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		zap.NewExample().Fatal("build logger", zap.Error(err))
	}
	defer logger.Sync()

	logger.Info("starting mail service",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("relay", cfg.SMTP.Addr()),
		zap.String("from", cfg.SMTP.FromAddress),
	)

	ctx := context.Background()

	// History store: Postgres when configured, in-memory otherwise.
	var store history.Store
	if cfg.Database.URL != "" {
		pool, err := database.NewPostgresPool(ctx, cfg.Database.URL, logger)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
		store = history.NewPostgresStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory history store")
		store = history.NewMemoryStore()
	}

	builder := mailer.NewBuilder(cfg.SMTP.FromAddress, cfg.SMTP.FromName)
	client := mailer.NewClient(cfg.SMTP, cfg.Logging.SMTPDetails)
	mailService := mail.NewService(builder, client, store, cfg.Logging.EmailContent)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireMinutes)
	authHandler, err := auth.NewHandler(cfg.Auth.Username, cfg.Auth.Password, jwtService, logger)
	if err != nil {
		logger.Fatal("auth handler", zap.Error(err))
	}
	mailHandler := mail.NewHandler(mailService)
	historyHandler := history.NewHandler(store)
	healthHandler := health.NewHandler(client, cfg.App.Version)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.RequestLogger(logger, cfg.Logging))

	router.GET("/", func(c *gin.Context) {
		response.OK(c, gin.H{
			"message": cfg.App.Name + " API",
			"version": cfg.App.Version,
			"endpoints": gin.H{
				"send_email":    "/api/v1/send",
				"email_history": "/api/v1/history",
				"health_check":  "/api/v1/health",
			},
		})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/token", authHandler.Token)
		v1.GET("/health", healthHandler.Check)

		protected := v1.Group("")
		protected.Use(middleware.JWT(jwtService))
		{
			protected.POST("/send", mailHandler.Send)
			protected.GET("/history", historyHandler.List)
			protected.GET("/history/:message_id", historyHandler.Get)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
