package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-events/config"
	"campus-events/internal/app"
	"campus-events/internal/handler"
	"campus-events/internal/middleware"
	"campus-events/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env 不存在時直接使用環境變數
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	log := logger.WithComponent("server")
	if err := logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Warn("Invalid LOG_LEVEL, keeping info", zap.String("level", cfg.App.LogLevel))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	auth, err := authMiddleware(ctx, cfg, a)
	if err != nil {
		log.Fatal("Failed to initialize authentication", zap.Error(err))
	}

	router := gin.Default()
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	router.Use(auth)

	handler.NewEventHandler(a.Events, a.Preferences, a.NewSession).RegisterRoutes(router)
	handler.NewRegistrationHandler(a.Registrations).RegisterRoutes(router)
	handler.NewMeHandler(a.Events, a.Registrations, a.Preferences).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.App.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening",
			zap.String("addr", cfg.App.HTTPAddr),
			zap.String("profile", string(cfg.App.Profile)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// authMiddleware 本機模式固定使用者，遠端模式驗證外部簽發的 JWT
func authMiddleware(ctx context.Context, cfg *config.Config, a *app.App) (gin.HandlerFunc, error) {
	if cfg.App.Profile == config.ProfileLocal {
		return middleware.FixedUser(a.LocalUser(ctx)), nil
	}
	parser, err := middleware.NewJWTParser(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}
	return middleware.Authenticate(parser, a.Users), nil
}
