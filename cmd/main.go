package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/campushub/club-service/config"
	"github.com/campushub/club-service/db"
	"github.com/campushub/club-service/internal/auth/handler"
	repo "github.com/campushub/club-service/internal/auth/repository/postgres"
	"github.com/campushub/club-service/internal/auth/service"
	"github.com/campushub/club-service/internal/security"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	seclog := security.NewLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repository := repo.NewPostgresRepository(pool)
	tokenService := service.NewTokenService(cfg.SigningSecret, cfg.TokenIssuer, cfg.TokenAudience, repository, seclog)
	userService := service.NewUserService(repository, repository, tokenService, seclog)
	limiter := security.NewRateLimiter(seclog)

	authHandler := handler.NewAuthHandler(userService, tokenService)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, limiter)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
