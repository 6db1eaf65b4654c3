package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/divvy-app/backend/internal/auth"
	"github.com/divvy-app/backend/internal/config"
	"github.com/divvy-app/backend/internal/handlers"
	"github.com/divvy-app/backend/internal/lifecycle"
	"github.com/divvy-app/backend/internal/middleware"
	"github.com/divvy-app/backend/internal/service"
	"github.com/divvy-app/backend/internal/storage/sqlite"
	"github.com/divvy-app/backend/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	// Lifecycle registry: the reaction rules bind here, one per record kind
	// and point. Services fire these points around their store writes.
	registry := lifecycle.NewRegistry()
	friends := service.NewFriendshipService(store)
	reactions := service.NewReactions(
		service.NewBalanceOracle(),
		friends,
		service.NewActivityService(),
	)
	reactions.Register(registry)

	memberships := service.NewMembershipService(store, registry)
	groups := service.NewGroupService(store, registry, memberships)
	invitations := service.NewInvitationService(store, registry, memberships)

	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(store, tokens)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.New(authSvc, groups, memberships, invitations, friends).Register(r, tokens)

	slog.Info("Server starting", "address", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
