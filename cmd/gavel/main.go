package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gavel-oj/gavel/internal/api/admin"
	"github.com/gavel-oj/gavel/internal/api/user"
	"github.com/gavel-oj/gavel/internal/config"
	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/leaderboard"

	"go.uber.org/zap"
)

var Version = "dev-build"

const autoFreezeInterval = 15 * time.Second

func main() {

	fmt.Fprintf(os.Stderr, "Gavel %s - Programming Contest Judge\n\n", Version)

	// config
	var configPath string
	flag.StringVar(&configPath, "c", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// logger
	var logger *zap.Logger
	if cfg.Logger.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// database
	db, err := database.Init(cfg.Storage.Database)
	if err != nil {
		zap.S().Fatalf("failed to initialize database: %v", err)
	}
	zap.S().Info("database initialized successfully")

	// auto-freeze ticker
	go func() {
		ticker := time.NewTicker(autoFreezeInterval)
		defer ticker.Stop()
		for now := range ticker.C {
			leaderboard.AutoFreeze(db, now)
		}
	}()
	zap.S().Info("auto-freeze ticker started")

	// API routers
	userEngine := user.NewUserRouter(cfg, db)
	adminEngine := admin.NewAdminRouter(cfg, db)

	// start servers
	go func() {
		zap.S().Infof("starting user server at %s", cfg.Listen)
		if err := userEngine.Run(cfg.Listen); err != nil {
			zap.S().Fatalf("failed to start user server: %v", err)
		}
	}()

	if cfg.Admin.Enabled {
		go func() {
			zap.S().Infof("starting admin server at %s", cfg.Admin.Listen)
			if err := adminEngine.Run(cfg.Admin.Listen); err != nil {
				zap.S().Fatalf("failed to start admin server: %v", err)
			}
		}()
	}

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.S().Info("shutting down server...")
}
