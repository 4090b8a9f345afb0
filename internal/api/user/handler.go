package user

import (
	"github.com/gavel-oj/gavel/internal/auth"
	"github.com/gavel-oj/gavel/internal/config"
	"github.com/gavel-oj/gavel/internal/leaderboard"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the user API handlers.
type Handler struct {
	cfg         *config.Config
	db          *gorm.DB
	builder     *leaderboard.Builder
	oidcHandler *auth.OIDCHandler
}

// NewHandler creates a new user handler with its dependencies.
func NewHandler(cfg *config.Config, db *gorm.DB) *Handler {
	h := &Handler{
		cfg:     cfg,
		db:      db,
		builder: leaderboard.NewBuilder(db, cfg.Scoring.WrongPenaltyMinutes),
	}
	if cfg.Auth.OIDC.Enabled {
		oidcHandler, err := auth.NewOIDCHandler(cfg, db)
		if err != nil {
			zap.S().Errorf("failed to initialize OIDC provider, SSO login disabled: %v", err)
		} else {
			h.oidcHandler = oidcHandler
		}
	}
	return h
}
