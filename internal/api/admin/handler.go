package admin

import (
	"net/http"

	"github.com/gavel-oj/gavel/internal/config"
	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/leaderboard"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the admin API handlers.
type Handler struct {
	cfg     *config.Config
	db      *gorm.DB
	builder *leaderboard.Builder
}

// NewHandler creates a new admin handler with its dependencies.
func NewHandler(cfg *config.Config, db *gorm.DB) *Handler {
	return &Handler{
		cfg:     cfg,
		db:      db,
		builder: leaderboard.NewBuilder(db, cfg.Scoring.WrongPenaltyMinutes),
	}
}

// requireStaff rejects requests from members without a staff role. It runs
// after AuthMiddleware, so memberID is always set.
func (h *Handler) requireStaff(c *gin.Context) {
	member, err := database.GetMemberByID(h.db, c.GetString("memberID"))
	if err != nil {
		util.Error(c, http.StatusUnauthorized, "member not found")
		c.Abort()
		return
	}
	if !member.IsStaff() {
		util.Error(c, http.StatusForbidden, "staff role required")
		c.Abort()
		return
	}
	c.Set("memberType", string(member.Type))
	c.Next()
}

// requirePrivileged guards mutations that judges may not perform. Returns
// false after writing the error response.
func (h *Handler) requirePrivileged(c *gin.Context) bool {
	t := models.MemberType(c.GetString("memberType"))
	if t != models.MemberAdmin && t != models.MemberRoot {
		util.Error(c, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}
