package admin

import (
	"net/http"
	"time"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/leaderboard"
	"github.com/gavel-oj/gavel/internal/pubsub"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// getAllContests returns all contests with full details, regardless of
// their start/end times.
func (h *Handler) getAllContests(c *gin.Context) {
	contests, err := database.GetAllContests(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, contests, "All contests retrieved")
}

func (h *Handler) getContest(c *gin.Context) {
	contest, err := database.GetContest(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}
	util.Success(c, contest, "Contest details retrieved")
}

func (h *Handler) createContest(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	var req struct {
		Slug         string     `json:"slug" binding:"required"`
		Title        string     `json:"title" binding:"required"`
		StartAt      time.Time  `json:"start_at" binding:"required"`
		EndAt        time.Time  `json:"end_at" binding:"required"`
		AutoFreezeAt *time.Time `json:"auto_freeze_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if !req.EndAt.After(req.StartAt) {
		util.Error(c, http.StatusBadRequest, "end_at must be after start_at")
		return
	}

	if _, err := database.GetContestBySlug(h.db, req.Slug); err == nil {
		util.Error(c, http.StatusConflict, "a contest with this slug already exists")
		return
	}

	contest := models.Contest{
		ID:           uuid.NewString(),
		Slug:         req.Slug,
		Title:        req.Title,
		StartAt:      req.StartAt,
		EndAt:        req.EndAt,
		AutoFreezeAt: req.AutoFreezeAt,
	}
	if err := database.CreateContest(h.db, &contest); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create contest")
		return
	}

	zap.S().Infof("contest %s created", contest.Slug)
	util.Success(c, contest, "Contest created")
}

func (h *Handler) updateContest(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	contest, err := database.GetContest(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	var req struct {
		Title        *string    `json:"title"`
		StartAt      *time.Time `json:"start_at"`
		EndAt        *time.Time `json:"end_at"`
		AutoFreezeAt *time.Time `json:"auto_freeze_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	if req.Title != nil {
		contest.Title = *req.Title
	}
	if req.StartAt != nil {
		contest.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		contest.EndAt = *req.EndAt
	}
	if req.AutoFreezeAt != nil {
		contest.AutoFreezeAt = req.AutoFreezeAt
	}
	if !contest.EndAt.After(contest.StartAt) {
		util.Error(c, http.StatusBadRequest, "end_at must be after start_at")
		return
	}

	if err := database.UpdateContest(h.db, contest); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update contest")
		return
	}
	util.Success(c, contest, "Contest updated")
}

func (h *Handler) deleteContest(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	contestID := c.Param("id")
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	if err := database.DeleteContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete contest")
		return
	}

	pubsub.GetBroker().CloseTopic(contestID)
	zap.S().Infof("contest %s deleted", contestID)
	util.Success(c, nil, "Contest deleted")
}

// getContestLeaderboard serves the board as seen by the acting staff
// member: ADMIN/ROOT get live standings even while frozen, judges get the
// same frozen view as the public.
func (h *Handler) getContestLeaderboard(c *gin.Context) {
	board, err := h.builder.Build(c.Param("id"), c.GetString("memberID"), time.Now())
	if err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, board, "Leaderboard retrieved")
}

func (h *Handler) freezeLeaderboard(c *gin.Context) {
	contest, err := leaderboard.Freeze(h.db, c.Param("id"), c.GetString("memberID"), time.Now())
	if err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, contest, "Leaderboard frozen")
}

func (h *Handler) unfreezeLeaderboard(c *gin.Context) {
	contest, err := leaderboard.Unfreeze(h.db, c.Param("id"), c.GetString("memberID"), time.Now())
	if err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, contest, "Leaderboard unfrozen")
}
