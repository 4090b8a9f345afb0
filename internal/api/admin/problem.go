package admin

import (
	"net/http"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) createProblemInContest(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	contestID := c.Param("id")
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	var req struct {
		Letter        string `json:"letter" binding:"required"`
		Title         string `json:"title" binding:"required"`
		Color         string `json:"color"`
		TimeLimitMS   int    `json:"time_limit_ms"`
		MemoryLimitMB int    `json:"memory_limit_mb"`
		Statement     string `json:"statement"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	existing, err := database.ListProblems(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	for _, p := range existing {
		if p.Letter == req.Letter {
			util.Error(c, http.StatusConflict, "a problem with this letter already exists")
			return
		}
	}

	problem := models.Problem{
		ID:            uuid.NewString(),
		ContestID:     contestID,
		Letter:        req.Letter,
		Title:         req.Title,
		Color:         req.Color,
		TimeLimitMS:   req.TimeLimitMS,
		MemoryLimitMB: req.MemoryLimitMB,
		Statement:     req.Statement,
	}
	if err := database.CreateProblem(h.db, &problem); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create problem")
		return
	}
	util.Success(c, problem, "Problem created")
}

func (h *Handler) getProblem(c *gin.Context) {
	problem, err := database.GetProblem(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "problem not found")
		return
	}
	util.Success(c, problem, "Problem retrieved")
}

func (h *Handler) updateProblem(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	problem, err := database.GetProblem(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "problem not found")
		return
	}

	var req struct {
		Title         *string `json:"title"`
		Color         *string `json:"color"`
		TimeLimitMS   *int    `json:"time_limit_ms"`
		MemoryLimitMB *int    `json:"memory_limit_mb"`
		Statement     *string `json:"statement"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	if req.Title != nil {
		problem.Title = *req.Title
	}
	if req.Color != nil {
		problem.Color = *req.Color
	}
	if req.TimeLimitMS != nil {
		problem.TimeLimitMS = *req.TimeLimitMS
	}
	if req.MemoryLimitMB != nil {
		problem.MemoryLimitMB = *req.MemoryLimitMB
	}
	if req.Statement != nil {
		problem.Statement = *req.Statement
	}

	if err := database.UpdateProblem(h.db, problem); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update problem")
		return
	}
	util.Success(c, problem, "Problem updated")
}

func (h *Handler) deleteProblem(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	problem, err := database.GetProblem(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "problem not found")
		return
	}

	if err := database.DeleteProblem(h.db, problem.ID); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete problem")
		return
	}
	util.Success(c, nil, "Problem deleted")
}
