package user

import (
	"net/http"
	"time"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) createClarification(c *gin.Context) {
	contestID := c.Param("id")
	memberID := c.GetString("memberID")

	var req struct {
		Question  string  `json:"question" binding:"required"`
		ProblemID *string `json:"problem_id"`
		ParentID  *string `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	contest, err := database.GetContest(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}
	if !contest.HasStarted(time.Now()) {
		util.Error(c, http.StatusForbidden, "contest has not started yet")
		return
	}

	member, err := database.GetContestMember(h.db, memberID, contestID)
	if err != nil {
		util.Error(c, http.StatusForbidden, "you are not a member of this contest")
		return
	}

	if req.ProblemID != nil {
		problem, err := database.GetProblem(h.db, *req.ProblemID)
		if err != nil || problem.ContestID != contestID {
			util.Error(c, http.StatusBadRequest, "problem does not belong to this contest")
			return
		}
	}
	if req.ParentID != nil {
		parent, err := database.GetClarification(h.db, *req.ParentID)
		if err != nil || parent.ContestID != contestID {
			util.Error(c, http.StatusBadRequest, "parent clarification does not belong to this contest")
			return
		}
	}

	clar := models.Clarification{
		ID:        uuid.NewString(),
		ContestID: contestID,
		MemberID:  member.ID,
		ProblemID: req.ProblemID,
		ParentID:  req.ParentID,
		Question:  req.Question,
	}
	if err := database.CreateClarification(h.db, &clar); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create clarification")
		return
	}
	util.Success(c, clar, "Clarification submitted")
}
