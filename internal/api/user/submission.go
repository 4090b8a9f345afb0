package user

import (
	"net/http"
	"time"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func validLanguage(lang models.Language) bool {
	switch lang {
	case models.LanguageCpp17, models.LanguageJava21, models.LanguagePython312:
		return true
	}
	return false
}

func (h *Handler) submitToProblem(c *gin.Context) {
	problemID := c.Param("id")
	memberID := c.GetString("memberID")

	var req struct {
		Language models.Language `json:"language" binding:"required"`
		Code     string          `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if !validLanguage(req.Language) {
		util.Error(c, http.StatusBadRequest, "unsupported language")
		return
	}

	problem, err := database.GetProblem(h.db, problemID)
	if err != nil {
		util.Error(c, http.StatusNotFound, "problem not found")
		return
	}

	contest, err := database.GetContest(h.db, problem.ContestID)
	if err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}
	if !contest.IsActive(time.Now()) {
		util.Error(c, http.StatusForbidden, "contest is not active")
		return
	}

	member, err := database.GetContestMember(h.db, memberID, contest.ID)
	if err != nil {
		util.Error(c, http.StatusForbidden, "you are not a member of this contest")
		return
	}
	if member.Type != models.MemberContestant {
		util.Error(c, http.StatusForbidden, "only contestants can submit")
		return
	}

	sub := models.Submission{
		ID:        uuid.NewString(),
		ContestID: contest.ID,
		MemberID:  member.ID,
		ProblemID: problem.ID,
		Language:  req.Language,
		Status:    models.SubmissionJudging,
		Answer:    models.AnswerNone,
		Code:      req.Code,
	}
	if err := database.CreateSubmission(h.db, &sub); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create submission")
		return
	}

	zap.S().Infof("member %s submitted to problem %s in contest %s", member.Username, problem.Letter, contest.Slug)
	util.Success(c, gin.H{"id": sub.ID}, "Submission received")
}

func (h *Handler) getMySubmissions(c *gin.Context) {
	memberID := c.GetString("memberID")
	subs, err := database.ListSubmissionsByMember(h.db, memberID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	// Code is omitted from the list view.
	for i := range subs {
		subs[i].Code = ""
	}
	util.Success(c, subs, "Submissions retrieved")
}

func (h *Handler) getMySubmission(c *gin.Context) {
	memberID := c.GetString("memberID")
	sub, err := database.GetSubmission(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "submission not found")
		return
	}
	if sub.MemberID != memberID {
		util.Error(c, http.StatusForbidden, "you can only view your own submissions")
		return
	}
	util.Success(c, sub, "Submission retrieved")
}
