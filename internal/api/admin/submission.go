package admin

import (
	"encoding/json"
	"net/http"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/leaderboard"
	"github.com/gavel-oj/gavel/internal/pubsub"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const streamSubmissionJudged = "submission.judged"

func validAnswer(a models.SubmissionAnswer) bool {
	switch a {
	case models.AnswerAccepted, models.AnswerWrongAnswer, models.AnswerCompilationError,
		models.AnswerRuntimeError, models.AnswerTimeLimitExceeded, models.AnswerMemoryLimitExceeded:
		return true
	}
	return false
}

func (h *Handler) getContestSubmissions(c *gin.Context) {
	contestID := c.Param("id")
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	subs, err := database.ListSubmissionsByContest(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	for i := range subs {
		subs[i].Code = ""
	}
	util.Success(c, subs, "Submissions retrieved")
}

func (h *Handler) getPendingSubmissions(c *gin.Context) {
	contestID := c.Param("id")
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	subs, err := database.ListPendingSubmissions(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, subs, "Pending submissions retrieved")
}

func (h *Handler) getSubmission(c *gin.Context) {
	sub, err := database.GetSubmission(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "submission not found")
		return
	}
	util.Success(c, sub, "Submission retrieved")
}

// judgeSubmission records a verdict for a pending submission and publishes
// the recomputed live cell on the contest's event topic.
func (h *Handler) judgeSubmission(c *gin.Context) {
	sub, err := database.GetSubmission(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "submission not found")
		return
	}
	if sub.Status != models.SubmissionJudging {
		util.Error(c, http.StatusConflict, "submission has already been judged")
		return
	}
	h.recordVerdict(c, sub)
}

// rejudgeSubmission overrides the verdict of an already judged submission.
func (h *Handler) rejudgeSubmission(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	sub, err := database.GetSubmission(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "submission not found")
		return
	}
	h.recordVerdict(c, sub)
}

func (h *Handler) recordVerdict(c *gin.Context, sub *models.Submission) {
	var req struct {
		Answer models.SubmissionAnswer `json:"answer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if !validAnswer(req.Answer) {
		util.Error(c, http.StatusBadRequest, "invalid answer")
		return
	}

	sub.Status = models.SubmissionJudged
	sub.Answer = req.Answer
	if err := database.UpdateSubmission(h.db, sub); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update submission")
		return
	}

	zap.S().Infof("submission %s judged: %s", sub.ID, sub.Answer)
	pubsub.GetBroker().Publish(sub.ContestID, pubsub.FormatMessage(streamSubmissionJudged, sub.ID))
	h.publishCellUpdate(sub)
	util.Success(c, sub, "Verdict recorded")
}

func (h *Handler) failSubmission(c *gin.Context) {
	sub, err := database.GetSubmission(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "submission not found")
		return
	}
	if sub.Status != models.SubmissionJudging {
		util.Error(c, http.StatusConflict, "submission has already been judged")
		return
	}

	sub.Status = models.SubmissionFailed
	if err := database.UpdateSubmission(h.db, sub); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update submission")
		return
	}

	zap.S().Warnf("submission %s marked as failed", sub.ID)
	util.Success(c, sub, "Submission marked as failed")
}

// publishCellUpdate recomputes the live cell for the submission's member
// and problem and publishes it. The user websocket withholds it from
// unprivileged viewers while the leaderboard is frozen.
func (h *Handler) publishCellUpdate(sub *models.Submission) {
	contest, err := database.GetContest(h.db, sub.ContestID)
	if err != nil {
		zap.S().Errorf("cell update for submission %s: %v", sub.ID, err)
		return
	}
	member, err := database.GetMemberByID(h.db, sub.MemberID)
	if err != nil {
		zap.S().Errorf("cell update for submission %s: %v", sub.ID, err)
		return
	}
	problem, err := database.GetProblem(h.db, sub.ProblemID)
	if err != nil {
		zap.S().Errorf("cell update for submission %s: %v", sub.ID, err)
		return
	}

	judged, err := database.ListJudgedSubmissions(h.db, contest.ID)
	if err != nil {
		zap.S().Errorf("cell update for submission %s: %v", sub.ID, err)
		return
	}
	pair := make([]models.Submission, 0, 4)
	for _, s := range judged {
		if s.MemberID == member.ID && s.ProblemID == problem.ID {
			pair = append(pair, s)
		}
	}

	cell := leaderboard.BuildCell(member, problem, pair, contest.StartAt, h.cfg.Scoring.WrongPenaltyMinutes)
	data, err := json.Marshal(cell)
	if err != nil {
		zap.S().Errorf("cell update for submission %s: %v", sub.ID, err)
		return
	}
	pubsub.GetBroker().Publish(contest.ID, pubsub.FormatMessage(leaderboard.StreamCell, string(data)))
}
