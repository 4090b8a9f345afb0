package admin

import (
	"net/http"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/pubsub"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const streamClarification = "clarification"

func (h *Handler) getContestClarifications(c *gin.Context) {
	contestID := c.Param("id")
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	clarifications, err := database.ListClarifications(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, clarifications, "Clarifications retrieved")
}

func (h *Handler) answerClarification(c *gin.Context) {
	clar, err := database.GetClarification(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "clarification not found")
		return
	}

	var req struct {
		Answer string `json:"answer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	actorID := c.GetString("memberID")
	clar.Answer = req.Answer
	clar.AnsweredBy = &actorID

	if err := database.UpdateClarification(h.db, clar); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update clarification")
		return
	}

	zap.S().Infof("clarification %s answered in contest %s", clar.ID, clar.ContestID)
	pubsub.GetBroker().Publish(clar.ContestID, pubsub.FormatMessage(streamClarification, clar.ID))
	util.Success(c, clar, "Clarification answered")
}
