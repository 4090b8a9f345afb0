package admin

import (
	"net/http"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/pubsub"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const streamAnnouncement = "announcement"

func (h *Handler) createAnnouncement(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	contestID := c.Param("id")
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	ann := models.Announcement{
		ID:        uuid.NewString(),
		ContestID: contestID,
		MemberID:  c.GetString("memberID"),
		Title:     req.Title,
		Content:   req.Content,
	}
	if err := database.CreateAnnouncement(h.db, &ann); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create announcement")
		return
	}

	zap.S().Infof("announcement published in contest %s: %s", contestID, ann.Title)
	pubsub.GetBroker().Publish(contestID, pubsub.FormatMessage(streamAnnouncement, ann.Title))
	util.Success(c, ann, "Announcement created")
}

func (h *Handler) getContestAnnouncements(c *gin.Context) {
	contestID := c.Param("id")
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	announcements, err := database.ListAnnouncements(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, announcements, "Announcements retrieved")
}

func (h *Handler) deleteAnnouncement(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	if err := database.DeleteAnnouncement(h.db, c.Param("id")); err != nil {
		util.Error(c, http.StatusNotFound, "announcement not found")
		return
	}
	util.Success(c, nil, "Announcement deleted")
}
