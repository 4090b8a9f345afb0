package user

import (
	"net/http"
	"time"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
)

func (h *Handler) getAllContests(c *gin.Context) {
	contests, err := database.GetAllContests(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	// The list view never carries problems or members.
	for i := range contests {
		contests[i].Problems = nil
		contests[i].Members = nil
	}
	util.Success(c, contests, "Contests loaded")
}

// viewerIsStaff resolves the optional viewer from the request context and
// reports whether they hold a staff role in the contest.
func (h *Handler) viewerIsStaff(c *gin.Context, contestID string) bool {
	viewerID := c.GetString("memberID")
	if viewerID == "" {
		return false
	}
	member, err := database.GetContestMember(h.db, viewerID, contestID)
	if err != nil {
		return false
	}
	return member.IsStaff()
}

func (h *Handler) getContest(c *gin.Context) {
	contestID := c.Param("id")
	contest, err := database.GetContest(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	// For contests that haven't started, hide the problem list from
	// everyone but staff.
	if !contest.HasStarted(time.Now()) && !h.viewerIsStaff(c, contestID) {
		contest.Problems = nil
		util.Success(c, contest, "Contest found, but has not started yet")
		return
	}
	util.Success(c, contest, "Contest found")
}

func (h *Handler) getContestLeaderboard(c *gin.Context) {
	contestID := c.Param("id")
	viewerID := c.GetString("memberID")

	board, err := h.builder.Build(contestID, viewerID, time.Now())
	if err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, board, "Leaderboard retrieved")
}

func (h *Handler) getLeaderboardCell(c *gin.Context) {
	contestID := c.Param("id")
	viewerID := c.GetString("memberID")

	cell, err := h.builder.BuildMemberCell(contestID, viewerID, c.Param("memberID"), c.Param("problemID"), time.Now())
	if err != nil {
		util.ErrorFrom(c, err)
		return
	}
	util.Success(c, cell, "Leaderboard cell retrieved")
}

func (h *Handler) getContestAnnouncements(c *gin.Context) {
	contestID := c.Param("id")
	contest, err := database.GetContest(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	// Only show announcements after the contest has started.
	if !contest.HasStarted(time.Now()) && !h.viewerIsStaff(c, contestID) {
		util.Success(c, []models.Announcement{}, "Contest has not started yet")
		return
	}

	announcements, err := database.ListAnnouncements(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, announcements, "Announcements retrieved successfully")
}

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

	// Unanswered questions from other contestants stay hidden.
	viewerID := c.GetString("memberID")
	staff := h.viewerIsStaff(c, contestID)
	visible := make([]models.Clarification, 0, len(clarifications))
	for _, clar := range clarifications {
		if staff || clar.Answer != "" || clar.MemberID == viewerID {
			visible = append(visible, clar)
		}
	}
	util.Success(c, visible, "Clarifications retrieved successfully")
}
