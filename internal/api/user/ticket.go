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

func validTicketType(t models.TicketType) bool {
	switch t {
	case models.TicketPrint, models.TicketBalloon, models.TicketSupport:
		return true
	}
	return false
}

func (h *Handler) createTicket(c *gin.Context) {
	contestID := c.Param("id")
	memberID := c.GetString("memberID")

	var req struct {
		Type    models.TicketType `json:"type" binding:"required"`
		Payload models.JSONMap    `json:"payload"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if !validTicketType(req.Type) {
		util.Error(c, http.StatusBadRequest, "unsupported ticket type")
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

	ticket := models.Ticket{
		ID:        uuid.NewString(),
		ContestID: contestID,
		MemberID:  member.ID,
		Type:      req.Type,
		Status:    models.TicketOpen,
		Payload:   req.Payload,
	}
	if err := database.CreateTicket(h.db, &ticket); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create ticket")
		return
	}
	util.Success(c, ticket, "Ticket created")
}

func (h *Handler) getMyTickets(c *gin.Context) {
	contestID := c.Param("id")
	memberID := c.GetString("memberID")

	tickets, err := database.ListTickets(h.db, contestID, "")
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	mine := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.MemberID == memberID {
			mine = append(mine, t)
		}
	}
	util.Success(c, mine, "Tickets retrieved")
}
