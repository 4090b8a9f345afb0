package admin

import (
	"net/http"

	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
)

func validTicketStatus(s models.TicketStatus) bool {
	switch s {
	case models.TicketOpen, models.TicketInProgress, models.TicketResolved, models.TicketRejected:
		return true
	}
	return false
}

func (h *Handler) getContestTickets(c *gin.Context) {
	contestID := c.Param("id")
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	status := models.TicketStatus(c.Query("status"))
	if status != "" && !validTicketStatus(status) {
		util.Error(c, http.StatusBadRequest, "invalid ticket status")
		return
	}

	tickets, err := database.ListTickets(h.db, contestID, status)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, tickets, "Tickets retrieved")
}

func (h *Handler) updateTicket(c *gin.Context) {
	ticket, err := database.GetTicket(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "ticket not found")
		return
	}

	var req struct {
		Status models.TicketStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if !validTicketStatus(req.Status) {
		util.Error(c, http.StatusBadRequest, "invalid ticket status")
		return
	}

	ticket.Status = req.Status
	if err := database.UpdateTicket(h.db, ticket); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update ticket")
		return
	}
	util.Success(c, ticket, "Ticket updated")
}
