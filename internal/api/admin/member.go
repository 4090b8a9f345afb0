package admin

import (
	"errors"
	"net/http"

	"github.com/gavel-oj/gavel/internal/auth"
	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"
	"github.com/gavel-oj/gavel/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func validMemberType(t models.MemberType) bool {
	switch t {
	case models.MemberRoot, models.MemberAdmin, models.MemberJudge,
		models.MemberContestant, models.MemberGuest:
		return true
	}
	return false
}

func (h *Handler) getContestMembers(c *gin.Context) {
	contestID := c.Param("id")
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	members, err := database.ListContestMembers(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, members, "Members retrieved")
}

func (h *Handler) createContestMember(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	contestID := c.Param("id")
	if _, err := database.GetContest(h.db, contestID); err != nil {
		util.Error(c, http.StatusNotFound, "contest not found")
		return
	}

	var req struct {
		Name     string            `json:"name" binding:"required"`
		Username string            `json:"username" binding:"required"`
		Password string            `json:"password"`
		Type     models.MemberType `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}
	if !validMemberType(req.Type) || req.Type == models.MemberRoot {
		util.Error(c, http.StatusBadRequest, "invalid member type")
		return
	}

	if _, err := database.GetMemberByUsername(h.db, req.Username); !errors.Is(err, gorm.ErrRecordNotFound) {
		if err == nil {
			util.Error(c, http.StatusConflict, "username already exists")
		} else {
			util.Error(c, http.StatusInternalServerError, "database error")
		}
		return
	}

	existing, err := database.ListContestMembers(h.db, contestID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "database error")
		return
	}
	for _, m := range existing {
		if m.Name == req.Name {
			util.Error(c, http.StatusConflict, "a member with this name already exists in the contest")
			return
		}
	}

	member := models.Member{
		ID:        uuid.NewString(),
		ContestID: &contestID,
		Name:      req.Name,
		Username:  req.Username,
		Type:      req.Type,
	}
	if req.Password != "" {
		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, "failed to hash password")
			return
		}
		member.PasswordHash = hashed
	}

	if err := database.CreateMember(h.db, &member); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create member")
		return
	}

	zap.S().Infof("member %s (%s) added to contest %s", member.Username, member.Type, contestID)
	util.Success(c, member, "Member created")
}

func (h *Handler) getMember(c *gin.Context) {
	member, err := database.GetMemberByID(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "member not found")
		return
	}
	util.Success(c, member, "Member retrieved")
}

func (h *Handler) updateMember(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	member, err := database.GetMemberByID(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "member not found")
		return
	}

	var req struct {
		Name *string            `json:"name"`
		Type *models.MemberType `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Type != nil {
		if !validMemberType(*req.Type) || *req.Type == models.MemberRoot {
			util.Error(c, http.StatusBadRequest, "invalid member type")
			return
		}
		member.Type = *req.Type
	}

	if err := database.UpdateMember(h.db, member); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update member")
		return
	}
	util.Success(c, member, "Member updated")
}

func (h *Handler) deleteMember(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	member, err := database.GetMemberByID(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "member not found")
		return
	}
	if member.Type == models.MemberRoot {
		util.Error(c, http.StatusForbidden, "root members cannot be deleted")
		return
	}

	if err := database.DeleteMember(h.db, member.ID); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete member")
		return
	}
	util.Success(c, nil, "Member deleted")
}

func (h *Handler) resetMemberPassword(c *gin.Context) {
	if !h.requirePrivileged(c) {
		return
	}

	member, err := database.GetMemberByID(h.db, c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusNotFound, "member not found")
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash password")
		return
	}
	member.PasswordHash = hashed

	if err := database.UpdateMember(h.db, member); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to update member")
		return
	}

	zap.S().Infof("password reset for member %s", member.Username)
	util.Success(c, nil, "Password reset")
}
