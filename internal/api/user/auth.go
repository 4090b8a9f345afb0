package user

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

func (h *Handler) getAuthStatus(c *gin.Context) {
	util.Success(c, gin.H{
		"local_auth_enabled": h.cfg.Auth.Local.Enabled,
		"sso_enabled":        h.oidcHandler != nil,
	}, "Auth status retrieved")
}

func (h *Handler) localRegister(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	_, err := database.GetMemberByUsername(h.db, req.Username)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err == nil {
			util.Error(c, http.StatusConflict, "username already exists")
		} else {
			util.Error(c, http.StatusInternalServerError, "database error")
		}
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	newMember := models.Member{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Type:         models.MemberGuest,
	}
	if newMember.Name == "" {
		newMember.Name = newMember.Username
	}

	if err := database.CreateMember(h.db, &newMember); err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to create member")
		return
	}

	zap.S().Infof("new local member registered: %s", newMember.Username)
	util.Success(c, gin.H{"id": newMember.ID, "username": newMember.Username}, "Member registered successfully")
}

func (h *Handler) localLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	member, err := database.GetMemberByUsername(h.db, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusUnauthorized, "invalid username or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "database error")
		}
		return
	}

	if member.PasswordHash == "" {
		util.Error(c, http.StatusUnauthorized, "member registered via SSO, please use SSO login")
		return
	}

	if !auth.CheckPasswordHash(req.Password, member.PasswordHash) {
		util.Error(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	jwtToken, err := auth.GenerateJWT(member.ID, h.cfg.Auth.JWT.Secret, h.cfg.Auth.JWT.ExpireHours)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to generate JWT")
		return
	}
	util.Success(c, gin.H{"token": jwtToken}, "Login successful")
}

func (h *Handler) getProfile(c *gin.Context) {
	memberID := c.GetString("memberID")
	member, err := database.GetMemberByID(h.db, memberID)
	if err != nil {
		util.Error(c, http.StatusNotFound, "member not found")
		return
	}
	util.Success(c, member, "Profile retrieved")
}
