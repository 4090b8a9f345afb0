package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gavel-oj/gavel/internal/config"
	"github.com/gavel-oj/gavel/internal/database"
	"github.com/gavel-oj/gavel/internal/database/models"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// OIDCHandler implements the optional single-sign-on login flow. Members
// signing in through the provider are matched by the token subject and
// created as platform guests on first login.
type OIDCHandler struct {
	cfg      *config.Config
	db       *gorm.DB
	oauth2   *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func NewOIDCHandler(cfg *config.Config, db *gorm.DB) (*OIDCHandler, error) {
	provider, err := oidc.NewProvider(context.Background(), cfg.Auth.OIDC.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	return &OIDCHandler{
		cfg: cfg,
		db:  db,
		oauth2: &oauth2.Config{
			ClientID:     cfg.Auth.OIDC.ClientID,
			ClientSecret: cfg.Auth.OIDC.ClientSecret,
			RedirectURL:  cfg.Auth.OIDC.RedirectURI,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.Auth.OIDC.ClientID}),
	}, nil
}

func (h *OIDCHandler) Login(c *gin.Context) {
	url := h.oauth2.AuthCodeURL("state", oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func (h *OIDCHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	token, err := h.oauth2.Exchange(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange token: " + err.Error()})
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No id_token in token response"})
		return
	}

	idToken, err := h.verifier.Verify(c.Request.Context(), rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to verify id_token: " + err.Error()})
		return
	}

	var profile struct {
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode claims: " + err.Error()})
		return
	}

	member, err := database.GetMemberBySSOSubject(h.db, idToken.Subject)
	if err == gorm.ErrRecordNotFound {
		subject := idToken.Subject
		newMember := models.Member{
			ID:         uuid.NewString(),
			SSOSubject: &subject,
			Username:   profile.PreferredUsername,
			Name:       profile.Name,
			Type:       models.MemberGuest,
		}
		if newMember.Name == "" {
			newMember.Name = newMember.Username
		}
		if err := database.CreateMember(h.db, &newMember); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member: " + err.Error()})
			return
		}
		member = &newMember
		zap.S().Infof("new SSO member registered: %s", member.Username)
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	jwtToken, err := GenerateJWT(member.ID, h.cfg.Auth.JWT.Secret, h.cfg.Auth.JWT.ExpireHours)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate JWT: " + err.Error()})
		return
	}

	if redirect := h.cfg.Auth.OIDC.FrontendCallbackURL; redirect != "" {
		c.Redirect(http.StatusTemporaryRedirect, redirect+"?token="+jwtToken)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": jwtToken})
}
