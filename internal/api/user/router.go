package user

import (
	"github.com/gavel-oj/gavel/internal/api"
	"github.com/gavel-oj/gavel/internal/config"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewUserRouter creates and configures the user Gin engine.
func NewUserRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db)

	v1 := r.Group("/api/v1")
	{
		// Auth
		authGroup := v1.Group("/auth")
		{
			authGroup.GET("/status", h.getAuthStatus)

			if h.oidcHandler != nil {
				ssoGroup := authGroup.Group("/sso")
				ssoGroup.GET("/login", h.oidcHandler.Login)
				ssoGroup.GET("/callback", h.oidcHandler.Callback)
			}

			// Local Username/Password Auth (if enabled)
			if cfg.Auth.Local.Enabled {
				localAuthGroup := authGroup.Group("/local")
				{
					localAuthGroup.POST("/register", h.localRegister)
					localAuthGroup.POST("/login", h.localLogin)
				}
			}
		}

		// Websocket for contest events with token authorization
		v1.GET("/ws/contests/:id/events", h.handleContestEventsWs)

		// Publicly accessible info
		v1.GET("/contests", h.getAllContests)

		// The leaderboard is visible to anonymous viewers once the contest
		// has started; a token upgrades the view for privileged members.
		public := v1.Group("/")
		public.Use(api.OptionalAuthMiddleware(cfg.Auth.JWT.Secret))
		{
			public.GET("/contests/:id", h.getContest)
			public.GET("/contests/:id/leaderboard", h.getContestLeaderboard)
			public.GET("/contests/:id/leaderboard/cells/:memberID/:problemID", h.getLeaderboardCell)
			public.GET("/contests/:id/announcements", h.getContestAnnouncements)
			public.GET("/contests/:id/clarifications", h.getContestClarifications)
		}

		// Authenticated routes
		authed := v1.Group("/")
		authed.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret))
		{
			// Member Profile
			authed.GET("/members/profile", h.getProfile)

			// Problems & Submissions
			authed.POST("/problems/:id/submit", h.submitToProblem)

			submissions := authed.Group("/submissions")
			{
				submissions.GET("", h.getMySubmissions)
				submissions.GET("/:id", h.getMySubmission)
			}

			// Clarifications & Tickets
			authed.POST("/contests/:id/clarifications", h.createClarification)
			authed.POST("/contests/:id/tickets", h.createTicket)
			authed.GET("/contests/:id/tickets", h.getMyTickets)
		}
	}

	return r
}
