package admin

import (
	"github.com/gavel-oj/gavel/internal/api"
	"github.com/gavel-oj/gavel/internal/config"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewAdminRouter creates and configures the admin Gin engine.
func NewAdminRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db)

	v1 := r.Group("/api/v1")
	v1.Use(api.AuthMiddleware(cfg.Auth.JWT.Secret), h.requireStaff)
	{
		// Contest Management
		contests := v1.Group("/contests")
		{
			contests.GET("", h.getAllContests)
			contests.POST("", h.createContest)
			contests.GET("/:id", h.getContest)
			contests.PUT("/:id", h.updateContest)
			contests.DELETE("/:id", h.deleteContest)
			contests.GET("/:id/leaderboard", h.getContestLeaderboard)
			contests.POST("/:id/leaderboard/freeze", h.freezeLeaderboard)
			contests.POST("/:id/leaderboard/unfreeze", h.unfreezeLeaderboard)
			contests.POST("/:id/problems", h.createProblemInContest)
			contests.GET("/:id/members", h.getContestMembers)
			contests.POST("/:id/members", h.createContestMember)
			contests.GET("/:id/submissions", h.getContestSubmissions)
			contests.GET("/:id/submissions/pending", h.getPendingSubmissions)
			contests.GET("/:id/clarifications", h.getContestClarifications)
			contests.POST("/:id/announcements", h.createAnnouncement)
			contests.GET("/:id/announcements", h.getContestAnnouncements)
			contests.GET("/:id/tickets", h.getContestTickets)
		}

		// Member Management
		members := v1.Group("/members")
		{
			members.GET("/:id", h.getMember)
			members.PATCH("/:id", h.updateMember)
			members.DELETE("/:id", h.deleteMember)
			members.POST("/:id/reset-password", h.resetMemberPassword)
		}

		// Problem Management
		problems := v1.Group("/problems")
		{
			problems.GET("/:id", h.getProblem)
			problems.PUT("/:id", h.updateProblem)
			problems.DELETE("/:id", h.deleteProblem)
		}

		// Submission & Verdict Management
		submissions := v1.Group("/submissions")
		{
			submissions.GET("/:id", h.getSubmission)
			submissions.POST("/:id/judge", h.judgeSubmission)
			submissions.POST("/:id/rejudge", h.rejudgeSubmission)
			submissions.POST("/:id/fail", h.failSubmission)
		}

		// Clarifications & Tickets
		v1.POST("/clarifications/:id/answer", h.answerClarification)
		v1.PATCH("/tickets/:id", h.updateTicket)
		v1.DELETE("/announcements/:id", h.deleteAnnouncement)
	}

	return r
}
