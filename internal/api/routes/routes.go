package routes

import (
	"github.com/careerai/backend/internal/api/handlers"
	"github.com/careerai/backend/internal/api/middleware"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	History   *handlers.HistoryHandler
	Profile   *handlers.ProfileHandler
	Admin     *handlers.AdminHandler
	Captcha   *handlers.CaptchaHandler
	CV        *handlers.CVHandler
	Interview *handlers.InterviewHandler
	WS        *handlers.WSHandler

	AdminEmails []string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public: captcha check before sensitive form submissions
	r.POST("/captcha/verify", d.Captcha.Verify)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.GET("/history", d.History.Get)
	auth.PUT("/profile/update", d.Profile.Update)

	auth.POST("/cv/upload", d.CV.Upload)
	auth.GET("/cv/:cv_id/url", d.CV.DownloadURL)
	auth.POST("/cv/:cv_id/analyze", d.CV.Analyze)

	auth.POST("/interview/start", d.Interview.Start)
	auth.GET("/interview/:interview_id", d.Interview.Get)
	auth.POST("/interview/:interview_id/end", d.Interview.End)
	auth.GET("/interview/:interview_id/messages", d.Interview.ListMessages)

	// WebSocket
	auth.GET("/ws/interview/:interview_id", d.WS.InterviewWS)

	// Admin (JWT + email allow-list)
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminAllowlist(d.AdminEmails))
	admin.POST("/users/approve", d.Admin.ApproveUser)
}
