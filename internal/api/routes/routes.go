package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/careerforge/backend/internal/api/handlers"
	"github.com/careerforge/backend/internal/api/middleware"
	"github.com/careerforge/backend/internal/metrics"
)

type Deps struct {
	User        *handlers.UserHandler
	Interview   *handlers.InterviewHandler
	Assessment  *handlers.AssessmentHandler
	Resume      *handlers.ResumeHandler
	CoverLetter *handlers.CoverLetterHandler
	Insight     *handlers.InsightHandler
	Webhook     *handlers.WebhookHandler
	WS          *handlers.WSHandler

	// UserLimit runs after JWTAuth so each subject gets its own bucket.
	// WebhookLimit guards the open webhook route, keyed by client IP.
	UserLimit    gin.HandlerFunc
	WebhookLimit gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", metrics.Handler())

	// Server-to-server, shared-secret auth
	r.POST("/webhooks/interviews/generate", d.WebhookLimit, d.Webhook.GenerateInterview)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())
	auth.Use(d.UserLimit)

	auth.POST("/users/sync", d.User.Sync)
	auth.GET("/users/me", d.User.Me)
	auth.GET("/users/onboarding", d.User.Onboarding)
	auth.PUT("/users/profile", d.User.UpdateProfile)

	auth.POST("/interviews", d.Interview.Create)
	auth.GET("/interviews", d.Interview.List)
	auth.GET("/interviews/:mock_id", d.Interview.Get)
	auth.DELETE("/interviews/:mock_id", d.Interview.Delete)
	auth.POST("/interviews/:mock_id/feedback", d.Interview.SubmitAnswers)
	auth.GET("/interviews/:mock_id/feedback", d.Interview.GetFeedback)

	auth.POST("/assessments/quiz", d.Assessment.GenerateQuiz)
	auth.POST("/assessments", d.Assessment.SaveResult)
	auth.GET("/assessments", d.Assessment.List)

	auth.PUT("/resume", d.Resume.Save)
	auth.GET("/resume", d.Resume.Get)
	auth.POST("/resume/improve", d.Resume.Improve)
	auth.POST("/resume/files", d.Resume.UploadFile)
	auth.GET("/resume/files/latest", d.Resume.LatestFile)

	auth.POST("/cover-letters", d.CoverLetter.Generate)
	auth.GET("/cover-letters", d.CoverLetter.List)
	auth.GET("/cover-letters/:id", d.CoverLetter.Get)
	auth.PUT("/cover-letters/:id", d.CoverLetter.Update)
	auth.DELETE("/cover-letters/:id", d.CoverLetter.Delete)

	auth.GET("/insights", d.Insight.Get)

	// WebSocket
	auth.GET("/ws/interviews/:mock_id/attempt", d.WS.AttemptWS)

	// Admin
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.POST("/insights/:industry/refresh", d.Insight.Refresh)
}
