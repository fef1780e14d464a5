package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/careerforge/backend/internal/services"
	"github.com/careerforge/backend/internal/utils"
)

// WebhookHandler accepts server-to-server calls. Callers present the shared
// secret in X-Webhook-Secret; only its bcrypt hash lives in the environment.
type WebhookHandler struct {
	interviews services.InterviewService
	secretHash string
}

func NewWebhookHandler(interviews services.InterviewService) *WebhookHandler {
	return &WebhookHandler{
		interviews: interviews,
		secretHash: os.Getenv("WEBHOOK_SECRET_HASH"),
	}
}

func (h *WebhookHandler) authorize(c *gin.Context) bool {
	const op = "WebhookHandler.authorize"

	if h.secretHash == "" {
		writeError(c, utils.E(utils.CodeInternal, op, "WEBHOOK_SECRET_HASH is not set", nil))
		return false
	}
	secret := c.GetHeader("X-Webhook-Secret")
	if secret == "" {
		writeError(c, utils.E(utils.CodeUnauthorized, op, "missing webhook secret", nil))
		return false
	}
	if err := utils.CheckSecret(h.secretHash, secret); err != nil {
		writeError(c, utils.E(utils.CodeUnauthorized, op, "invalid webhook secret", err))
		return false
	}
	return true
}

type GenerateInterviewWebhook struct {
	AuthID string `json:"auth_id" binding:"required"`
	services.CreateInterviewInput
}

// GenerateInterview creates an interview on behalf of a user, for callers
// like a scheduling system that pre-builds question sets.
func (h *WebhookHandler) GenerateInterview(c *gin.Context) {
	if !h.authorize(c) {
		return
	}

	var req GenerateInterviewWebhook
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WebhookHandler.GenerateInterview", "invalid request body", err))
		return
	}

	iv, err := h.interviews.Create(c.Request.Context(), req.AuthID, req.CreateInterviewInput)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, iv)
}
