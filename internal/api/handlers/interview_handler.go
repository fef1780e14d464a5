package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerforge/backend/internal/models"
	"github.com/careerforge/backend/internal/services"
	"github.com/careerforge/backend/internal/utils"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

func (h *InterviewHandler) Create(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateInterviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Create", "invalid request body", err))
		return
	}

	iv, err := h.svc.Create(c.Request.Context(), authID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, iv)
}

func (h *InterviewHandler) List(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.List(c.Request.Context(), authID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": rows})
}

func (h *InterviewHandler) Get(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	iv, err := h.svc.Get(c.Request.Context(), authID, c.Param("mock_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (h *InterviewHandler) Delete(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), authID, c.Param("mock_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type SubmitAnswersRequest struct {
	Answers []string `json:"answers" binding:"required"`
}

// FeedbackResponse decorates the stored row with the presentation band so
// clients never re-derive score thresholds.
type FeedbackResponse struct {
	*models.Feedback
	Band models.Band `json:"band"`
}

func (h *InterviewHandler) SubmitAnswers(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.SubmitAnswers", "invalid request body", err))
		return
	}

	fb, err := h.svc.SubmitAnswers(c.Request.Context(), authID, c.Param("mock_id"), req.Answers)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FeedbackResponse{Feedback: fb, Band: fb.Band()})
}

func (h *InterviewHandler) GetFeedback(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	fb, err := h.svc.GetFeedback(c.Request.Context(), authID, c.Param("mock_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FeedbackResponse{Feedback: fb, Band: fb.Band()})
}
