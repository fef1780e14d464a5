package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerforge/backend/internal/services"
	"github.com/careerforge/backend/internal/utils"
)

type AssessmentHandler struct {
	svc services.AssessmentService
}

func NewAssessmentHandler(svc services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{svc: svc}
}

func (h *AssessmentHandler) GenerateQuiz(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	questions, err := h.svc.GenerateQuiz(c.Request.Context(), authID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *AssessmentHandler) SaveResult(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.QuizResultInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AssessmentHandler.SaveResult", "invalid request body", err))
		return
	}

	a, err := h.svc.SaveResult(c.Request.Context(), authID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AssessmentHandler) List(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.List(c.Request.Context(), authID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessments": rows})
}
