package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerforge/backend/internal/services"
	"github.com/careerforge/backend/internal/utils"
)

type CoverLetterHandler struct {
	svc services.CoverLetterService
}

func NewCoverLetterHandler(svc services.CoverLetterService) *CoverLetterHandler {
	return &CoverLetterHandler{svc: svc}
}

func (h *CoverLetterHandler) Generate(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.GenerateCoverLetterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CoverLetterHandler.Generate", "invalid request body", err))
		return
	}

	cl, err := h.svc.Generate(c.Request.Context(), authID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cl)
}

func (h *CoverLetterHandler) List(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.List(c.Request.Context(), authID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cover_letters": rows})
}

func (h *CoverLetterHandler) Get(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	cl, err := h.svc.Get(c.Request.Context(), authID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (h *CoverLetterHandler) Update(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdateCoverLetterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CoverLetterHandler.Update", "invalid request body", err))
		return
	}

	cl, err := h.svc.Update(c.Request.Context(), authID, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (h *CoverLetterHandler) Delete(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), authID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
