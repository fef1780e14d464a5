package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerforge/backend/internal/services"
	"github.com/careerforge/backend/internal/utils"
)

const maxResumeUpload = 8 << 20 // 8 MiB

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

type SaveResumeRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *ResumeHandler) Save(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SaveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Save", "invalid request body", err))
		return
	}

	res, err := h.svc.Save(c.Request.Context(), authID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ResumeHandler) Get(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	res, err := h.svc.Get(c.Request.Context(), authID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type ImproveResumeRequest struct {
	Current     string `json:"current" binding:"required"`
	SectionType string `json:"section_type"`
}

func (h *ResumeHandler) Improve(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ImproveResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Improve", "invalid request body", err))
		return
	}

	improved, err := h.svc.Improve(c.Request.Context(), authID, req.Current, req.SectionType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"improved": improved})
}

func (h *ResumeHandler) UploadFile(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.UploadFile", "file field is required", err))
		return
	}
	if fh.Size > maxResumeUpload {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.UploadFile", "file too large", nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "ResumeHandler.UploadFile", "failed to read upload", err))
		return
	}
	defer f.Close()

	out, err := h.svc.UploadFile(c.Request.Context(), authID, fh.Filename,
		fh.Header.Get("Content-Type"), int(fh.Size), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *ResumeHandler) LatestFile(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.LatestFile(c.Request.Context(), authID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
