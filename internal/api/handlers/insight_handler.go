package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerforge/backend/internal/services"
)

type InsightHandler struct {
	svc services.InsightService
}

func NewInsightHandler(svc services.InsightService) *InsightHandler {
	return &InsightHandler{svc: svc}
}

func (h *InsightHandler) Get(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	in, err := h.svc.GetUserInsights(c.Request.Context(), authID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}

// Refresh force-regenerates one industry row. Admin only; routed behind
// RequireAdmin.
func (h *InsightHandler) Refresh(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	in, err := h.svc.Refresh(c.Request.Context(), c.Param("industry"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}
