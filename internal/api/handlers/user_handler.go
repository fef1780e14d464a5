package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careerforge/backend/internal/services"
	"github.com/careerforge/backend/internal/utils"
)

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type SyncUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Sync mirrors the authenticated subject into the local users table. The
// frontend calls this right after sign-in; body fields win over token
// metadata when both are present.
func (h *UserHandler) Sync(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SyncUserRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	email := req.Email
	if email == "" {
		email = ctxString(c, "email")
	}
	name := req.Name
	if name == "" {
		name = ctxString(c, "name")
	}

	u, err := h.svc.EnsureUser(c.Request.Context(), authID, email, name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Me(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	u, err := h.svc.GetMe(c.Request.Context(), authID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Onboarding(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	status, err := h.svc.Onboarding(c.Request.Context(), authID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	authID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "UserHandler.UpdateProfile", "invalid request body", err))
		return
	}

	u, err := h.svc.UpdateProfile(c.Request.Context(), authID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
