package handlers

import (
	"net/http"

	"github.com/careerai/backend/internal/services"
	"github.com/careerai/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
	Bio  string `json:"bio"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	_, email, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProfileHandler.Update", "invalid request body", err))
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), email, req.Name, req.Bio)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}
