package handlers

import (
	"net/http"

	"github.com/careerai/backend/internal/services"
	"github.com/careerai/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	svc services.ApprovalService
}

func NewAdminHandler(svc services.ApprovalService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Approve is a strict bool pointer so that a missing field and a non-bool
// value (e.g. "true") are both rejected instead of coerced.
type ApproveUserRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Approve *bool  `json:"approve" binding:"required"`
}

func (h *AdminHandler) ApproveUser(c *gin.Context) {
	_, email, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req ApproveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Approve == nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AdminHandler.ApproveUser", "invalid request body", err))
		return
	}

	user, err := h.svc.SetApproval(c.Request.Context(), req.UserID, *req.Approve, email)
	if err != nil {
		writeError(c, err)
		return
	}

	msg := "user approval revoked"
	if user.Approved {
		msg = "user approved"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg,
	})
}
