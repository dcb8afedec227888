package handlers

import (
	"net/http"
	"strconv"

	"github.com/careerai/backend/internal/services"
	"github.com/careerai/backend/internal/utils"
	"github.com/gin-gonic/gin"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

type StartInterviewRequest struct {
	Position string `json:"position" binding:"required"`
}

func (h *InterviewHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "invalid request body", err))
		return
	}

	iv, err := h.svc.Start(c.Request.Context(), userID, req.Position)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, iv)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	iv, err := h.svc.Get(c.Request.Context(), c.Param("interview_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if iv.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewHandler.Get", "forbidden", nil))
		return
	}

	c.JSON(http.StatusOK, iv)
}

func (h *InterviewHandler) End(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	interviewID := c.Param("interview_id")

	iv, err := h.svc.Get(c.Request.Context(), interviewID)
	if err != nil {
		writeError(c, err)
		return
	}
	if iv.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewHandler.End", "forbidden", nil))
		return
	}

	ended, err := h.svc.End(c.Request.Context(), interviewID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ended)
}

func (h *InterviewHandler) ListMessages(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	interviewID := c.Param("interview_id")

	iv, err := h.svc.Get(c.Request.Context(), interviewID)
	if err != nil {
		writeError(c, err)
		return
	}
	if iv.UserID != userID {
		writeError(c, utils.E(utils.CodeForbidden, "InterviewHandler.ListMessages", "forbidden", nil))
		return
	}

	limit := int64(200)
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	rows, err := h.svc.ListMessages(c.Request.Context(), interviewID, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"interview_id": interviewID,
		"messages":     rows,
	})
}
