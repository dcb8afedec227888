package handlers

import (
	"net/http"

	"github.com/careerai/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type HistoryHandler struct {
	svc services.HistoryService
}

func NewHistoryHandler(svc services.HistoryService) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

func (h *HistoryHandler) Get(c *gin.Context) {
	_, email, ok := requireIdentity(c)
	if !ok {
		return
	}

	snap, err := h.svc.Fetch(c.Request.Context(), email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}
