package handlers

import (
	"net/http"

	"github.com/careerai/backend/internal/providers/captcha"
	"github.com/gin-gonic/gin"
)

type CaptchaHandler struct {
	verifier captcha.Verifier
}

func NewCaptchaHandler(verifier captcha.Verifier) *CaptchaHandler {
	return &CaptchaHandler{verifier: verifier}
}

type VerifyCaptchaRequest struct {
	Token string `json:"token" binding:"required"`
}

func (h *CaptchaHandler) Verify(c *gin.Context) {
	var req VerifyCaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "token is required",
		})
		return
	}

	if !h.verifier.Verify(c.Request.Context(), req.Token) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "captcha verification failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
