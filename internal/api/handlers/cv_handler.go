package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/careerai/backend/internal/services"
	"github.com/careerai/backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CVHandler struct {
	svc      services.CVService
	analyses services.AnalysisService
}

func NewCVHandler(svc services.CVService, analyses services.AnalysisService) *CVHandler {
	return &CVHandler{svc: svc, analyses: analyses}
}

func (h *CVHandler) Upload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "missing multipart field 'file'", err))
		return
	}

	// basic validation
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "only .pdf is allowed", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > 10<<20 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "CVHandler.Upload", "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	ct := http.DetectContentType(head)
	if ct != "application/pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CVHandler.Upload", "invalid content type (must be pdf)", nil))
		return
	}

	// re-compose stream: head + remaining file
	reader := bytes.NewReader(head)
	r := &readJoin{a: reader, b: file}

	objectName := "cv/" + userID + "/" + uuid.NewString() + ".pdf"

	title := c.PostForm("title")
	cvText := c.PostForm("text")

	row, err := h.svc.Upload(c.Request.Context(), userID, title, fh.Filename, int(fh.Size), "application/pdf", objectName, cvText, r)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

func (h *CVHandler) DownloadURL(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	url, err := h.svc.DownloadURL(c.Request.Context(), userID, c.Param("cv_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *CVHandler) Analyze(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cvID := c.Param("cv_id")
	row, err := h.analyses.Analyze(c.Request.Context(), userID, cvID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, row)
}

type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}
