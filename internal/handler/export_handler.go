package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/lastmile-backend-go/internal/export"
	"github.com/jengzang/lastmile-backend-go/internal/models"
	"github.com/jengzang/lastmile-backend-go/internal/service"
	"github.com/jengzang/lastmile-backend-go/pkg/response"
)

// ExportHandler handles HTTP requests for filtered data downloads
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download handles GET /api/v1/export?format=csv|xlsx
func (h *ExportHandler) Download(c *gin.Context) {
	f, ok := filterOrAbort(c)
	if !ok {
		return
	}

	format := c.Query("format")
	if format != "" && format != models.ExportFormatCSV && format != models.ExportFormatXLSX {
		response.BadRequest(c, fmt.Sprintf("Unsupported export format %q", format))
		return
	}

	var buf bytes.Buffer
	rec, err := h.exports.Export(c.Request.Context(), &buf, f, format, models.ExportTriggerAPI)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rec.FileName))
	c.Data(http.StatusOK, export.ContentType(rec.Format), buf.Bytes())
}

// ListExports handles GET /api/v1/exports
func (h *ExportHandler) ListExports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}

	history, err := h.exports.History(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"exports": history,
		"count":   len(history),
	})
}
