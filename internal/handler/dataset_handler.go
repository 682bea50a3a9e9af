package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/lastmile-backend-go/internal/service"
	"github.com/jengzang/lastmile-backend-go/pkg/response"
)

// DatasetHandler handles HTTP requests for the loaded dataset
type DatasetHandler struct {
	datasets *service.DatasetService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(datasets *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasets: datasets}
}

// GetStatus handles GET /api/v1/dataset
func (h *DatasetHandler) GetStatus(c *gin.Context) {
	status, err := h.datasets.Status(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, status)
}

// Reload handles POST /api/v1/dataset/reload
func (h *DatasetHandler) Reload(c *gin.Context) {
	status, err := h.datasets.Reload(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, status)
}

// ListLoads handles GET /api/v1/dataset/loads
func (h *DatasetHandler) ListLoads(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}

	loads, err := h.datasets.Loads(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"loads": loads,
		"count": len(loads),
	})
}
