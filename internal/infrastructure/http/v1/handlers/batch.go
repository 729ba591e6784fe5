package handlers

import (
	"github.com/gin-gonic/gin"

	"bleuims/internal/domain/batch"
	"bleuims/internal/infrastructure/http/v1/dto"
)

// BatchHandler handles HTTP requests for the batch recorder.
type BatchHandler struct {
	*BaseHandler
	service *batch.Service
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(base *BaseHandler, service *batch.Service) *BatchHandler {
	return &BatchHandler{BaseHandler: base, service: service}
}

// Create handles POST /material-batches
func (h *BatchHandler) Create(c *gin.Context) {
	var req dto.CreateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := req.ToModel()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), b)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromBatch(created))
}

// ListAll handles GET /material-batches
func (h *BatchHandler) ListAll(c *gin.Context) {
	batches, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBatches(batches))
}

// ListByMaterial handles GET /material-batches/:materialId
func (h *BatchHandler) ListByMaterial(c *gin.Context) {
	materialID, ok := h.ParseIDParam(c, "materialId")
	if !ok {
		return
	}

	batches, err := h.service.ListByMaterial(c.Request.Context(), materialID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBatches(batches))
}

// Update handles PUT /material-batches/:batchId
func (h *BatchHandler) Update(c *gin.Context) {
	batchID, ok := h.ParseIDParam(c, "batchId")
	if !ok {
		return
	}

	var req dto.UpdateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	u, err := req.ToUpdate()
	if err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), batchID, u)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBatch(updated))
}
