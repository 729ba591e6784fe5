package handlers

import (
	"github.com/gin-gonic/gin"

	"bleuims/internal/domain/material"
	"bleuims/internal/infrastructure/http/v1/dto"
)

// MaterialHandler handles HTTP requests for the material ledger.
type MaterialHandler struct {
	*BaseHandler
	service *material.Service
}

// NewMaterialHandler creates a new material handler.
func NewMaterialHandler(base *BaseHandler, service *material.Service) *MaterialHandler {
	return &MaterialHandler{BaseHandler: base, service: service}
}

// List handles GET /materials
func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.service.List(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMaterials(materials))
}

// Create handles POST /materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var req dto.MaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := req.ToModel()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), m)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromMaterial(created))
}

// Update handles PUT /materials/:materialId
func (h *MaterialHandler) Update(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "materialId")
	if !ok {
		return
	}

	var req dto.MaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := req.ToModel()
	if err != nil {
		h.Error(c, err)
		return
	}
	m.ID = id

	updated, err := h.service.Update(c.Request.Context(), m)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMaterial(updated))
}

// Delete handles DELETE /materials/:materialId
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "materialId")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"message": "Material deleted successfully."})
}

// Count handles GET /materials/count
func (h *MaterialHandler) Count(c *gin.Context) {
	n, err := h.service.Count(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.CountResponse{Count: n})
}

// StockStatusCounts handles GET /materials/stock-status-counts
func (h *MaterialHandler) StockStatusCounts(c *gin.Context) {
	counts, err := h.service.StockStatusCounts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStatusCounts(counts))
}

// LowStockAlerts handles GET /materials/low-stock-alerts
func (h *MaterialHandler) LowStockAlerts(c *gin.Context) {
	alerts, err := h.service.LowStockAlerts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromLowStockAlerts(alerts))
}
