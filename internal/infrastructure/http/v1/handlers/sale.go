package handlers

import (
	"github.com/gin-gonic/gin"

	"bleuims/internal/domain/sale"
	"bleuims/internal/infrastructure/http/v1/dto"
)

// SaleHandler handles HTTP requests for sale-driven inventory deduction.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// DeductFromSale handles POST /materials/deduct-from-sale
func (h *SaleHandler) DeductFromSale(c *gin.Context) {
	var req dto.DeductFromSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items, err := req.ToModel()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.DeductFromSale(c.Request.Context(), items); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.DeductFromSaleResponse{Message: "Materials deducted successfully."})
}
