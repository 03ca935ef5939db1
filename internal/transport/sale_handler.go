package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"localshop/internal/middleware"
	"localshop/internal/service"
)

// SaleRequest is the body of POST /api/sales
type SaleRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type saleResponse struct {
	Success bool `json:"success"`
}

// SaleHandler serves the legacy sales endpoints
type SaleHandler struct {
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(inventory service.InventoryService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers the sale routes; all of them require a session
func (h *SaleHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Record)
	})
}

// List returns every sale with its product expanded
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.inventory.ListSales(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "failed to list sales")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

// Record sells quantity units of a product, decrementing its stock
func (h *SaleHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	sale, err := h.inventory.Sell(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, h.logger, err, "failed to record sale")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())
	h.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.String("user_id", userID),
	)
	middleware.RespondWithJSON(w, http.StatusOK, saleResponse{Success: true})
}
