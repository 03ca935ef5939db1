package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"localshop/internal/middleware"
	"localshop/internal/service"
)

// QuoteRequest is the body of POST /api/orders/quote
type QuoteRequest struct {
	Items []service.QuoteLine `json:"items" validate:"required,min=1"`
}

// OrderHandler handles HTTP requests for orders
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/quote", h.Quote)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "failed to list orders")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err, "failed to get order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Create handles POST /api/orders. Submitted subtotal, tax and total are
// ignored; the order is always priced from its items.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.OrderInput
	if err := middleware.DecodeAndValidate(r, &in); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	order, err := h.orders.Create(r.Context(), in)
	if err != nil {
		respondError(w, h.logger, err, "failed to create order")
		return
	}

	h.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch service.OrderPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	order, err := h.orders.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, h.logger, err, "failed to update order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err, "failed to delete order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "Order deleted successfully"})
}

// Quote prices a list of lines against the current catalog without saving anything
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	quote, err := h.orders.Quote(r.Context(), req.Items)
	if err != nil {
		respondError(w, h.logger, err, "failed to price order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, quote)
}
