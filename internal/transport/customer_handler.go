package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"localshop/internal/middleware"
	"localshop/internal/service"
)

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	customers service.CustomerService
	logger    *zap.Logger
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers service.CustomerService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customers: customers,
		logger:    logger,
	}
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/customers", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "failed to list customers")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err, "failed to get customer")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CustomerInput
	if err := middleware.DecodeAndValidate(r, &in); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	customer, err := h.customers.Create(r.Context(), in)
	if err != nil {
		respondError(w, h.logger, err, "failed to create customer")
		return
	}

	h.logger.Info("Customer created", zap.String("customer_id", customer.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch service.CustomerPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	customer, err := h.customers.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, h.logger, err, "failed to update customer")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err, "failed to delete customer")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "Customer deleted successfully"})
}
