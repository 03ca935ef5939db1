package transport

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"localshop/internal/middleware"
	"localshop/internal/repository"
	"localshop/internal/service"
)

// ProductHandler handles HTTP requests for the product catalog
type ProductHandler struct {
	products service.ProductService
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /api/products?category=&search=&sortBy=&sortOrder=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.ProductFilter{
		Category:  query.Get("category"),
		Search:    query.Get("search"),
		SortBy:    query.Get("sortBy"),
		SortOrder: repository.SortOrder(strings.ToUpper(query.Get("sortOrder"))),
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, h.logger, err, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if err := middleware.DecodeAndValidate(r, &in); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.products.Create(r.Context(), in)
	if err != nil {
		respondError(w, h.logger, err, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id}. Absent fields keep their value.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch service.ProductPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.products.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, h.logger, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.products.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}
