package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storefrontlabs/productsearch/internal/catalog"
	"github.com/storefrontlabs/productsearch/internal/domain"
	"github.com/storefrontlabs/productsearch/pkg/httputil"
	"github.com/storefrontlabs/productsearch/pkg/pagination"
	"github.com/storefrontlabs/productsearch/pkg/validator"
)

// CatalogHandler handles HTTP requests for the mirrored catalog.
type CatalogHandler struct {
	store  *catalog.Store
	client *catalog.Client
	logger *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(store *catalog.Store, client *catalog.Client, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		store:  store,
		client: client,
		logger: logger,
	}
}

// AddProductRequest is the JSON request body for injecting a product
// into the mirror. Newly added products become searchable once the
// index picks up the change.
type AddProductRequest struct {
	ID          int      `json:"id" validate:"required,gt=0"`
	Title       string   `json:"title" validate:"required,min=1"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required,min=1"`
	Brand       string   `json:"brand"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Image       string   `json:"image" validate:"omitempty,url"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)
	window, total := pagination.Window(h.store.Snapshot(), params)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(window, total, params),
	})
}

// GetProduct handles GET /api/v1/products/{id}. Products not yet
// mirrored locally are fetched from the upstream API directly.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseIntID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if product, found := h.store.Get(id); found {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
		return
	}

	product, err := h.client.FetchByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.client.FetchCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// ListCategoryProducts handles GET /api/v1/categories/{category}/products
func (h *CatalogHandler) ListCategoryProducts(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	products, err := h.client.FetchByCategory(r.Context(), category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// AddProduct handles POST /api/v1/catalog/products
func (h *CatalogHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if _, exists := h.store.Get(req.ID); exists {
		httputil.WriteJSON(w, http.StatusConflict, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "ALREADY_EXISTS", Message: "product id already in catalog"},
		})
		return
	}

	product := domain.Product{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
		Images:      req.Images,
	}
	h.store.Append([]domain.Product{product}, -1)

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: map[string]any{"id": product.ID, "status": "added"},
	})
}
