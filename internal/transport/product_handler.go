package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"jewel-shop/internal/domain"
	"jewel-shop/internal/middleware"
	"jewel-shop/internal/repository"
	"jewel-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest represents a product create payload
type ProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"image_url"`
	Category    string          `json:"category"`
	IsFeatured  bool            `json:"is_featured"`
}

// ProductPatchRequest represents a product update payload; absent fields
// are left unchanged
type ProductPatchRequest struct {
	Name        *string          `json:"name"`
	Slug        *string          `json:"slug"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock"`
	ImageURL    *string          `json:"image_url"`
	Category    *string          `json:"category"`
	IsFeatured  *bool            `json:"is_featured"`
	IsDeleted   *bool            `json:"is_deleted"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers catalog routes. Reads are public; mutations
// require the admin role.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{slug}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			r.Post("/", h.Create)
			r.Put("/{slug}", h.Update)
			r.Delete("/{slug}", h.Delete)
		})
	})
}

// List returns catalog products with optional category filtering
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, limit := paginationParams(r, 100)
	category := r.URL.Query().Get("category")

	products, err := h.productService.List(r.Context(), category, offset, limit)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get returns a single product by slug, falling back to id
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.GetBySlugOrID(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), service.CreateProductInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSlugAlreadyExists):
			middleware.RespondWithError(w, http.StatusBadRequest, "product with this slug already exists")
		case errors.Is(err, service.ErrInvalidPrice):
			middleware.RespondWithError(w, http.StatusBadRequest, "price must not be negative")
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update applies a partial update to a product
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ProductPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Update(r.Context(), chi.URLParam(r, "slug"), domain.ProductPatch{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		IsFeatured:  req.IsFeatured,
		IsDeleted:   req.IsDeleted,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrSlugAlreadyExists):
			middleware.RespondWithError(w, http.StatusBadRequest, "product with this slug already exists")
		case errors.Is(err, service.ErrInvalidPrice):
			middleware.RespondWithError(w, http.StatusBadRequest, "price must not be negative")
		default:
			h.logger.Error("Failed to update product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product. Products referenced by existing orders
// cannot be hard-deleted; the caller is told to disable them instead.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Delete(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrProductInOrders):
			middleware.RespondWithError(w, http.StatusBadRequest,
				"cannot delete this product because it is part of existing orders; mark it as deleted instead")
		default:
			h.logger.Error("Failed to delete product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// paginationParams extracts offset/limit query parameters with bounds
func paginationParams(r *http.Request, defaultLimit int) (offset, limit int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return offset, limit
}
