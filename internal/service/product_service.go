package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"jewel-shop/internal/domain"
	"jewel-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrInvalidPrice = errors.New("price must not be negative")

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSeparators   = regexp.MustCompile(`[\s-]+`)
)

// Slugify derives a URL-safe slug from a product name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugSeparators.ReplaceAllString(slug, "-")
	return slug
}

// CreateProductInput carries the fields of a new catalog entry.
type CreateProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	Category    string
	IsFeatured  bool
}

// ProductService defines the catalog business logic
type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, slugOrID string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, slugOrID string) (*domain.Product, error)
	GetBySlugOrID(ctx context.Context, slugOrID string) (*domain.Product, error)
	List(ctx context.Context, category string, offset, limit int) ([]*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create adds a product to the catalog, generating a slug from the name
// when none is supplied.
func (s *productService) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	if in.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Name)
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
		IsFeatured:  in.IsFeatured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug),
	)

	return product, nil
}

// Update applies a typed patch to a product looked up by slug or id
func (s *productService) Update(ctx context.Context, slugOrID string, patch domain.ProductPatch) (*domain.Product, error) {
	product, err := s.GetBySlugOrID(ctx, slugOrID)
	if err != nil {
		return nil, err
	}

	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	patch.Apply(product)
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete hard-deletes a product. When existing order items still
// reference it the delete is blocked and the caller is told to mark it
// deleted instead (repository.ErrProductInOrders).
func (s *productService) Delete(ctx context.Context, slugOrID string) (*domain.Product, error) {
	product, err := s.GetBySlugOrID(ctx, slugOrID)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Product deleted", zap.String("product_id", product.ID.String()))
	return product, nil
}

// GetBySlugOrID looks a product up by slug first, falling back to id
// when the path segment parses as a UUID.
func (s *productService) GetBySlugOrID(ctx context.Context, slugOrID string) (*domain.Product, error) {
	product, err := s.productRepo.FindBySlug(ctx, slugOrID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, repository.ErrProductNotFound) {
		return nil, err
	}

	id, parseErr := uuid.Parse(slugOrID)
	if parseErr != nil {
		return nil, repository.ErrProductNotFound
	}
	return s.productRepo.FindByID(ctx, id)
}

// List returns non-deleted products with optional category filtering
func (s *productService) List(ctx context.Context, category string, offset, limit int) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, category, offset, limit)
}
