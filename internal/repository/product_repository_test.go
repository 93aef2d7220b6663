package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"jewel-shop/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestProduct(slug string) *domain.Product {
	now := time.Now()
	return &domain.Product{
		ID:        uuid.New(),
		Name:      "Gold Ring",
		Slug:      slug,
		Price:     decimal.RequireFromString("499.99"),
		Stock:     5,
		Category:  "rings",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProductCreate_DuplicateSlug(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	slug := "dup-slug-" + uuid.NewString()[:8]
	if err := repo.Create(ctx, newTestProduct(slug)); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	err := repo.Create(ctx, newTestProduct(slug))
	if !errors.Is(err, ErrSlugAlreadyExists) {
		t.Errorf("expected ErrSlugAlreadyExists, got %v", err)
	}
}

func TestProductFindBySlug(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	slug := "find-slug-" + uuid.NewString()[:8]
	product := newTestProduct(slug)
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.FindBySlug(ctx, slug)
	if err != nil {
		t.Fatalf("FindBySlug failed: %v", err)
	}
	if found.ID != product.ID {
		t.Errorf("wrong product found")
	}
	if !found.Price.Equal(product.Price) {
		t.Errorf("price mismatch: %s", found.Price)
	}

	if _, err := repo.FindBySlug(ctx, "missing-"+uuid.NewString()[:8]); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductDelete_BlockedWhenReferencedByOrders(t *testing.T) {
	productRepo := NewProductRepository(testDB)
	orderRepo := NewOrderRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("ordered-" + uuid.NewString()[:8])
	if err := productRepo.Create(ctx, product); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	userID := insertTestUser(t)
	order := newTestOrder(userID)
	if err := orderRepo.Create(ctx, order); err != nil {
		t.Fatalf("order Create failed: %v", err)
	}
	if err := orderRepo.CreateItems(ctx, []domain.OrderItem{{
		ID:              uuid.New(),
		OrderID:         order.ID,
		ProductID:       product.ID,
		Quantity:        1,
		PriceAtPurchase: product.Price,
	}}); err != nil {
		t.Fatalf("CreateItems failed: %v", err)
	}

	err := productRepo.Delete(ctx, product.ID)
	if !errors.Is(err, ErrProductInOrders) {
		t.Errorf("expected ErrProductInOrders, got %v", err)
	}

	// The product survives the refused delete.
	if _, err := productRepo.FindByID(ctx, product.ID); err != nil {
		t.Errorf("product missing after refused delete: %v", err)
	}
}

func TestProductDelete_Unreferenced(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := newTestProduct("free-" + uuid.NewString()[:8])
	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound after delete, got %v", err)
	}
}

func TestProductList_SkipsSoftDeleted(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	category := "cat-" + uuid.NewString()[:8]

	visible := newTestProduct("visible-" + uuid.NewString()[:8])
	visible.Category = category
	if err := repo.Create(ctx, visible); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	hidden := newTestProduct("hidden-" + uuid.NewString()[:8])
	hidden.Category = category
	hidden.IsDeleted = true
	if err := repo.Create(ctx, hidden); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	products, err := repo.List(ctx, category, 0, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].ID != visible.ID {
		t.Errorf("wrong product listed")
	}
}
