package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jewel-shop/internal/database"
	"jewel-shop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlugAlreadyExists = errors.New("product with this slug already exists")
	// ErrProductInOrders is returned when a delete is blocked by order
	// items that still reference the product. Callers should mark the
	// product as deleted instead.
	ErrProductInOrders = errors.New("product is referenced by existing orders")
)

const productColumns = `id, name, slug, description, price, stock, image_url, category, is_featured, is_deleted, created_at, updated_at`

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, category string, offset, limit int) ([]*domain.Product, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.Stock,
		product.ImageURL,
		product.Category,
		product.IsFeatured,
		product.IsDeleted,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if database.IsUniqueViolation(err, "products_slug_key") {
			return ErrSlugAlreadyExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product in the database
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, slug = $3, description = $4, price = $5, stock = $6,
		    image_url = $7, category = $8, is_featured = $9, is_deleted = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.Stock,
		product.ImageURL,
		product.Category,
		product.IsFeatured,
		product.IsDeleted,
		product.UpdatedAt,
	)

	if err != nil {
		if database.IsUniqueViolation(err, "products_slug_key") {
			return ErrSlugAlreadyExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database. Deletes blocked by order
// item references surface as ErrProductInOrders.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrProductInOrders
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanProduct(r.db.QueryRowContext(ctx, query, id))
}

// FindBySlug retrieves a product by its unique slug
func (r *productRepository) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	return r.scanProduct(r.db.QueryRowContext(ctx, query, slug))
}

// List retrieves non-deleted products with optional category filtering
// and pagination
func (r *productRepository) List(ctx context.Context, category string, offset, limit int) ([]*domain.Product, error) {
	args := []interface{}{limit, offset}
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_deleted = FALSE
	`
	if category != "" {
		query += ` AND category = $3`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Slug,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.ImageURL,
			&product.Category,
			&product.IsFeatured,
			&product.IsDeleted,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func (r *productRepository) scanProduct(row *sql.Row) (*domain.Product, error) {
	product := &domain.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.ImageURL,
		&product.Category,
		&product.IsFeatured,
		&product.IsDeleted,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}
