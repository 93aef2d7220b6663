package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jewel-shop/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrAddressNotFound = errors.New("address not found")
)

// AddressRepository defines the interface for address data access. All
// lookups are scoped to the owning user.
type AddressRepository interface {
	Create(ctx context.Context, address *domain.Address) error
	Update(ctx context.Context, address *domain.Address) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*domain.Address, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error)
}

type addressRepository struct {
	db *sql.DB
}

// NewAddressRepository creates a new instance of AddressRepository
func NewAddressRepository(db *sql.DB) AddressRepository {
	return &addressRepository{db: db}
}

// Create inserts a new address into the database
func (r *addressRepository) Create(ctx context.Context, address *domain.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, street, city, state, zip, country, is_default, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		address.ID,
		address.UserID,
		address.Street,
		address.City,
		address.State,
		address.Zip,
		address.Country,
		address.IsDefault,
		address.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	return nil
}

// Update persists changes to an existing address
func (r *addressRepository) Update(ctx context.Context, address *domain.Address) error {
	query := `
		UPDATE addresses
		SET street = $3, city = $4, state = $5, zip = $6, country = $7, is_default = $8
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		address.ID,
		address.UserID,
		address.Street,
		address.City,
		address.State,
		address.Zip,
		address.Country,
		address.IsDefault,
	)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAddressNotFound
	}

	return nil
}

// Delete removes an address owned by the given user
func (r *addressRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM addresses WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAddressNotFound
	}

	return nil
}

// FindByID retrieves an address owned by the given user
func (r *addressRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*domain.Address, error) {
	query := `
		SELECT id, user_id, street, city, state, zip, country, is_default, created_at
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`

	address := &domain.Address{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&address.ID,
		&address.UserID,
		&address.Street,
		&address.City,
		&address.State,
		&address.Zip,
		&address.Country,
		&address.IsDefault,
		&address.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("failed to find address: %w", err)
	}

	return address, nil
}

// ListByUser retrieves all addresses owned by a user
func (r *addressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	query := `
		SELECT id, user_id, street, city, state, zip, country, is_default, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []*domain.Address{}
	for rows.Next() {
		address := &domain.Address{}
		err := rows.Scan(
			&address.ID,
			&address.UserID,
			&address.Street,
			&address.City,
			&address.State,
			&address.Zip,
			&address.Country,
			&address.IsDefault,
			&address.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, address)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}
