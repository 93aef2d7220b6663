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
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access. The order
// header and its items are written separately on purpose: readers must
// tolerate an order whose items have not landed yet and treat it as
// still-pending.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateItems(ctx context.Context, items []domain.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)
	FindItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Order, error)
	ListAll(ctx context.Context, offset, limit int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error
	MarkPaid(ctx context.Context, id uuid.UUID, gatewayPaymentID string) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, user_id, customer_name, phone, payment_method, status, payment_status,
		total_amount, shipping_address, razorpay_order_id, razorpay_payment_id, created_at`

// Create inserts the order header
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, user_id, customer_name, phone, payment_method, status, payment_status,
			total_amount, shipping_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		order.ID,
		order.UserID,
		order.CustomerName,
		order.Phone,
		order.PaymentMethod,
		order.Status,
		order.PaymentStatus,
		order.TotalAmount,
		order.ShippingAddress,
		order.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// CreateItems inserts the order line items
func (r *orderRepository) CreateItems(ctx context.Context, items []domain.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, item := range items {
		_, err := r.db.ExecContext(
			ctx,
			query,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.PriceAtPurchase,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

// FindByID retrieves an order header by ID
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOrder(r.db.QueryRowContext(ctx, query, id))
}

// FindByGatewayOrderID retrieves an order by the id assigned by the
// payment gateway when the remote order was created.
func (r *orderRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE razorpay_order_id = $1`
	return r.scanOrder(r.db.QueryRowContext(ctx, query, gatewayOrderID))
}

// FindItems retrieves the line items of an order
func (r *orderRepository) FindItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price_at_purchase
		FROM order_items
		WHERE order_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// ListByUser retrieves a user's orders, newest first
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(rows)
}

// ListAll retrieves all orders, newest first
func (r *orderRepository) ListAll(ctx context.Context, offset, limit int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(rows)
}

// UpdateStatus sets the fulfillment status of an order
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE orders SET status = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// SetGatewayOrderID stores the gateway order id on a local order. The
// update writes a single field and is safe to retry.
func (r *orderRepository) SetGatewayOrderID(ctx context.Context, id uuid.UUID, gatewayOrderID string) error {
	query := `UPDATE orders SET razorpay_order_id = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, gatewayOrderID)
	if err != nil {
		return fmt.Errorf("failed to set gateway order id: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// MarkPaid transitions an order to paid/captured and records the gateway
// payment id. The update is value-idempotent: applying it twice with the
// same payment id leaves the same final state, which makes concurrent
// webhook deliveries for the same payment safe without locks.
func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, gatewayPaymentID string) error {
	query := `
		UPDATE orders
		SET status = $2, payment_status = $3, razorpay_payment_id = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, domain.StatusPaid, domain.PaymentStatusCaptured, gatewayPaymentID)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func (r *orderRepository) scanOrder(row *sql.Row) (*domain.Order, error) {
	order := &domain.Order{}
	var gatewayOrderID, gatewayPaymentID sql.NullString

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.CustomerName,
		&order.Phone,
		&order.PaymentMethod,
		&order.Status,
		&order.PaymentStatus,
		&order.TotalAmount,
		&order.ShippingAddress,
		&gatewayOrderID,
		&gatewayPaymentID,
		&order.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	order.RazorpayOrderID = gatewayOrderID.String
	order.RazorpayPaymentID = gatewayPaymentID.String

	return order, nil
}

func (r *orderRepository) collectOrders(rows *sql.Rows) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		var gatewayOrderID, gatewayPaymentID sql.NullString

		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.CustomerName,
			&order.Phone,
			&order.PaymentMethod,
			&order.Status,
			&order.PaymentStatus,
			&order.TotalAmount,
			&order.ShippingAddress,
			&gatewayOrderID,
			&gatewayPaymentID,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		order.RazorpayOrderID = gatewayOrderID.String
		order.RazorpayPaymentID = gatewayPaymentID.String
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
