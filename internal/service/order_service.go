package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jewel-shop/internal/domain"
	"jewel-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrNoItems         = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be at least 1")
	ErrInvalidStatus   = errors.New("unrecognized order status")
	ErrForbidden       = errors.New("admin privilege required")
)

// OrderItemInput is a requested order line.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput carries everything needed to build an order. The
// shipping address is an opaque snapshot stored verbatim on the order.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress json.RawMessage
	CustomerName    string
	Phone           string
	PaymentMethod   string
}

// OrderService defines the order lifecycle business logic
type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, in CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, role string, offset, limit int) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status, actorRole string) (*domain.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateOrder validates the requested lines, computes the total from the
// product prices fetched in the same pass, and persists the order header
// followed by its items. Any unknown product aborts the whole operation
// before anything is written. The two writes are intentionally separate:
// a crash between them leaves an items-empty pending order, which every
// reader treats as still-pending, never as paid.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, in CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}

	type pricedLine struct {
		productID uuid.UUID
		quantity  int
		price     decimal.Decimal
	}

	total := decimal.Zero
	lines := make([]pricedLine, 0, len(in.Items))

	for _, item := range in.Items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}

		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, fmt.Errorf("product %s: %w", item.ProductID, repository.ErrProductNotFound)
			}
			return nil, fmt.Errorf("failed to fetch product: %w", err)
		}

		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, pricedLine{
			productID: product.ID,
			quantity:  item.Quantity,
			price:     product.Price,
		})
	}

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodCOD
	}

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		CustomerName:    in.CustomerName,
		Phone:           in.Phone,
		PaymentMethod:   paymentMethod,
		Status:          domain.StatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		TotalAmount:     total,
		ShippingAddress: in.ShippingAddress,
		CreatedAt:       time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       line.productID,
			Quantity:        line.quantity,
			PriceAtPurchase: line.price,
		})
	}

	if err := s.orderRepo.CreateItems(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}
	order.Items = items

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("payment_method", paymentMethod),
		zap.String("total_amount", total.StringFixed(2)),
	)

	return order, nil
}

// GetOrder retrieves an order with its items
func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.orderRepo.FindItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// ListOrders returns the caller's orders, or every order for admins,
// newest first, with items attached.
func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, role string, offset, limit int) ([]*domain.Order, error) {
	var (
		orders []*domain.Order
		err    error
	)

	if role == domain.RoleAdmin {
		orders, err = s.orderRepo.ListAll(ctx, offset, limit)
	} else {
		orders, err = s.orderRepo.ListByUser(ctx, userID, offset, limit)
	}
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		items, err := s.orderRepo.FindItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

// UpdateStatus sets a fulfillment status directly. Only admins may call
// it, and the target must be one of the recognized fulfillment values;
// no transition-adjacency check is applied, any recognized status may be
// set from any other.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status, actorRole string) (*domain.Order, error) {
	if actorRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if !domain.IsFulfillmentStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", status),
	)

	return s.GetOrder(ctx, orderID)
}
