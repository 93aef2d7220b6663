package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"jewel-shop/internal/config"
	"jewel-shop/internal/domain"
	"jewel-shop/internal/gateway"
	"jewel-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrPaymentGateway   = errors.New("payment gateway error")
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// eventPaymentCaptured is the only webhook event that mutates order
// state; everything else is acknowledged untouched.
const eventPaymentCaptured = "payment.captured"

// PaymentOrder is returned to the client so it can open the gateway's
// checkout against the remote order.
type PaymentOrder struct {
	OrderID        uuid.UUID       `json:"order_id"`
	GatewayOrderID string          `json:"razorpay_order_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	KeyID          string          `json:"key_id"`
}

// webhookEvent is the gateway's event envelope. Only the fields the
// reconciler needs are decoded.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// PaymentService defines payment initiation and webhook reconciliation
type PaymentService interface {
	CreatePaymentOrder(ctx context.Context, userID uuid.UUID, in CreateOrderInput) (*PaymentOrder, error)
	HandleWebhook(ctx context.Context, rawBody []byte, signature string) error
}

type paymentService struct {
	orderService OrderService
	orderRepo    repository.OrderRepository
	gateway      gateway.Gateway
	currency     string
	keyID        string
	logger       *zap.Logger
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(
	orderService OrderService,
	orderRepo repository.OrderRepository,
	gw gateway.Gateway,
	cfg config.RazorpayConfig,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		orderService: orderService,
		orderRepo:    orderRepo,
		gateway:      gw,
		currency:     cfg.Currency,
		keyID:        cfg.KeyID,
		logger:       logger,
	}
}

// CreatePaymentOrder builds a local order, registers a matching order
// with the gateway, and stores the returned gateway order id. If the
// gateway call fails, the local order is left PENDING with no gateway
// id; there is no automatic rollback, the caller retries or abandons.
func (s *paymentService) CreatePaymentOrder(ctx context.Context, userID uuid.UUID, in CreateOrderInput) (*PaymentOrder, error) {
	in.PaymentMethod = domain.PaymentMethodRazorpay

	order, err := s.orderService.CreateOrder(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	// Gateway amounts are integer minor units (paise), never fractional.
	amountMinor := order.TotalAmount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, amountMinor, s.currency, order.ID.String())
	if err != nil {
		s.logger.Error("Gateway order creation failed, local order left pending",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	// Single-field update, idempotent to retry.
	if err := s.orderRepo.SetGatewayOrderID(ctx, order.ID, gatewayOrderID); err != nil {
		return nil, fmt.Errorf("failed to store gateway order id: %w", err)
	}

	s.logger.Info("Payment order created",
		zap.String("order_id", order.ID.String()),
		zap.String("razorpay_order_id", gatewayOrderID),
		zap.Int64("amount_minor", amountMinor),
		zap.String("currency", s.currency),
	)

	return &PaymentOrder{
		OrderID:        order.ID,
		GatewayOrderID: gatewayOrderID,
		Amount:         order.TotalAmount,
		Currency:       s.currency,
		KeyID:          s.keyID,
	}, nil
}

// HandleWebhook reconciles an asynchronous gateway notification with the
// local order it refers to. The signature is verified over the raw body
// before anything is parsed or looked up; past that point the handler
// always acknowledges so the gateway stops retrying. Orphan events and
// unrecognized types are logged and swallowed, never surfaced.
func (s *paymentService) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}
	if !s.gateway.VerifyWebhookSignature(rawBody, signature) {
		return ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		s.logger.Warn("Webhook body did not parse, acknowledging anyway", zap.Error(err))
		return nil
	}

	if event.Event != eventPaymentCaptured {
		s.logger.Debug("Ignoring webhook event", zap.String("event", event.Event))
		return nil
	}

	gatewayOrderID := event.Payload.Payment.Entity.OrderID
	gatewayPaymentID := event.Payload.Payment.Entity.ID

	order, err := s.orderRepo.FindByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			s.logger.Warn("No order matches gateway order id, acknowledging",
				zap.String("razorpay_order_id", gatewayOrderID),
			)
			return nil
		}
		return fmt.Errorf("failed to look up order: %w", err)
	}

	// Redelivery of an already-applied capture: same values, skip the write.
	if order.Status == domain.StatusPaid && order.RazorpayPaymentID == gatewayPaymentID {
		s.logger.Info("Duplicate payment.captured delivery, skipping",
			zap.String("order_id", order.ID.String()),
			zap.String("razorpay_payment_id", gatewayPaymentID),
		)
		return nil
	}

	if err := s.orderRepo.MarkPaid(ctx, order.ID, gatewayPaymentID); err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}

	s.logger.Info("Order marked as paid via webhook",
		zap.String("order_id", order.ID.String()),
		zap.String("razorpay_payment_id", gatewayPaymentID),
	)

	return nil
}
