package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order fulfillment statuses. StatusPaid is set exclusively by the
// payment webhook reconciler and is not part of the admin-settable set.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
	StatusPaid      = "paid"
)

// Payment statuses form a second dimension, independent of the
// fulfillment status. COD orders keep "pending" forever.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusCaptured = "captured"
)

// Payment methods.
const (
	PaymentMethodCOD      = "COD"
	PaymentMethodRazorpay = "RAZORPAY"
)

// FulfillmentStatuses is the set of values an admin may set directly.
var FulfillmentStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
	StatusFailed,
}

// IsFulfillmentStatus reports whether s is a recognized admin-settable
// status. Matching is case-sensitive.
func IsFulfillmentStatus(s string) bool {
	for _, v := range FulfillmentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order represents a placed order. TotalAmount is fixed at creation and
// always equals the sum of price_at_purchase * quantity over its items.
// ShippingAddress is a snapshot copied at creation time; it never follows
// later address edits.
type Order struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	UserID            uuid.UUID       `json:"user_id" db:"user_id"`
	CustomerName      string          `json:"customer_name" db:"customer_name"`
	Phone             string          `json:"phone" db:"phone"`
	PaymentMethod     string          `json:"payment_method" db:"payment_method"`
	Status            string          `json:"status" db:"status"`
	PaymentStatus     string          `json:"payment_status" db:"payment_status"`
	TotalAmount       decimal.Decimal `json:"total_amount" db:"total_amount"`
	ShippingAddress   json.RawMessage `json:"shipping_address" db:"shipping_address"`
	RazorpayOrderID   string          `json:"razorpay_order_id,omitempty" db:"razorpay_order_id"`
	RazorpayPaymentID string          `json:"razorpay_payment_id,omitempty" db:"razorpay_payment_id"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	Items             []OrderItem     `json:"items,omitempty"`
}

// OrderItem is a single line of an order. PriceAtPurchase is the product
// price frozen at order-creation time; later product price changes do not
// affect it. The product reference is weak: the product row may be soft
// deleted afterwards while the item keeps its snapshot.
type OrderItem struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	OrderID         uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID       uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity        int             `json:"quantity" db:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase" db:"price_at_purchase"`
}
