// Package gateway talks to the external payment gateway. The service
// layer only sees the Gateway interface; the Razorpay implementation
// lives behind it so tests can substitute a fake.
package gateway

import (
	"context"
	"errors"
)

// ErrGatewayUnavailable wraps transport-level failures talking to the
// gateway. The caller's local state is left untouched.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Gateway is the narrow surface of the external payment provider.
type Gateway interface {
	// CreateOrder creates a remote payment order. amountMinor is the
	// total in the smallest currency unit (e.g. paise). receipt is the
	// local order id, echoed back by the gateway for correlation.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (gatewayOrderID string, err error)

	// VerifyWebhookSignature checks the webhook signature over the raw,
	// unparsed request body.
	VerifyWebhookSignature(body []byte, signature string) bool
}
