package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jewel-shop/internal/config"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// RazorpayGateway implements Gateway against the Razorpay REST API.
type RazorpayGateway struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	client        *http.Client
	logger        *zap.Logger
}

// NewRazorpayGateway creates a gateway client with a bounded request
// timeout; a hanging gateway surfaces as an error instead of stalling
// the order flow.
func NewRazorpayGateway(cfg config.RazorpayConfig, logger *zap.Logger) *RazorpayGateway {
	return &RazorpayGateway{
		keyID:         cfg.KeyID,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		baseURL:       defaultBaseURL,
		client:        &http.Client{Timeout: 10 * time.Second},
		logger:        logger,
	}
}

type createOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder creates a remote order with auto-capture enabled.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	payload, err := json.Marshal(createOrderRequest{
		Amount:         amountMinor,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var gwErr errorResponse
		if err := json.Unmarshal(body, &gwErr); err == nil && gwErr.Error.Description != "" {
			g.logger.Warn("Gateway rejected order creation",
				zap.Int("status", resp.StatusCode),
				zap.String("code", gwErr.Error.Code),
				zap.String("description", gwErr.Error.Description),
			)
			return "", fmt.Errorf("%w: %s", ErrGatewayUnavailable, gwErr.Error.Description)
		}
		return "", fmt.Errorf("%w: unexpected status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var order createOrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrGatewayUnavailable, err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("%w: response missing order id", ErrGatewayUnavailable)
	}

	return order.ID, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 hex signature Razorpay
// computes over the raw webhook body with the shared webhook secret.
func (g *RazorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
