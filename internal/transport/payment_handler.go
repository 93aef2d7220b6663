package transport

import (
	"errors"
	"io"
	"net/http"

	"jewel-shop/internal/middleware"
	"jewel-shop/internal/repository"
	"jewel-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PaymentHandler handles HTTP requests for gateway checkout and the
// gateway's webhook callback
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// RegisterRoutes registers payment routes. The webhook is public by
// necessity; it authenticates through its signature instead.
func (h *PaymentHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/payments", func(r chi.Router) {
		r.Post("/webhook", h.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/create-order", h.CreatePaymentOrder)
		})
	})
}

// CreatePaymentOrder places an order and registers it with the payment
// gateway, returning what the frontend checkout needs
func (h *PaymentHandler) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	paymentOrder, err := h.paymentService.CreatePaymentOrder(r.Context(), userID, orderInputFromRequest(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoItems), errors.Is(err, service.ErrInvalidQuantity):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrPaymentGateway):
			h.logger.Error("Payment gateway order creation failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusBadGateway, "payment gateway unavailable")
		default:
			h.logger.Error("Failed to create payment order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create payment order")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, paymentOrder)
}

// Webhook receives gateway payment events. The raw body is read before
// any parsing so the signature is verified over exactly what was sent.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if err := h.paymentService.HandleWebhook(r.Context(), body, signature); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingSignature):
			middleware.RespondWithError(w, http.StatusBadRequest, "missing webhook signature")
		case errors.Is(err, service.ErrInvalidSignature):
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid webhook signature")
		default:
			h.logger.Error("Failed to process webhook", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to process webhook")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
