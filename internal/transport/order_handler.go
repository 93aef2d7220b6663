package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"jewel-shop/internal/middleware"
	"jewel-shop/internal/repository"
	"jewel-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderItemRequest is a single requested order line
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

// CreateOrderRequest represents an order placement payload
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress json.RawMessage    `json:"shipping_address"`
	CustomerName    string             `json:"customer_name"`
	Phone           string             `json:"phone"`
	PaymentMethod   string             `json:"payment_method"`
}

// UpdateOrderStatusRequest represents a fulfillment status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers order routes. All of them require an
// authenticated user; the status patch additionally requires admin.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, adminMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{orderID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminMiddleware)
			r.Patch("/{orderID}/status", h.UpdateStatus)
		})
	})
}

// List returns the caller's orders, or every order for admins
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	role, _ := middleware.GetUserRole(r.Context())
	offset, limit := paginationParams(r, 50)

	orders, err := h.orderService.ListOrders(r.Context(), userID, role, offset, limit)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Get returns a single order. Non-admin callers can only read their own.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	role, _ := middleware.GetUserRole(r.Context())
	if role != "admin" && order.UserID != userID {
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// Create places a new order paid on delivery
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	order, err := h.orderService.CreateOrder(r.Context(), userID, orderInputFromRequest(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoItems), errors.Is(err, service.ErrInvalidQuantity):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		default:
			h.logger.Error("Failed to create order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// UpdateStatus changes an order's fulfillment status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateOrderStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, _ := middleware.GetUserRole(r.Context())
	order, err := h.orderService.UpdateStatus(r.Context(), orderID, req.Status, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			middleware.RespondWithError(w, http.StatusForbidden, "admin privilege required")
		case errors.Is(err, service.ErrInvalidStatus):
			middleware.RespondWithError(w, http.StatusBadRequest, "unrecognized order status")
		case errors.Is(err, repository.ErrOrderNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to update order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func orderInputFromRequest(req CreateOrderRequest) service.CreateOrderInput {
	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return service.CreateOrderInput{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		PaymentMethod:   req.PaymentMethod,
	}
}
