package transport

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jewel-shop/internal/domain"
	"jewel-shop/internal/middleware"
	"jewel-shop/internal/repository"
	"jewel-shop/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// stubOrderService returns canned results per call
type stubOrderService struct {
	order *domain.Order
	err   error
}

func (s *stubOrderService) CreateOrder(ctx context.Context, userID uuid.UUID, in service.CreateOrderInput) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListOrders(ctx context.Context, userID uuid.UUID, role string, offset, limit int) ([]*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Order{s.order}, nil
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status, actorRole string) (*domain.Order, error) {
	return s.order, s.err
}

func newOrderRouter(stub *stubOrderService, callerID uuid.UUID, role string) chi.Router {
	router := chi.NewRouter()
	handler := NewOrderHandler(stub, zap.NewNop())
	handler.RegisterRoutes(router, contextAuth(callerID, role), middleware.RequireAdmin(zap.NewNop()))
	return router
}

func sampleOrder(userID uuid.UUID) *domain.Order {
	return &domain.Order{
		ID:            uuid.New(),
		UserID:        userID,
		PaymentMethod: domain.PaymentMethodCOD,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		TotalAmount:   decimal.RequireFromString("1000.00"),
	}
}

func TestOrderGet_OwnerCanRead(t *testing.T) {
	callerID := uuid.New()
	order := sampleOrder(callerID)
	router := newOrderRouter(&stubOrderService{order: order}, callerID, "user")

	req := httptest.NewRequest("GET", "/api/orders/"+order.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for owner, got %d", w.Code)
	}
}

func TestOrderGet_ForeignOrderLooksAbsent(t *testing.T) {
	order := sampleOrder(uuid.New())
	router := newOrderRouter(&stubOrderService{order: order}, uuid.New(), "user")

	req := httptest.NewRequest("GET", "/api/orders/"+order.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for another user's order, got %d", w.Code)
	}
}

func TestOrderGet_AdminCanReadAnyOrder(t *testing.T) {
	order := sampleOrder(uuid.New())
	router := newOrderRouter(&stubOrderService{order: order}, uuid.New(), "admin")

	req := httptest.NewRequest("GET", "/api/orders/"+order.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin, got %d", w.Code)
	}
}

func TestOrderGet_UnknownOrder(t *testing.T) {
	router := newOrderRouter(&stubOrderService{err: repository.ErrOrderNotFound}, uuid.New(), "user")

	req := httptest.NewRequest("GET", "/api/orders/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown order, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/orders/not-a-uuid", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed order id, got %d", w.Code)
	}
}

func TestOrderCreate_EmptyItemsRejected(t *testing.T) {
	callerID := uuid.New()
	router := newOrderRouter(&stubOrderService{order: sampleOrder(callerID)}, callerID, "user")

	for _, body := range []string{`{"items":[]}`, `{}`} {
		req := httptest.NewRequest("POST", "/api/orders/", bytes.NewReader([]byte(body)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestOrderCreate_UnknownProduct(t *testing.T) {
	callerID := uuid.New()
	router := newOrderRouter(&stubOrderService{err: repository.ErrProductNotFound}, callerID, "user")

	body := []byte(`{"items":[{"product_id":"` + uuid.NewString() + `","quantity":1}]}`)
	req := httptest.NewRequest("POST", "/api/orders/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", w.Code)
	}
}

func TestOrderStatusUpdate_RequiresAdmin(t *testing.T) {
	callerID := uuid.New()
	order := sampleOrder(callerID)
	router := newOrderRouter(&stubOrderService{order: order}, callerID, "user")

	body := []byte(`{"status":"shipped"}`)
	req := httptest.NewRequest("PATCH", "/api/orders/"+order.ID.String()+"/status", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin status change, got %d", w.Code)
	}
}

func TestOrderStatusUpdate_AdminPaths(t *testing.T) {
	order := sampleOrder(uuid.New())

	t.Run("recognized status", func(t *testing.T) {
		router := newOrderRouter(&stubOrderService{order: order}, uuid.New(), "admin")
		body := []byte(`{"status":"shipped"}`)
		req := httptest.NewRequest("PATCH", "/api/orders/"+order.ID.String()+"/status", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unrecognized status", func(t *testing.T) {
		router := newOrderRouter(&stubOrderService{err: service.ErrInvalidStatus}, uuid.New(), "admin")
		body := []byte(`{"status":"teleported"}`)
		req := httptest.NewRequest("PATCH", "/api/orders/"+order.ID.String()+"/status", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for unrecognized status, got %d", w.Code)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		router := newOrderRouter(&stubOrderService{err: repository.ErrOrderNotFound}, uuid.New(), "admin")
		body := []byte(`{"status":"shipped"}`)
		req := httptest.NewRequest("PATCH", "/api/orders/"+uuid.NewString()+"/status", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for unknown order, got %d", w.Code)
		}
	})
}

func TestOrderList_OK(t *testing.T) {
	callerID := uuid.New()
	router := newOrderRouter(&stubOrderService{order: sampleOrder(callerID)}, callerID, "user")

	req := httptest.NewRequest("GET", "/api/orders/?limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
