package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

func signTestToken(t *testing.T, secret, userID, role string, expiresAt time.Time) string {
	if t != nil {
		t.Helper()
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil && t != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tokenString
}

func TestProperty_ProtectedEndpointsRejectMissingTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			logger := zap.NewNop()
			middleware := AuthMiddleware("test-secret", logger)

			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			path := "/" + pathSuffix
			if path == "/" {
				path = "/test"
			}

			req := httptest.NewRequest(method, path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("GET", "POST", "PUT", "DELETE"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ExpiredTokensAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("expired tokens are rejected with 401", prop.ForAll(
		func(userID string, role string) bool {
			middleware := AuthMiddleware("test-secret", zap.NewNop())
			tokenString := signTestToken(nil, "test-secret", userID, role, time.Now().Add(-1*time.Hour))

			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AnyString(),
		gen.OneConstOf("user", "admin"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddleware_ValidTokenPutsClaimsInContext(t *testing.T) {
	middleware := AuthMiddleware("test-secret", zap.NewNop())
	tokenString := signTestToken(t, "test-secret", "user-42", "admin", time.Now().Add(time.Hour))

	var gotUserID, gotRole string
	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		gotRole, _ = GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUserID != "user-42" {
		t.Errorf("expected user id user-42, got %q", gotUserID)
	}
	if gotRole != "admin" {
		t.Errorf("expected role admin, got %q", gotRole)
	}
}

func TestAuthMiddleware_WrongSecretRejected(t *testing.T) {
	middleware := AuthMiddleware("test-secret", zap.NewNop())
	tokenString := signTestToken(t, "other-secret", "user-1", "user", time.Now().Add(time.Hour))

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong secret, got %d", w.Code)
	}
}

func TestAuthMiddleware_MalformedHeaderRejected(t *testing.T) {
	middleware := AuthMiddleware("test-secret", zap.NewNop())

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"Basic abc123", "Bearer", "Bearer a b", "token"} {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestRequireAdmin(t *testing.T) {
	authMiddleware := AuthMiddleware("test-secret", zap.NewNop())
	adminMiddleware := RequireAdmin(zap.NewNop())

	handler := authMiddleware(adminMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	cases := []struct {
		role     string
		expected int
	}{
		{"admin", http.StatusOK},
		{"user", http.StatusForbidden},
		{"Admin", http.StatusForbidden},
		{"", http.StatusForbidden},
	}

	for _, tc := range cases {
		tokenString := signTestToken(t, "test-secret", "user-1", tc.role, time.Now().Add(time.Hour))

		req := httptest.NewRequest("DELETE", "/api/products/gold-ring", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != tc.expected {
			t.Errorf("role %q: expected %d, got %d", tc.role, tc.expected, w.Code)
		}
	}
}
