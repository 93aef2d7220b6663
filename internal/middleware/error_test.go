package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithError(w, http.StatusNotFound, "order not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Error.Message != "order not found" {
		t.Errorf("unexpected message %q", resp.Error.Message)
	}
	if resp.Error.Code != http.StatusText(http.StatusNotFound) {
		t.Errorf("unexpected code %q", resp.Error.Code)
	}
	if resp.Error.Timestamp == "" {
		t.Error("missing timestamp")
	}
}

func TestRespondWithValidationErrors(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithValidationErrors(w, []ValidationError{
		{Field: "Email", Message: "Invalid email format"},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Error.Message != "validation failed" {
		t.Errorf("unexpected message %q", resp.Error.Message)
	}
	if _, ok := resp.Error.Details["validation_errors"]; !ok {
		t.Error("missing validation_errors detail")
	}
}

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "ok"})

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestErrorHandlingMiddleware_RecoversPanics(t *testing.T) {
	middleware := ErrorHandlingMiddleware(zap.NewNop())

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Error.Message != "internal server error" {
		t.Errorf("unexpected message %q", resp.Error.Message)
	}
}

func TestErrorHandlingMiddleware_PassesThrough(t *testing.T) {
	middleware := ErrorHandlingMiddleware(zap.NewNop())

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}
