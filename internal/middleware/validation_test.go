package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Test struct with validation tags
type testSignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeEmail bool, includePassword bool) bool {
			reqMap := make(map[string]interface{})

			if includeEmail {
				reqMap["email"] = "buyer@example.com"
			}
			if includePassword {
				reqMap["password"] = "long-enough-password"
			}

			allFieldsPresent := includeEmail && includePassword

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq testSignupRequest
			err := DecodeAndValidate(req, &testReq)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte(`{not json`)))

	var testReq testSignupRequest
	if err := DecodeAndValidate(req, &testReq); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestDecodeAndValidate_InvalidEmail(t *testing.T) {
	body := []byte(`{"email":"not-an-email","password":"long-enough-password"}`)
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(body))

	var testReq testSignupRequest
	err := DecodeAndValidate(req, &testReq)
	if err == nil {
		t.Fatal("expected validation error")
	}

	formatted := FormatValidationErrors(err)
	if len(formatted) != 1 {
		t.Fatalf("expected 1 validation error, got %d", len(formatted))
	}
	if formatted[0].Field != "Email" {
		t.Errorf("expected Email field error, got %s", formatted[0].Field)
	}
}

func TestDecodeAndValidate_ShortPassword(t *testing.T) {
	body := []byte(`{"email":"buyer@example.com","password":"short"}`)
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(body))

	var testReq testSignupRequest
	if err := DecodeAndValidate(req, &testReq); err == nil {
		t.Error("expected validation error for short password")
	}
}
