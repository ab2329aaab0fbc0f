package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	for raw, want := range map[string]string{"30,00": "30", "30.50": "30.5", "R$ 12,5": "12.5"} {
		got, err := ParseAmount("amount", raw)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", raw, err)
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("ParseAmount(%q) = %s, want %s", raw, got, want)
		}
	}
	if _, err := ParseAmount("amount", "trinta"); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseOptionalAmount(t *testing.T) {
	if v, err := ParseOptionalAmount("cash_given", nil); v != nil || err != nil {
		t.Fatalf("nil input must be absent, got %v %v", v, err)
	}
	blank := "  "
	if v, err := ParseOptionalAmount("cash_given", &blank); v != nil || err != nil {
		t.Fatalf("blank input must be absent, got %v %v", v, err)
	}
	raw := "50,00"
	v, err := ParseOptionalAmount("cash_given", &raw)
	if err != nil || v == nil || !v.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected result %v %v", v, err)
	}
}

func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathParams(t *testing.T) {
	req := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "orderId", "not-a-uuid")
	if _, err := ParseUUIDParam(req, "orderId"); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	req = withParam(httptest.NewRequest(http.MethodGet, "/", nil), "index", "2")
	if v, err := ParseIntParam(req, "index"); err != nil || v != 2 {
		t.Fatalf("unexpected index %d err=%v", v, err)
	}
}

type addLineBody struct {
	ProductID string `json:"product_id" validate:"required"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":"p1","extra":1}`))
	var body addLineBody
	if err := DecodeJSONBody(req, &body); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("unknown fields must be rejected, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["product_id"] != "is required" {
		t.Fatalf("unexpected details %#v", typed.Details())
	}

	if got := SanitizeString("  Ana Maria  ", 3); got != "Ana" {
		t.Fatalf("unexpected sanitize %q", got)
	}
}
