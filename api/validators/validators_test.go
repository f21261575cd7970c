package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/errors"
	"github.com/KevinCardiel1/ProyectoCasiTerminado100-Fe/pkg/pagination"
)

func TestSanitizeStringCountsRunes(t *testing.T) {
	t.Parallel()

	if got := SanitizeString("  Café Tacvba  ", 0); got != "Café Tacvba" {
		t.Fatalf("unexpected trim result: %q", got)
	}
	if got := SanitizeString("Café", 3); got != "Caf" {
		t.Fatalf("expected rune-safe cut, got %q", got)
	}
	if got := SanitizeString("Miles Davis Quintet", 6); got != "Miles" {
		t.Fatalf("expected trailing space trimmed after cut, got %q", got)
	}
}

func TestParsePaginationDefaults(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/api/v1/products", nil)
	params, err := ParsePagination(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Limit != pagination.DefaultLimit {
		t.Fatalf("expected default limit, got %d", params.Limit)
	}
	if params.Cursor != "" {
		t.Fatalf("expected empty cursor, got %q", params.Cursor)
	}
}

func TestParsePaginationRejectsOutOfRangeLimit(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/api/v1/products?limit=9999", nil)
	if _, err := ParsePagination(r); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestParseQueryUUID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	r := httptest.NewRequest("GET", "/api/v1/products?artist_id="+id.String(), nil)
	got, err := ParseQueryUUID(r, "artist_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != id {
		t.Fatalf("expected %s, got %v", id, got)
	}

	missing := httptest.NewRequest("GET", "/api/v1/products", nil)
	got, err = ParseQueryUUID(missing, "artist_id")
	if err != nil || got != nil {
		t.Fatalf("absent parameter should be nil, got %v err %v", got, err)
	}

	bad := httptest.NewRequest("GET", "/api/v1/products?artist_id=nope", nil)
	if _, err := ParseQueryUUID(bad, "artist_id"); err == nil {
		t.Fatalf("expected uuid parse error")
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name" validate:"required"`
	}

	r := httptest.NewRequest("POST", "/api/v1/admin/artists", strings.NewReader(`{"name":"x","bogus":1}`))
	var dest payload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatalf("expected unknown field rejection")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldByJSONName(t *testing.T) {
	t.Parallel()

	type payload struct {
		ProductID string `json:"product_id" validate:"required"`
	}

	r := httptest.NewRequest("POST", "/api/v1/cart/lines", strings.NewReader(`{}`))
	var dest payload
	err := DecodeJSONBody(r, &dest)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if _, present := details["product_id"]; !present {
		t.Fatalf("expected json field name in details, got %v", details)
	}
}
