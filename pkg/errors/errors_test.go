package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeOutOfStock, http.StatusConflict},
		{CodeInsufficientStock, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code); got.HTTPStatus != tc.status {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.status, got.HTTPStatus)
		}
	}

	if got := MetadataFor(Code("BOGUS")); got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to internal metadata, got %d", got.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "saving product")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to satisfy errors.Is")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected typed error through wrapping, got %v", typed)
	}
}

func TestIsStockError(t *testing.T) {
	t.Parallel()

	if !IsStockError(New(CodeOutOfStock, "gone")) {
		t.Fatal("expected out-of-stock to be a stock error")
	}
	if !IsStockError(Newf(CodeInsufficientStock, "only %d left", 2)) {
		t.Fatal("expected insufficient-stock to be a stock error")
	}
	if IsStockError(New(CodeConflict, "nope")) {
		t.Fatal("conflict is not a stock error")
	}
	if IsStockError(stdErrors.New("plain")) {
		t.Fatal("plain error is not a stock error")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeInternal, stdErrors.New("root"), "wrapped")
	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("unexpected code: %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected chain to include cause, got %v", dump.Chain)
	}
}
