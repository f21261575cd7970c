package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	if !IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "ux_customers_email"`), "") {
		t.Fatal("expected postgres duplicate key to match")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: customers.email"), "") {
		t.Fatal("expected sqlite unique failure to match")
	}
	if !IsUniqueViolation(errors.New(`violates unique constraint "ux_customers_email"`), "ux_customers_email") {
		t.Fatal("expected named constraint to match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error must not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not match")
	}
}

func TestIsMissingRelation(t *testing.T) {
	t.Parallel()

	if !IsMissingRelation(errors.New(`relation "customers" does not exist`)) {
		t.Fatal("expected postgres missing relation to match")
	}
	if !IsMissingRelation(errors.New("no such table: customers")) {
		t.Fatal("expected sqlite missing table to match")
	}
	if IsMissingRelation(errors.New("deadlock detected")) {
		t.Fatal("unrelated error must not match")
	}
}
