package domain

import (
	"errors"
	"testing"
)

func TestAnonymous(t *testing.T) {
	id := Anonymous()
	if !id.IsAnonymous() {
		t.Error("IsAnonymous() = false")
	}
	if id.AccountID() != 0 || id.OrganizationID() != 0 {
		t.Errorf("ids = (%d, %d), want zero", id.AccountID(), id.OrganizationID())
	}
}

func TestNewIdentity(t *testing.T) {
	id, err := NewIdentity(7, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.IsAnonymous() {
		t.Error("IsAnonymous() = true")
	}
	if id.AccountID() != 7 || id.OrganizationID() != 3 {
		t.Errorf("ids = (%d, %d)", id.AccountID(), id.OrganizationID())
	}
}

func TestNewIdentity_Invalid(t *testing.T) {
	cases := [][2]int64{{0, 3}, {7, 0}, {0, 0}, {-1, 3}, {7, -1}}
	for _, c := range cases {
		_, err := NewIdentity(c[0], c[1])
		if err == nil {
			t.Errorf("NewIdentity(%d, %d): expected error", c[0], c[1])
			continue
		}
		if !errors.Is(err, ErrInvalidIdentity) {
			t.Errorf("NewIdentity(%d, %d): error = %v, want ErrInvalidIdentity", c[0], c[1], err)
		}
	}
}

func TestCompilationError(t *testing.T) {
	err := NewCompilationError("unknown attribute kind %q", "flavor")
	if !errors.Is(err, ErrCompilation) {
		t.Fatalf("errors.Is(err, ErrCompilation) = false for %v", err)
	}
	var ce *CompilationError
	if !errors.As(err, &ce) {
		t.Fatal("errors.As failed")
	}
	if ce.Detail != `unknown attribute kind "flavor"` {
		t.Errorf("Detail = %q", ce.Detail)
	}
}
