package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/libraryhub/internal/domain/errs"
)

func TestErrorsAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", errs.Validation("title", "Title is required."))

	var ve *errs.ValidationError
	if !errors.As(wrapped, &ve) {
		t.Fatal("expected ValidationError through wrapping")
	}
	if ve.Field != "title" {
		t.Errorf("Field: got %q, want %q", ve.Field, "title")
	}
	if ve.Error() != "Title is required." {
		t.Errorf("message: got %q", ve.Error())
	}
}

func TestStore_NilPassthrough(t *testing.T) {
	if errs.Store("insert request", nil) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestStore_Unwrap(t *testing.T) {
	base := errors.New("connection reset")
	err := errs.Store("insert request", base)
	if !errors.Is(err, base) {
		t.Error("expected StoreError to unwrap to the cause")
	}
	if err.Error() != "insert request: connection reset" {
		t.Errorf("message: got %q", err.Error())
	}
}

func TestAuthErrors(t *testing.T) {
	var ae *errs.AuthError
	if !errors.As(errs.Forbidden("admins only"), &ae) || !ae.Forbidden {
		t.Error("expected forbidden AuthError")
	}
	if !errors.As(errs.Unauthenticated("sign in"), &ae) || ae.Forbidden {
		t.Error("expected unauthenticated AuthError")
	}
}

func TestNotFound_Message(t *testing.T) {
	err := errs.NotFound("resource request", "abc")
	if err.Error() != "resource request not found" {
		t.Errorf("message: got %q", err.Error())
	}
}
