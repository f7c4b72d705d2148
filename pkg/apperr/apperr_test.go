package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shashiranjanraj/chefhut/pkg/apperr"
)

func TestCodeOf(t *testing.T) {
	if got := apperr.CodeOf(apperr.Conflict("duplicate")); got != apperr.CodeConflict {
		t.Errorf("expected CONFLICT, got %s", got)
	}
	if got := apperr.CodeOf(errors.New("boom")); got != apperr.CodeInternal {
		t.Errorf("uncoded error should be internal, got %s", got)
	}
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", apperr.NotFound("order not found"))
	if !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Error("expected wrapped NOT_FOUND to be detected")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Internal("gateway unreachable", cause)
	if !errors.Is(err, cause) {
		t.Error("expected cause to be unwrappable")
	}
}

func TestMessageHidesCause(t *testing.T) {
	err := apperr.Internal("gateway unreachable", errors.New("secret detail"))
	if err.Message != "gateway unreachable" {
		t.Errorf("client message should not carry the cause, got %q", err.Message)
	}
}
