package apperr

import (
	"errors"
	"fmt"
	"testing"
)

// TestIsMatchesByKind verifies that wrapped errors match their kind sentinel
// and no other.
func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("loading: %w", NotFound("storage.GetPreferences", "no preferences for user %d", 3))
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected ErrNotFound to match")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("ErrValidation should not match a NotFound error")
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("KindOf = %v, want not found", KindOf(err))
	}
}

// TestDependencyUnavailableUnwraps verifies the cause stays reachable.
func TestDependencyUnavailableUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := DependencyUnavailable("adapter.New", cause)
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable via errors.Is")
	}
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Error("expected ErrDependencyUnavailable to match")
	}
	want := "adapter.New: dependency unavailable: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

// TestRecovered verifies panic values become errors with the operation attached.
func TestRecovered(t *testing.T) {
	err := Recovered("selection.Select", "index out of range")
	if err.Error() != "selection.Select: panic: index out of range" {
		t.Errorf("Error() = %q", err.Error())
	}
	if KindOf(err) != KindUnknown {
		t.Errorf("KindOf = %v, want unknown", KindOf(err))
	}
}
