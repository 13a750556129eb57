package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("bad id"), http.StatusBadRequest},
		{"unauthenticated", NewUnauthenticated("no token"), http.StatusUnauthorized},
		{"forbidden", NewForbidden("nope", nil), http.StatusForbidden},
		{"not found", NewNotFound("missing"), http.StatusNotFound},
		{"upstream", NewUpstream("db down", errors.New("timeout")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("lookup: %w", NewNotFound("missing")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMessageHidesUnknownErrors(t *testing.T) {
	if got := Message(errors.New("connection refused 10.0.0.3")); got != "Internal server error" {
		t.Errorf("unexpected message %q", got)
	}

	err := NewUpstream("Failed to load parcels", errors.New("socket closed"))
	if got := Message(err); got != "Failed to load parcels" {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(err, err.Err) {
		t.Error("expected cause to be unwrappable")
	}
}
