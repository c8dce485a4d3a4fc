package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{CodeInvalidStrategy, http.StatusBadRequest},
		{CodeInvalidPayload, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
		{"whatever", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.code); got != tc.want {
			t.Errorf("HTTPStatus(%q): expected %d, got %d", tc.code, tc.want, got)
		}
	}
}

func TestCodeOfWrapped(t *testing.T) {
	err := fmt.Errorf("generate: %w", InvalidStrategy("lucky"))
	if got := CodeOf(err); got != CodeInvalidStrategy {
		t.Fatalf("Expected %s, got %s", CodeInvalidStrategy, got)
	}
	if !Is(err, CodeInvalidStrategy) {
		t.Error("Expected Is to match wrapped code")
	}
	if CodeOf(errors.New("boom")) != CodeInternal {
		t.Error("Expected plain error to map to internal")
	}
}

func TestPublicHidesInternalCause(t *testing.T) {
	code, msg := Public(fmt.Errorf("query: %w", errors.New("password=secret")))
	if code != CodeInternal || msg != "internal server error" {
		t.Errorf("Expected generic internal error, got %s %q", code, msg)
	}
	code, msg = Public(NotFound("draw"))
	if code != CodeNotFound || msg != "draw not found" {
		t.Errorf("Expected not_found, got %s %q", code, msg)
	}
}
