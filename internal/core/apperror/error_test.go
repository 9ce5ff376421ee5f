package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
	}{
		{"validation", NewValidation("bad"), http.StatusBadRequest},
		{"required", NewRequired("quantity"), http.StatusBadRequest},
		{"not found", NewNotFound("material", "x"), http.StatusNotFound},
		{"insufficient stock", NewInsufficientStock("short", nil), http.StatusBadRequest},
		{"conflict", NewConflict("dup"), http.StatusBadRequest},
		{"duplicate", NewDuplicate("material", "code", "TUR"), http.StatusBadRequest},
		{"transition", NewInvalidTransition("production run", "complete", "cancel"), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("no token"), http.StatusUnauthorized},
		{"idempotency", NewIdempotencyConflict("k"), http.StatusConflict},
		{"internal", NewInternal(errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.err))
		})
	}
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	base := NewNotFound("formula", "abc")
	wrapped := fmt.Errorf("load formula: %w", base)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Same(t, base, appErr)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConcurrentModification(wrapped))
}

func TestGetHTTPStatus_PlainError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}

func TestInsufficientStock_CarriesItems(t *testing.T) {
	items := []Shortage{{ID: "m1", Name: "Turmeric", Available: "4", Required: "5"}}
	err := NewInsufficientStock("Insufficient stock for: Turmeric", items)

	assert.Equal(t, CodeInsufficientStock, err.Code)
	assert.Equal(t, items, err.Details["items"])
}

func TestErrorString_IncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause)

	assert.Contains(t, err.Error(), "connection reset")
	assert.ErrorIs(t, err, cause)
}
