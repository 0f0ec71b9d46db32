package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("plan", "42"), http.StatusNotFound},
		{"invalid input", NewInvalidInput("bad", nil), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("wrong password", nil), http.StatusUnauthorized},
		{"permission", NewPermissionDenied("not owner"), http.StatusForbidden},
		{"conflict", NewConflict("account", "email", "a@x.com"), http.StatusConflict},
		{"external", NewExternalService("gemini", errors.New("boom")), http.StatusBadGateway},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFound("plan", "1")), http.StatusNotFound},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestAppErrorMatchesCause(t *testing.T) {
	cause := errors.New("duplicate key")
	err := NewAppError(ErrConflict, "account conflict", "", cause)

	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, errors.Is(err, cause))

	appErr, ok := As(fmt.Errorf("register: %w", err))
	assert.True(t, ok)
	assert.Equal(t, "account conflict", appErr.Message)
	assert.Contains(t, appErr.Error(), "duplicate key")
}
