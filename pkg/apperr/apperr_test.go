package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeAndMessage(t *testing.T) {
	err := New(CodePermissionDenied, "You do not have permission to edit this listing.")
	assert.Equal(t, CodePermissionDenied, CodeOf(err))
	assert.Equal(t, "You do not have permission to edit this listing.", MessageOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeInternal, "Failed to fetch listings. Please try again.", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "Failed to fetch listings. Please try again.", MessageOf(err))
	// The cause is in the full error string for logs, not in the message.
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotContains(t, MessageOf(err), "connection refused")
}

func TestForeignError(t *testing.T) {
	err := errors.New("raw backend failure")
	assert.Equal(t, CodeUnknown, CodeOf(err))
	assert.Equal(t, "Something went wrong. Please try again.", MessageOf(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidArgument, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodePermissionDenied, http.StatusForbidden},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(New(tt.code, "x")), "code %s", tt.code)
	}
}
