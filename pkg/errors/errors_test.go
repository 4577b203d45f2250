package errors

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAppError_TypeChecks(t *testing.T) {
	notFound := NewNotFoundError("entry")
	wrapped := fmt.Errorf("loading: %w", notFound)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, "NOT_FOUND: entry not found", notFound.Error())

	cause := fmt.Errorf("disk full")
	dbErr := NewDatabaseError("set", cause)
	assert.ErrorIs(t, dbErr, cause)
	assert.Contains(t, dbErr.Error(), "caused by: disk full")
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	err := Wrap(NewValidationError("text is required"), "create entry")
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "create entry: text is required")

	plain := Wrapf(fmt.Errorf("boom"), "step %d", 2)
	assert.True(t, IsType(plain, ErrorTypeInternal))
}

func TestErrorHandler_Handle(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{name: "nil", err: nil, wantCode: ExitOK},
		{name: "validation", err: NewValidationError("text is required"), wantCode: ExitUsage, wantOut: "add: text is required"},
		{name: "not found", err: NewNotFoundError("entry"), wantCode: ExitNotFound, wantOut: "add: entry not found"},
		{name: "unavailable", err: NewUnavailableError("terminal"), wantCode: ExitUnavailable, wantOut: "'terminal' is unavailable"},
		{name: "plain error", err: fmt.Errorf("boom"), wantCode: ExitFailure, wantOut: "an internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			h := NewErrorHandler(zap.NewNop(), &out, false)

			code := h.Handle("add", tt.err)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}
