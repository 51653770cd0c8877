package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"typed not found", NotFound("Blog not found"), KindNotFound},
		{"wrapped sentinel", fmt.Errorf("users: %w", ErrNotFound), KindNotFound},
		{"duplicate is a conflict", fmt.Errorf("insert: %w", ErrDuplicate), KindConflict},
		{"typed conflict", Conflict("INVALID_TRANSITION", "cannot move done to pending"), KindConflict},
		{"forbidden", Forbidden("forbidden access"), KindForbidden},
		{"validation", Validation("email is required"), KindValidation},
		{"unknown error", errors.New("socket closed"), KindInternal},
		{"internal wrapper", Internal("Failed to list users", errors.New("timeout")), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrapsToSentinel(t *testing.T) {
	err := NotFound("Donation request not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Donation request not found: resource not found", err.Error())
}
