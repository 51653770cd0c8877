package blogs

import (
	"testing"

	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidatePublishAction(t *testing.T) {
	tests := []struct {
		action string
		want   Status
		ok     bool
	}{
		{"publish", StatusPublished, true},
		{" Publish ", StatusPublished, true},
		{"draft", StatusDraft, true},
		{"published", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			got, err := ValidatePublishAction(tt.action)
			if !tt.ok {
				assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilter(t *testing.T) {
	s, err := ParseFilter("")
	assert.NoError(t, err)
	assert.Equal(t, Status(""), s)

	s, err = ParseFilter("PUBLISHED")
	assert.NoError(t, err)
	assert.Equal(t, StatusPublished, s)

	_, err = ParseFilter("archived")
	assert.Equal(t, apperrors.KindInvalid, apperrors.KindOf(err))
}
