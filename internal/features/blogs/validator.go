package blogs

import (
	"strings"

	apperrors "github.com/blooner/bloodlink/pkg/errors"
)

// ValidatePublishAction maps "publish" and "draft" to the stored status.
func ValidatePublishAction(action string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "publish":
		return StatusPublished, nil
	case "draft":
		return StatusDraft, nil
	}
	return "", apperrors.Validation("action must be one of: publish draft")
}

// ParseFilter reads the ?option= filter. Empty means every status.
func ParseFilter(option string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(option)))
	if s == "" || s.IsValid() {
		return s, nil
	}
	return "", apperrors.Invalid("INVALID_FILTER", "option must be one of: draft published")
}
