package cloudinary

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewServiceRequiresCredentials(t *testing.T) {
	_, err := NewService("demo", "", "secret", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestValidateImageFile(t *testing.T) {
	assert.NoError(t, ValidateImageFile(&multipart.FileHeader{Filename: "cover.PNG", Size: 1024}))
	assert.Error(t, ValidateImageFile(&multipart.FileHeader{Filename: "cover.svg", Size: 1024}))
	assert.Error(t, ValidateImageFile(&multipart.FileHeader{Filename: "cover.jpg", Size: MaxImageSize + 1}))
}
