package validation

import (
	"fmt"
	"mime"
	"slices"
	"strings"

	apperrors "go-land-inspector/internal/errors"
)

// DefaultMaxUploadSize is the largest accepted image, 10 MiB.
const DefaultMaxUploadSize int64 = 10 << 20

// Client-facing rejection messages.
const (
	MsgNoImage     = "No image file uploaded."
	MsgInvalidType = "Invalid file type. Only JPEG, PNG, WebP, and TIFF are allowed."
)

// DefaultAllowedTypes are the image MIME types accepted for analysis.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/tiff"}

// UploadValidator checks image type and size before analysis
type UploadValidator struct {
	allowedTypes []string
	maxSize      int64
}

// NewUploadValidator accepts JPEG, PNG, WebP and TIFF up to 10 MiB
func NewUploadValidator() *UploadValidator {
	return NewUploadValidatorWithOptions(DefaultAllowedTypes, DefaultMaxUploadSize)
}

// NewUploadValidatorWithOptions creates a validator with custom limits
func NewUploadValidatorWithOptions(types []string, maxSize int64) *UploadValidator {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &UploadValidator{allowedTypes: types, maxSize: maxSize}
}

// MaxSize returns the size limit in bytes
func (v *UploadValidator) MaxSize() int64 {
	return v.maxSize
}

// TooLargeMessage is the rejection message for oversized uploads.
func (v *UploadValidator) TooLargeMessage() string {
	return fmt.Sprintf("File too large. Max %dMB.", v.maxSize>>20)
}

// NormalizeContentType lower-cases a content type and strips its parameters.
// Unparseable input yields "".
func NormalizeContentType(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

// ValidateContentType rejects anything outside the allowed image types
func (v *UploadValidator) ValidateContentType(contentType string) error {
	if !slices.Contains(v.allowedTypes, NormalizeContentType(contentType)) {
		return apperrors.NewValidationError(MsgInvalidType, nil)
	}
	return nil
}

// ValidateSize rejects empty and oversized images
func (v *UploadValidator) ValidateSize(size int64) error {
	if size <= 0 {
		return apperrors.NewValidationError(MsgNoImage, nil)
	}
	if size > v.maxSize {
		return apperrors.NewValidationError(v.TooLargeMessage(), nil)
	}
	return nil
}

// Validate checks type first, then size
func (v *UploadValidator) Validate(contentType string, size int64) error {
	if err := v.ValidateContentType(contentType); err != nil {
		return err
	}
	return v.ValidateSize(size)
}
