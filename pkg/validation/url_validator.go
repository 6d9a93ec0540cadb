package validation

import (
	"net/url"
	"slices"
	"strings"

	apperrors "go-land-inspector/internal/errors"
)

// URLValidator checks remote image locations before they are fetched
type URLValidator struct {
	allowedSchemes []string
	allowedHosts   []string
}

// NewURLValidator accepts any http or https host
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
	}
}

// NewURLValidatorWithOptions restricts schemes and, when hosts is non-empty,
// hostnames. Hostnames are compared without port and case-insensitively.
func NewURLValidatorWithOptions(schemes []string, hosts []string) *URLValidator {
	v := &URLValidator{allowedSchemes: schemes}
	for _, h := range hosts {
		v.allowedHosts = append(v.allowedHosts, strings.ToLower(h))
	}
	return v
}

// ValidateImageURL returns a validation error when imageURL cannot be fetched
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewValidationError("Image URL cannot be empty.", nil)
	}

	parsed, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil {
		return apperrors.NewValidationError("Invalid image URL.", err)
	}

	if !slices.Contains(v.allowedSchemes, strings.ToLower(parsed.Scheme)) {
		return apperrors.NewValidationError("Image URL scheme not allowed.", nil)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return apperrors.NewValidationError("Image URL must have a host.", nil)
	}

	if len(v.allowedHosts) > 0 && !slices.Contains(v.allowedHosts, host) {
		return apperrors.NewValidationError("Image URL host not allowed.", nil)
	}

	return nil
}

// IsRemote reports whether location looks like a URL rather than a local path
func IsRemote(location string) bool {
	lower := strings.ToLower(strings.TrimSpace(location))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
