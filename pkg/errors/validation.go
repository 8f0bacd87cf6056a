package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxDestinationLength bounds free-text destination and location queries.
const maxDestinationLength = 128

// ValidateDestination validates a free-text destination or location query.
// It is forwarded to search and language APIs, so the rules are conservative:
//   - No empty names (after trimming)
//   - No control characters
//   - Maximum length of 128 characters
func ValidateDestination(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return New(ErrCodeInvalidInput, "destination cannot be empty")
	}

	if len(name) > maxDestinationLength {
		return New(ErrCodeInvalidInput, "destination too long (max %d characters)", maxDestinationLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "destination contains invalid control characters")
		}
	}

	return nil
}

// landmarkIDRegex matches landmark identifiers such as "eiffel-tower".
var landmarkIDRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateLandmarkID validates a landmark identifier from the landmark table.
func ValidateLandmarkID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "landmark id cannot be empty")
	}
	if len(id) > 64 || !landmarkIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid landmark id: %q", id)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateFraction checks that v lies in the half-open interval (0, 1].
func ValidateFraction(name string, v float64) error {
	if v <= 0 || v > 1 {
		return New(ErrCodeInvalidInput, "%s must be in (0, 1], got %g", name, v)
	}
	return nil
}
