package validator

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// aliasRegex validates custom alias format (alphanumeric, hyphens, underscores)
	aliasRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// allowedSchemes lists permitted URL schemes. The destination must carry
	// an explicit scheme; nothing is prepended on the caller's behalf.
	allowedSchemes = map[string]bool{
		"http":  true,
		"https": true,
	}
)

// ValidateURL checks if a string is a valid destination URL
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "original_url", Message: "URL cannot be empty"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "original_url", Message: "Invalid URL structure"}
	}

	// Validate scheme
	if !allowedSchemes[strings.ToLower(parsed.Scheme)] {
		return &ValidationError{Field: "original_url", Message: "URL must include http:// or https://"}
	}

	// Validate host
	if parsed.Host == "" {
		return &ValidationError{Field: "original_url", Message: "URL must contain a host"}
	}

	// Validate length (reasonable maximum)
	if len(rawURL) > 2048 {
		return &ValidationError{Field: "original_url", Message: "URL too long (max 2048 characters)"}
	}

	return nil
}

// ValidateAlias checks if a custom alias has valid format
func ValidateAlias(alias string) bool {
	if len(alias) < 3 || len(alias) > 30 {
		return false
	}
	return aliasRegex.MatchString(alias)
}

// NormalizeAlias lowercases a custom alias so lookups are case-insensitive.
// Generated codes are case-sensitive and never pass through here.
func NormalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}

// NormalizeURL standardizes destination URL format
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL // Return original if parsing fails
	}

	// Force lowercase scheme and host
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)

	return parsed.String()
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
