package util

import (
	"net/url"
	"strings"
)

// PlaceholderURL is substituted for any URL that fails validation. It is
// deliberately inert: it must never be renderable as a live link target.
const PlaceholderURL = "#"

// SanitizeURL returns raw unchanged when it parses as an absolute http
// or https URL, and PlaceholderURL otherwise. This is the one hard
// security contract at the upstream boundary: it must hold even when
// the provisioning service is compromised or buggy, so schemes like
// javascript: and data: can never reach the operator as a click target.
func SanitizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PlaceholderURL
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return PlaceholderURL
	}

	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return PlaceholderURL
	}

	if parsed.Host == "" {
		return PlaceholderURL
	}

	return trimmed
}

// IsValidURL reports whether raw is an absolute http or https URL.
func IsValidURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}

// LoginTarget builds the wp-admin login URL for a site URL, sanitizing
// the result. An invalid base yields the placeholder rather than a
// partially constructed target.
func LoginTarget(siteURL string) string {
	cleaned := SanitizeURL(siteURL)
	if cleaned == PlaceholderURL {
		return PlaceholderURL
	}

	return strings.TrimRight(cleaned, "/") + "/wp-admin"
}
