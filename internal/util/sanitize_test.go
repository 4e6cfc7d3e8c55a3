package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeURL(t *testing.T) {
	t.Run("accepts http and https", func(t *testing.T) {
		assert.Equal(t, "https://example.com/wp-admin", SanitizeURL("https://example.com/wp-admin"))
		assert.Equal(t, "http://example.com", SanitizeURL("http://example.com"))
	})

	t.Run("replaces script schemes with placeholder", func(t *testing.T) {
		assert.Equal(t, PlaceholderURL, SanitizeURL("javascript:alert(1)"))
		assert.Equal(t, PlaceholderURL, SanitizeURL("data:text/html,<script>alert(1)</script>"))
		assert.Equal(t, PlaceholderURL, SanitizeURL("JAVASCRIPT:alert(1)"))
	})

	t.Run("replaces malformed and empty input", func(t *testing.T) {
		assert.Equal(t, PlaceholderURL, SanitizeURL(""))
		assert.Equal(t, PlaceholderURL, SanitizeURL("   "))
		assert.Equal(t, PlaceholderURL, SanitizeURL("://nope"))
		assert.Equal(t, PlaceholderURL, SanitizeURL("ftp://example.com/file"))
	})

	t.Run("rejects scheme-relative and hostless urls", func(t *testing.T) {
		assert.Equal(t, PlaceholderURL, SanitizeURL("/wp-admin"))
		assert.Equal(t, PlaceholderURL, SanitizeURL("https://"))
	})
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://example.com"))
	assert.True(t, IsValidURL("http://example.com/path?q=1"))
	assert.False(t, IsValidURL("javascript:alert(1)"))
	assert.False(t, IsValidURL("example.com"))
	assert.False(t, IsValidURL(""))
}

func TestLoginTarget(t *testing.T) {
	t.Run("appends wp-admin without doubling slashes", func(t *testing.T) {
		assert.Equal(t, "https://example.com/wp-admin", LoginTarget("https://example.com/"))
		assert.Equal(t, "https://example.com/wp-admin", LoginTarget("https://example.com"))
	})

	t.Run("invalid base yields placeholder, not a partial target", func(t *testing.T) {
		assert.Equal(t, PlaceholderURL, LoginTarget("javascript:alert(1)"))
		assert.Equal(t, PlaceholderURL, LoginTarget(""))
	})
}
