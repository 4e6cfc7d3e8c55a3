package directory

import (
	"strings"

	"wp-temp-access/internal/model"
)

// IsExpiring classifies an account as near expiry iff the server's
// free-text time_remaining denotes whole-hour granularity and the
// leading integer is below 2. "1 hour" and "1 hours" are expiring;
// "5 hours", "2 days", "Just now" are not. The upstream owns the text
// format, so callers must not assume precision beyond this rule; a
// numeric expiry_timestamp subtraction could replace this in one place
// if the upstream interface ever changes.
func IsExpiring(a model.Account) bool {
	remaining := a.TimeRemaining
	if !strings.Contains(remaining, "hour") {
		return false
	}

	n, ok := leadingInt(remaining)
	return ok && n < 2
}

// Classify returns the urgency bucket used by filtering, sorting, and
// status badges.
func Classify(a model.Account) model.StatusFilter {
	if IsExpiring(a) {
		return model.StatusExpiring
	}

	return model.StatusActive
}

// leadingInt parses the integer prefix of s, ignoring leading
// whitespace. Reports false when s does not start with a digit, which
// classifies as not expiring.
func leadingInt(s string) (int, bool) {
	trimmed := strings.TrimLeft(s, " \t")

	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}

	n := 0
	for _, c := range trimmed[:i] {
		n = n*10 + int(c-'0')
		if n > 1<<30 {
			return n, true
		}
	}

	return n, true
}
