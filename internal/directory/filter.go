package directory

import (
	"strings"

	"wp-temp-access/internal/model"
)

// Matches reports whether the account satisfies every criterion.
// The three criteria are conjunctive and individually optional: an
// empty search term, an "all" (or empty) status, and an empty site each
// match unconditionally.
func Matches(a model.Account, c model.FilterCriteria) bool {
	if !matchesSearch(a, c.Search) {
		return false
	}

	switch c.Status {
	case model.StatusActive:
		if IsExpiring(a) {
			return false
		}
	case model.StatusExpiring:
		if !IsExpiring(a) {
			return false
		}
	}

	if c.Site != "" && a.Domain != c.Site {
		return false
	}

	return true
}

func matchesSearch(a model.Account, term string) bool {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return true
	}

	return strings.Contains(strings.ToLower(a.Domain), needle) ||
		strings.Contains(strings.ToLower(a.Username), needle) ||
		(a.CreatedBy != "" && strings.Contains(strings.ToLower(a.CreatedBy), needle))
}

// Filter returns the matching subsequence in directory order. It is a
// pure function of its inputs: repeated application is idempotent and
// never reorders.
func Filter(accounts []model.Account, c model.FilterCriteria) []model.Account {
	out := make([]model.Account, 0, len(accounts))
	for _, a := range accounts {
		if Matches(a, c) {
			out = append(out, a)
		}
	}

	return out
}
