package directory

import (
	"sort"
	"strings"

	"wp-temp-access/internal/model"
)

// Sort returns a stably sorted copy of accounts. Ties preserve the
// prior relative order, so reversing the direction of a sort with
// distinct keys yields the exact reverse sequence. Sorting by created
// uses the derived issuance instant (expiry minus the original
// duration), not the expiry itself.
func Sort(accounts []model.Account, spec model.SortSpec) []model.Account {
	out := make([]model.Account, len(accounts))
	copy(out, accounts)

	if spec.Field == "" {
		return out
	}

	desc := spec.Direction == model.SortDesc
	sort.SliceStable(out, func(i int, j int) bool {
		cmp := compareBy(out[i], out[j], spec.Field)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})

	return out
}

func compareBy(a model.Account, b model.Account, field model.SortField) int {
	switch field {
	case model.SortDomain:
		return strings.Compare(strings.ToLower(a.Domain), strings.ToLower(b.Domain))
	case model.SortUsername:
		return strings.Compare(strings.ToLower(a.Username), strings.ToLower(b.Username))
	case model.SortCreated:
		return compareInt64(a.CreatedTimestamp(), b.CreatedTimestamp())
	case model.SortExpires:
		return compareInt64(a.ExpiryTimestamp, b.ExpiryTimestamp)
	case model.SortStatus:
		return compareInt64(statusRank(a), statusRank(b))
	default:
		return 0
	}
}

// statusRank orders expiring accounts after active ones in ascending
// direction, matching the numeric badge ordering of the original table.
func statusRank(a model.Account) int64 {
	if IsExpiring(a) {
		return 1
	}

	return 0
}

func compareInt64(a int64, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
