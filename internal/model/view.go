package model

// StatusFilter selects accounts by urgency classification.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusExpiring StatusFilter = "expiring"
)

// FilterCriteria is pure view state: it never mutates the directory and
// must be reapplicable idempotently whenever the directory changes. An
// empty field matches all accounts.
type FilterCriteria struct {
	Search string
	Status StatusFilter
	Site   string
}

type SortField string

const (
	SortDomain   SortField = "domain"
	SortUsername SortField = "username"
	SortCreated  SortField = "created"
	SortExpires  SortField = "expires"
	SortStatus   SortField = "status"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

type SortSpec struct {
	Field     SortField
	Direction SortDirection
}
