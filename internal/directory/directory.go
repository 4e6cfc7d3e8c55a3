package directory

import (
	"context"
	"sort"
	"sync"

	"wp-temp-access/internal/model"
	"wp-temp-access/internal/upstream"
)

// Directory is the authoritative in-memory list of known temporary
// accounts plus the current filter/sort view state. It is a thin,
// recoverable cache of server-reported truth: every successful refresh
// replaces the whole collection atomically, a failed refresh leaves the
// previous collection untouched, and nothing is ever persisted.
//
// Ordering under concurrent refreshes is last-writer-wins by arrival:
// an overtaken request that completes late applies its own atomic
// result, and the next successful refresh corrects any stale view. No
// monotonic versioning is layered on top.
type Directory struct {
	client *upstream.Client

	mu       sync.RWMutex
	accounts []model.Account
	sites    []string
	criteria model.FilterCriteria
	sortSpec model.SortSpec
}

func New(client *upstream.Client) *Directory {
	return &Directory{client: client}
}

// Refresh pulls the current account list and swaps it in wholesale. On
// any error the cached collection is left as it was.
func (d *Directory) Refresh(ctx context.Context) error {
	accounts, err := d.client.ListAccounts(ctx)
	if err != nil {
		return err
	}

	d.Replace(accounts)
	return nil
}

// Replace atomically swaps the account collection, recomputes the
// distinct site list, and reconciles the site filter: a previously
// selected site is preserved if still present, otherwise reset to all.
func (d *Directory) Replace(accounts []model.Account) {
	sites := distinctSites(accounts)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.accounts = accounts
	d.sites = sites

	if d.criteria.Site != "" && !containsSite(sites, d.criteria.Site) {
		d.criteria.Site = ""
	}
}

// Snapshot returns a copy of the full collection in directory order.
func (d *Directory) Snapshot() []model.Account {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]model.Account, len(d.accounts))
	copy(out, d.accounts)
	return out
}

// Sites returns the distinct domains present in the directory, sorted
// lexicographically. Used to populate the site filter.
func (d *Directory) Sites() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]string, len(d.sites))
	copy(out, d.sites)
	return out
}

// SetCriteria replaces the sticky filter state. A site not present in
// the current directory is accepted; it simply matches nothing until
// the next refresh reconciles it.
func (d *Directory) SetCriteria(c model.FilterCriteria) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.criteria = c
}

func (d *Directory) Criteria() model.FilterCriteria {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.criteria
}

// SetSort replaces the sticky sort state. An empty field renders the
// directory in arrival order.
func (d *Directory) SetSort(spec model.SortSpec) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sortSpec = spec
}

func (d *Directory) SortSpec() model.SortSpec {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.sortSpec
}

// View derives the filtered, sorted projection plus the total count.
// It is recomputed from scratch on every call; view state never feeds
// back into the directory.
func (d *Directory) View() ([]model.Account, int) {
	d.mu.RLock()
	accounts := d.accounts
	criteria := d.criteria
	spec := d.sortSpec
	d.mu.RUnlock()

	filtered := Filter(accounts, criteria)
	return Sort(filtered, spec), len(accounts)
}

func distinctSites(accounts []model.Account) []string {
	seen := make(map[string]struct{}, len(accounts))
	sites := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if _, ok := seen[a.Domain]; ok {
			continue
		}
		seen[a.Domain] = struct{}{}
		sites = append(sites, a.Domain)
	}

	sort.Strings(sites)
	return sites
}

func containsSite(sites []string, site string) bool {
	for _, s := range sites {
		if s == site {
			return true
		}
	}

	return false
}
