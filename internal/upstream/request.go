package upstream

import (
	"net/url"
	"strconv"
)

// Action selects the behavior of the single provisioning endpoint.
type Action string

const (
	ActionGetCSRFToken      Action = "get_csrf_token"
	ActionGetSystemInfo     Action = "get_system_info"
	ActionGetStatistics     Action = "get_statistics"
	ActionGetAlerts         Action = "get_alerts"
	ActionGetActivity       Action = "get_activity"
	ActionGetWPSites        Action = "get_wp_sites"
	ActionCreateTempAccount Action = "create_temp_account"
	ActionListTempAccounts  Action = "list_temp_accounts"
	ActionDeleteAccount     Action = "delete_account"
	ActionCleanupExpired    Action = "cleanup_expired"
)

// Request is the closed set of exchanges the provisioning endpoint
// understands, one variant per action. Mutating variants carry the
// current security token on the wire.
type Request interface {
	Action() Action
	Params() url.Values
	Mutating() bool
}

type tokenRequest struct{}

func (tokenRequest) Action() Action     { return ActionGetCSRFToken }
func (tokenRequest) Params() url.Values { return url.Values{} }
func (tokenRequest) Mutating() bool     { return false }

type systemInfoRequest struct{}

func (systemInfoRequest) Action() Action     { return ActionGetSystemInfo }
func (systemInfoRequest) Params() url.Values { return url.Values{} }
func (systemInfoRequest) Mutating() bool     { return false }

type statisticsRequest struct{}

func (statisticsRequest) Action() Action     { return ActionGetStatistics }
func (statisticsRequest) Params() url.Values { return url.Values{} }
func (statisticsRequest) Mutating() bool     { return false }

type alertsRequest struct{}

func (alertsRequest) Action() Action     { return ActionGetAlerts }
func (alertsRequest) Params() url.Values { return url.Values{} }
func (alertsRequest) Mutating() bool     { return false }

type activityRequest struct {
	limit int
}

func (activityRequest) Action() Action { return ActionGetActivity }

func (r activityRequest) Params() url.Values {
	return url.Values{"limit": []string{strconv.Itoa(r.limit)}}
}

func (activityRequest) Mutating() bool { return false }

type sitesRequest struct{}

func (sitesRequest) Action() Action     { return ActionGetWPSites }
func (sitesRequest) Params() url.Values { return url.Values{} }
func (sitesRequest) Mutating() bool     { return false }

type createAccountRequest struct {
	domain string
	hours  int
}

func (createAccountRequest) Action() Action { return ActionCreateTempAccount }

func (r createAccountRequest) Params() url.Values {
	return url.Values{
		"domain": []string{r.domain},
		"hours":  []string{strconv.Itoa(r.hours)},
	}
}

func (createAccountRequest) Mutating() bool { return true }

type listAccountsRequest struct{}

func (listAccountsRequest) Action() Action     { return ActionListTempAccounts }
func (listAccountsRequest) Params() url.Values { return url.Values{} }
func (listAccountsRequest) Mutating() bool     { return false }

type deleteAccountRequest struct {
	domain   string
	username string
}

func (deleteAccountRequest) Action() Action { return ActionDeleteAccount }

func (r deleteAccountRequest) Params() url.Values {
	return url.Values{
		"domain":   []string{r.domain},
		"username": []string{r.username},
	}
}

func (deleteAccountRequest) Mutating() bool { return true }

type cleanupRequest struct{}

func (cleanupRequest) Action() Action     { return ActionCleanupExpired }
func (cleanupRequest) Params() url.Values { return url.Values{} }
func (cleanupRequest) Mutating() bool     { return true }
