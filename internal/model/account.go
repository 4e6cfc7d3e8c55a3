package model

// Creation method tags reported by the provisioning service.
const (
	MethodWPToolkit = "wp_toolkit"
	MethodDirectDB  = "direct_db"
)

// Site detection method tags reported by get_wp_sites.
const (
	DetectionWPToolkit  = "wp_toolkit"
	DetectionDirectScan = "direct_scan"
)

// Account is the redacted listing form of a temporary credential. The
// password is only ever present in CreatedAccount, returned once at
// creation time.
type Account struct {
	Domain          string `json:"domain"`
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	Created         string `json:"created,omitempty"`
	CreatedBy       string `json:"created_by,omitempty"`
	Expires         string `json:"expires,omitempty"`
	ExpiryTimestamp int64  `json:"expiry_timestamp"`
	Hours           int    `json:"hours"`
	TimeRemaining   string `json:"time_remaining"`
	CreationMethod  string `json:"creation_method,omitempty"`
	URL             string `json:"url,omitempty"`
}

// CreatedTimestamp derives the issuance instant from the expiry and the
// original duration. The listing endpoint does not report creation time
// directly.
func (a Account) CreatedTimestamp() int64 {
	return a.ExpiryTimestamp - int64(a.Hours)*3600
}

// CreatedAccount is the one-time credential payload returned by
// create_temp_account. It is never retrievable from the upstream again.
type CreatedAccount struct {
	Domain         string `json:"domain"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	Email          string `json:"email"`
	Expires        string `json:"expires"`
	LoginURL       string `json:"login_url"`
	CreationMethod string `json:"creation_method"`
}

// CreationMethodLabel maps a provenance tag to its display label.
func CreationMethodLabel(method string) string {
	switch method {
	case MethodWPToolkit:
		return "WP Toolkit"
	case MethodDirectDB:
		return "Direct Database"
	default:
		return "Unknown"
	}
}

// Site is a managed WordPress installation eligible for temporary
// account provisioning.
type Site struct {
	ID              string `json:"id"`
	Domain          string `json:"domain"`
	Path            string `json:"path"`
	Version         string `json:"version"`
	DetectionMethod string `json:"detection_method"`
	URL             string `json:"url"`
}

// CleanupResult reports the outcome of a bulk expired-account cleanup.
// Partial failure is representable: some accounts may fail to delete
// while others succeed.
type CleanupResult struct {
	Cleaned int      `json:"cleaned"`
	Errors  []string `json:"errors,omitempty"`
}
