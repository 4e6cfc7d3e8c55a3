package model

// Alert levels as reported by get_alerts.
const (
	AlertInfo    = "info"
	AlertWarning = "warning"
	AlertDanger  = "danger"
)

// Alert action tags. Unrecognized tags degrade to a generic affordance
// with no operation bound.
const (
	ActionCleanupExpired = "cleanup_expired"
	ActionReviewAccounts = "review_accounts"
	ActionCheckCron      = "check_cron"
)

type DashboardStats struct {
	ActiveAccounts int            `json:"active_accounts"`
	ExpiredToday   int            `json:"expired_today"`
	CreatedToday   int            `json:"created_today"`
	AccountsBySite map[string]int `json:"accounts_by_site"`
}

type Alert struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

type SecurityFeatures struct {
	CSRFProtection   bool `json:"csrf_protection"`
	InputValidation  bool `json:"input_validation"`
	EncryptedStorage bool `json:"encrypted_storage"`
}

type SystemInfo struct {
	ServerName       string           `json:"server_name"`
	ServerPort       string           `json:"server_port"`
	IsWHM            bool             `json:"is_whm"`
	User             string           `json:"user"`
	SessionToken     string           `json:"session_token"`
	SecurityFeatures SecurityFeatures `json:"security_features"`
}
