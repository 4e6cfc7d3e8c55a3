package model

// Activity event kinds recorded by the provisioning service.
const (
	EventAccountCreated    = "account_created"
	EventAccountDeleted    = "account_deleted"
	EventAccountCleaned    = "account_cleaned"
	EventCleanupExpired    = "cleanup_expired"
	EventSecurity          = "security_event"
	EventSuspicious        = "suspicious_behavior"
	EventRateLimitExceeded = "rate_limit_exceeded"
	EventHoneypotTriggered = "honeypot_triggered"
)

type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	User      string `json:"user"`
	IP        string `json:"ip,omitempty"`
	Details   string `json:"details"`
}
