package dashboard

import "wp-temp-access/internal/model"

// LoadLevel bands the active-account count for the at-a-glance card.
type LoadLevel string

const (
	LoadNormal   LoadLevel = "normal"
	LoadHigh     LoadLevel = "high"
	LoadCritical LoadLevel = "critical"
)

// ClassifyActiveLoad buckets the active count into three ordered,
// non-overlapping bands with inclusive thresholds: >20 critical,
// >10 high, else normal.
func ClassifyActiveLoad(activeCount int) LoadLevel {
	switch {
	case activeCount > 20:
		return LoadCritical
	case activeCount > 10:
		return LoadHigh
	default:
		return LoadNormal
	}
}

// Severity is the aggregate dashboard health signal, totally ordered:
// danger > warning > info > ok.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// ClassifyAlerts folds the alert list to its highest severity. An empty
// list is ok; any danger dominates, then warning, then info.
func ClassifyAlerts(alerts []model.Alert) Severity {
	if len(alerts) == 0 {
		return SeverityOK
	}

	severity := SeverityInfo
	for _, a := range alerts {
		switch a.Level {
		case model.AlertDanger:
			return SeverityDanger
		case model.AlertWarning:
			severity = SeverityWarning
		}
	}

	return severity
}

// RateLimitRemaining reports how many creations are left under the
// daily cap. May go negative if the upstream counted past the cap.
func RateLimitRemaining(createdToday int, dailyCap int) int {
	return dailyCap - createdToday
}

// RateLimitWarning is the band at which the remaining allowance is
// surfaced as a warning.
func RateLimitWarning(remaining int) bool {
	return remaining <= 2
}

// ActionKind describes what dispatching an alert action tag does.
type ActionKind string

const (
	// ActionKindOperation maps to the bulk cleanup workflow call.
	ActionKindOperation ActionKind = "operation"
	// ActionKindNavigate maps to in-page navigation to the account list.
	ActionKindNavigate ActionKind = "navigate"
	// ActionKindAdvise surfaces an advisory message only.
	ActionKindAdvise ActionKind = "advise"
	// ActionKindNone is the degraded affordance for unrecognized tags:
	// no operation is bound.
	ActionKindNone ActionKind = "none"
)

// ClassifyAction maps a tag from the closed action enumeration to
// exactly one dispatch kind. Unrecognized tags degrade to none.
func ClassifyAction(action string) ActionKind {
	switch action {
	case model.ActionCleanupExpired:
		return ActionKindOperation
	case model.ActionReviewAccounts:
		return ActionKindNavigate
	case model.ActionCheckCron:
		return ActionKindAdvise
	default:
		return ActionKindNone
	}
}

// ActionLabel is the button label for an alert action tag.
func ActionLabel(action string) string {
	switch action {
	case model.ActionCleanupExpired:
		return "Clean Up Now"
	case model.ActionReviewAccounts:
		return "Review Accounts"
	case model.ActionCheckCron:
		return "Check Cron Jobs"
	default:
		return "Take Action"
	}
}
