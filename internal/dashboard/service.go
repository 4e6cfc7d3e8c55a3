package dashboard

import (
	"context"
	"sync"

	"wp-temp-access/internal/model"
	"wp-temp-access/internal/upstream"
)

// AlertView decorates a server alert with its derived dispatch
// affordance. Server order is preserved.
type AlertView struct {
	model.Alert
	ActionKind  ActionKind `json:"action_kind,omitempty"`
	ActionLabel string     `json:"action_label,omitempty"`
}

// Summary is the aggregated dashboard state served to the operator.
type Summary struct {
	Stats              model.DashboardStats `json:"stats"`
	Load               LoadLevel            `json:"load"`
	RateLimitRemaining int                  `json:"rate_limit_remaining"`
	RateLimitWarning   bool                 `json:"rate_limit_warning"`
	Alerts             []AlertView          `json:"alerts"`
	Severity           Severity             `json:"severity"`
}

// Service keeps the latest successfully aggregated summary. A failed
// refresh leaves the previous summary in place, so the operator is
// never shown an empty dashboard over a transient blip.
type Service struct {
	client   *upstream.Client
	dailyCap int

	mu     sync.RWMutex
	latest *Summary
}

func NewService(client *upstream.Client, dailyCap int) *Service {
	if dailyCap <= 0 {
		dailyCap = 10
	}

	return &Service{client: client, dailyCap: dailyCap}
}

// Refresh fetches statistics and alerts and swaps in a freshly derived
// summary. Either fetch failing fails the refresh as a whole.
func (s *Service) Refresh(ctx context.Context) error {
	stats, err := s.client.Statistics(ctx)
	if err != nil {
		return err
	}

	alerts, err := s.client.Alerts(ctx)
	if err != nil {
		return err
	}

	summary := s.aggregate(stats, alerts)

	s.mu.Lock()
	s.latest = summary
	s.mu.Unlock()

	return nil
}

// Latest returns the most recent summary, or nil before the first
// successful refresh.
func (s *Service) Latest() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latest
}

// Summary serves the cached aggregate, refreshing first if the cache is
// still cold.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	if latest := s.Latest(); latest != nil {
		return latest, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	return s.Latest(), nil
}

func (s *Service) aggregate(stats *model.DashboardStats, alerts []model.Alert) *Summary {
	views := make([]AlertView, 0, len(alerts))
	for _, a := range alerts {
		view := AlertView{Alert: a}
		if a.Action != "" {
			view.ActionKind = ClassifyAction(a.Action)
			view.ActionLabel = ActionLabel(a.Action)
		}
		views = append(views, view)
	}

	remaining := RateLimitRemaining(stats.CreatedToday, s.dailyCap)

	return &Summary{
		Stats:              *stats,
		Load:               ClassifyActiveLoad(stats.ActiveAccounts),
		RateLimitRemaining: remaining,
		RateLimitWarning:   RateLimitWarning(remaining),
		Alerts:             views,
		Severity:           ClassifyAlerts(alerts),
	}
}
