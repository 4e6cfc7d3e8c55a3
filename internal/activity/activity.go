package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wp-temp-access/internal/model"
	"wp-temp-access/internal/upstream"
)

// RelativeTime buckets the age of an event into the coarse units of the
// original feed: just now (<60s), minutes (<1h), hours (<1d), days
// (<1w), weeks beyond that, each integer-floored within its unit. The
// same event ages across silent refreshes, so this must be recomputed
// against wall-clock now at render time, never cached.
func RelativeTime(timestamp int64, now int64) string {
	diff := now - timestamp

	switch {
	case diff < 60:
		return "Just now"
	case diff < 3600:
		return fmt.Sprintf("%dm ago", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%dh ago", diff/3600)
	case diff < 604800:
		return fmt.Sprintf("%dd ago", diff/86400)
	default:
		return fmt.Sprintf("%dw ago", diff/604800)
	}
}

// EventIcon maps an event kind to its feed glyph. Unknown kinds get the
// generic note glyph.
func EventIcon(eventType string) string {
	switch eventType {
	case model.EventAccountCreated:
		return "✨"
	case model.EventAccountDeleted:
		return "🗑️"
	case model.EventAccountCleaned:
		return "🧹"
	case model.EventCleanupExpired:
		return "🔄"
	case model.EventSecurity:
		return "🚨"
	case model.EventSuspicious:
		return "⚠️"
	case model.EventRateLimitExceeded:
		return "🚫"
	case model.EventHoneypotTriggered:
		return "🍯"
	default:
		return "📝"
	}
}

// EntryView is an activity event decorated for rendering.
type EntryView struct {
	model.ActivityEvent
	Icon    string `json:"icon"`
	TimeAgo string `json:"time_ago"`
	ShowIP  bool   `json:"show_ip"`
}

// Service caches the raw bounded feed; decoration (icon, relative age)
// happens at render time so ages stay current across silent refreshes.
// A failed refresh leaves the previous feed in place.
type Service struct {
	client   *upstream.Client
	feedSize int

	mu     sync.RWMutex
	events []model.ActivityEvent
	loaded bool
}

func NewService(client *upstream.Client, feedSize int) *Service {
	if feedSize <= 0 {
		feedSize = 20
	}

	return &Service{client: client, feedSize: feedSize}
}

// Refresh pulls the bounded most-recent-first feed and swaps it in
// wholesale.
func (s *Service) Refresh(ctx context.Context) error {
	events, err := s.client.Activity(ctx, s.feedSize)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.events = events
	s.loaded = true
	s.mu.Unlock()

	return nil
}

// Recent serves up to limit entries from the cached feed, decorated
// against wall-clock now. A limit beyond the cached feed size goes to
// the upstream directly; a cold cache is refreshed first.
func (s *Service) Recent(ctx context.Context, limit int) ([]EntryView, error) {
	if limit <= 0 {
		limit = s.feedSize
	}

	if limit > s.feedSize {
		events, err := s.client.Activity(ctx, limit)
		if err != nil {
			return nil, err
		}
		return decorate(events, time.Now().Unix()), nil
	}

	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	events := s.events
	s.mu.RUnlock()

	if len(events) > limit {
		events = events[:limit]
	}

	return decorate(events, time.Now().Unix()), nil
}

func decorate(events []model.ActivityEvent, now int64) []EntryView {
	views := make([]EntryView, 0, len(events))
	for _, e := range events {
		views = append(views, EntryView{
			ActivityEvent: e,
			Icon:          EventIcon(e.Type),
			TimeAgo:       RelativeTime(e.Timestamp, now),
			ShowIP:        e.IP != "" && e.IP != "unknown",
		})
	}

	return views
}
