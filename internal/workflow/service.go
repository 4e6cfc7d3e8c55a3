package workflow

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"wp-temp-access/internal/directory"
	"wp-temp-access/internal/event"
	"wp-temp-access/internal/model"
	"wp-temp-access/internal/upstream"
	"wp-temp-access/internal/util"
	"wp-temp-access/pkg/apierror"
)

const (
	minExpiryHours = 1
	maxExpiryHours = 168
)

// Service drives the provisioning lifecycle: create, delete, and bulk
// cleanup, each followed by a directory re-sync. It owns the one-time
// credential reveal window and the single permitted implicit recovery:
// a token re-acquire plus one retry when a mutating call is rejected as
// unauthenticated.
type Service struct {
	client       *upstream.Client
	dir          *directory.Directory
	bus          event.Bus
	revealWindow time.Duration

	mu             sync.Mutex
	reveal         *model.CreatedAccount
	revealDeadline time.Time
}

func NewService(client *upstream.Client, dir *directory.Directory, bus event.Bus, revealWindow time.Duration) *Service {
	if revealWindow <= 0 {
		revealWindow = 30 * time.Second
	}

	return &Service{
		client:       client,
		dir:          dir,
		bus:          bus,
		revealWindow: revealWindow,
	}
}

// Create validates locally, then submits the mutating create action.
// Validation failures never reach the network. On success the one-time
// credential payload is retained for the reveal window and the
// directory is re-synced to pick up the redacted entry.
func (s *Service) Create(ctx context.Context, domain string, hours int) (*model.CreatedAccount, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, apierror.New("BAD_REQUEST", "a WordPress site must be selected", "domain", http.StatusBadRequest)
	}
	if hours < minExpiryHours || hours > maxExpiryHours {
		return nil, apierror.New("BAD_REQUEST", "expiration must be between 1 and 168 hours", "hours", http.StatusBadRequest)
	}

	var created *model.CreatedAccount
	err := s.withTokenRetry(ctx, func() error {
		var callErr error
		created, callErr = s.client.CreateAccount(ctx, domain, hours)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	// The login URL is operator-facing and upstream-supplied: sanitize
	// before it can ever be rendered as a click target.
	created.LoginURL = util.SanitizeURL(created.LoginURL)

	now := time.Now()
	s.mu.Lock()
	s.reveal = created
	s.revealDeadline = now.Add(s.revealWindow)
	s.mu.Unlock()

	s.resync(ctx, "create")
	s.publish(event.TypeAccountCreated, map[string]string{
		"domain":   created.Domain,
		"username": created.Username,
	})

	return created, nil
}

// Reveal returns the most recently created credentials while the
// display window is open. The window is a UX timer, not a security
// control: it bounds how long the one-time payload stays retrievable,
// it does not invalidate the credential itself.
func (s *Service) Reveal() (*model.CreatedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reveal == nil {
		return nil, model.ErrRevealNotAvailable
	}
	if time.Now().After(s.revealDeadline) {
		s.reveal = nil
		return nil, model.ErrRevealNotAvailable
	}

	copied := *s.reveal
	return &copied, nil
}

// Delete removes one account by its composite (domain, username) key.
// Neither field alone is guaranteed unique. The irreversible-action
// gate requires explicit operator confirmation before any call is
// issued.
func (s *Service) Delete(ctx context.Context, domain string, username string, confirmed bool) error {
	if !confirmed {
		return model.ErrConfirmationRequired
	}

	domain = strings.TrimSpace(domain)
	username = strings.TrimSpace(username)
	if domain == "" || username == "" {
		return apierror.New("BAD_REQUEST", "domain and username are both required", "", http.StatusBadRequest)
	}

	err := s.withTokenRetry(ctx, func() error {
		return s.client.DeleteAccount(ctx, domain, username)
	})
	if err != nil {
		return err
	}

	s.resync(ctx, "delete")
	s.publish(event.TypeAccountDeleted, map[string]string{
		"domain":   domain,
		"username": username,
	})

	return nil
}

// CleanupExpired bulk-deletes all server-determined-expired accounts.
// Partial failure is representable: the result may carry per-item
// errors alongside a nonzero cleaned count, and the directory is
// re-synced regardless.
func (s *Service) CleanupExpired(ctx context.Context, confirmed bool) (*model.CleanupResult, error) {
	if !confirmed {
		return nil, model.ErrConfirmationRequired
	}

	var result *model.CleanupResult
	err := s.withTokenRetry(ctx, func() error {
		var callErr error
		result, callErr = s.client.CleanupExpired(ctx)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	s.resync(ctx, "cleanup")
	s.publish(event.TypeAccountsCleaned, result)

	return result, nil
}

// withTokenRetry runs a mutating call once, and when the upstream
// rejects it as unauthenticated, re-acquires the security token and
// retries exactly once. Any other failure, and any failure of the
// re-acquire itself, surfaces the original error unchanged.
func (s *Service) withTokenRetry(ctx context.Context, call func() error) error {
	err := call()
	if err == nil || !upstream.IsAuthRejection(err) {
		return err
	}

	if acquireErr := s.client.AcquireToken(ctx); acquireErr != nil {
		slog.Warn("token re-acquire failed", "error", acquireErr)
		return err
	}

	return call()
}

// resync refreshes the directory after a successful mutation. The
// mutation itself already succeeded, so a failed re-sync is logged and
// swallowed; the next silent refresh corrects the view.
func (s *Service) resync(ctx context.Context, op string) {
	if err := s.dir.Refresh(ctx); err != nil {
		slog.Warn("directory refresh after mutation failed", "op", op, "error", err)
	}
}

func (s *Service) publish(eventType event.Type, payload any) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
