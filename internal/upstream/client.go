package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wp-temp-access/internal/model"
)

// TransportError means the exchange itself did not complete: connection
// failure, timeout, non-2xx status, or a malformed payload. Distinct
// from UpstreamError, which is a well-formed refusal.
type TransportError struct {
	Action Action
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError is an application-level failure: the endpoint answered
// with success=false and a server-reported reason.
type UpstreamError struct {
	Action  Action
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s rejected: %s", e.Action, e.Message)
}

// IsAuthRejection reports whether err is an application failure
// attributable to a missing or stale security token. Only such failures
// are eligible for the one-shot token refresh and retry in the
// provisioning workflow.
func IsAuthRejection(err error) bool {
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		return false
	}

	msg := strings.ToLower(upErr.Message)
	return strings.Contains(msg, "csrf") ||
		strings.Contains(msg, "token") ||
		strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "unauthorized")
}

// Client issues typed exchanges against the single action-dispatch
// provisioning endpoint. Mutating actions carry the current security
// token; when a cpuser is configured (administrative host context),
// every action carries it as the caller-context identifier. The client
// performs no retries; retry policy lives in callers.
type Client struct {
	endpoint string
	cpuser   string
	http     *http.Client
	tokens   *TokenStore
}

func NewClient(endpoint string, cpuser string, timeout time.Duration, tokens *TokenStore) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		endpoint: endpoint,
		cpuser:   cpuser,
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
	}
}

// Tokens exposes the security-token store backing this client.
func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) invoke(ctx context.Context, req Request, out any) error {
	form := req.Params()
	form.Set("action", string(req.Action()))
	if c.cpuser != "" {
		form.Set("cpuser", c.cpuser)
	}
	if req.Mutating() {
		// An unset token is still sent as absent; the upstream rejects
		// the call and the workflow's refresh-and-retry path recovers.
		if token := c.tokens.Current(); token != "" {
			form.Set("csrf_token", token)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return &TransportError{Action: req.Action(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &TransportError{Action: req.Action(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Action: req.Action(), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return &TransportError{Action: req.Action(), Err: err}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &TransportError{Action: req.Action(), Err: fmt.Errorf("malformed payload: %w", err)}
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "unknown error"
		}
		return &UpstreamError{Action: req.Action(), Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Action: req.Action(), Err: fmt.Errorf("malformed payload: %w", err)}
		}
	}

	return nil
}

// AcquireToken requests a fresh security token and replaces the stored
// value on success. On failure the store is left unchanged.
func (c *Client) AcquireToken(ctx context.Context) error {
	var data struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := c.invoke(ctx, tokenRequest{}, &data); err != nil {
		return err
	}
	if data.CSRFToken == "" {
		return &TransportError{Action: ActionGetCSRFToken, Err: fmt.Errorf("empty token in response")}
	}

	c.tokens.Replace(data.CSRFToken)
	return nil
}

func (c *Client) SystemInfo(ctx context.Context) (*model.SystemInfo, error) {
	var info model.SystemInfo
	if err := c.invoke(ctx, systemInfoRequest{}, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

func (c *Client) Statistics(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.invoke(ctx, statisticsRequest{}, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (c *Client) Alerts(ctx context.Context) ([]model.Alert, error) {
	var data struct {
		Alerts []model.Alert `json:"alerts"`
	}
	if err := c.invoke(ctx, alertsRequest{}, &data); err != nil {
		return nil, err
	}

	return data.Alerts, nil
}

func (c *Client) Activity(ctx context.Context, limit int) ([]model.ActivityEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	var data struct {
		Activity []model.ActivityEvent `json:"activity"`
	}
	if err := c.invoke(ctx, activityRequest{limit: limit}, &data); err != nil {
		return nil, err
	}

	return data.Activity, nil
}

func (c *Client) Sites(ctx context.Context) ([]model.Site, error) {
	var data struct {
		Sites []model.Site `json:"sites"`
	}
	if err := c.invoke(ctx, sitesRequest{}, &data); err != nil {
		return nil, err
	}

	return data.Sites, nil
}

func (c *Client) CreateAccount(ctx context.Context, domain string, hours int) (*model.CreatedAccount, error) {
	var created model.CreatedAccount
	if err := c.invoke(ctx, createAccountRequest{domain: domain, hours: hours}, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

func (c *Client) ListAccounts(ctx context.Context) ([]model.Account, error) {
	var data struct {
		Accounts []model.Account `json:"accounts"`
	}
	if err := c.invoke(ctx, listAccountsRequest{}, &data); err != nil {
		return nil, err
	}

	return data.Accounts, nil
}

func (c *Client) DeleteAccount(ctx context.Context, domain string, username string) error {
	return c.invoke(ctx, deleteAccountRequest{domain: domain, username: username}, nil)
}

func (c *Client) CleanupExpired(ctx context.Context) (*model.CleanupResult, error) {
	var result model.CleanupResult
	if err := c.invoke(ctx, cleanupRequest{}, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
