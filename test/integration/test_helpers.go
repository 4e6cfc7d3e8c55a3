//go:build integration

package integration

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wp-temp-access/internal/activity"
	"wp-temp-access/internal/config"
	"wp-temp-access/internal/dashboard"
	"wp-temp-access/internal/directory"
	"wp-temp-access/internal/event"
	"wp-temp-access/internal/handler"
	"wp-temp-access/internal/router"
	"wp-temp-access/internal/upstream"
	"wp-temp-access/internal/workflow"
)

// provisioningStub plays the action-dispatch endpoint: fixed envelope
// bodies per action, with call counts for asserting what went out. With
// requireToken set, mutating actions are rejected as unauthenticated
// unless they carry that exact token, the way the real endpoint does.
type provisioningStub struct {
	mu           sync.Mutex
	calls        map[string]int
	responses    map[string]string
	requireToken string
}

var mutatingActions = map[string]bool{
	"create_temp_account": true,
	"delete_account":      true,
	"cleanup_expired":     true,
}

func newProvisioningStub(responses map[string]string) *provisioningStub {
	if responses == nil {
		responses = map[string]string{}
	}

	return &provisioningStub{
		calls:     map[string]int{},
		responses: responses,
	}
}

func (s *provisioningStub) count(action string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[action]
}

func (s *provisioningStub) enforceToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireToken = token
}

func (s *provisioningStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	action := r.PostForm.Get("action")

	s.mu.Lock()
	s.calls[action]++
	body, ok := s.responses[action]
	rejected := s.requireToken != "" && mutatingActions[action] &&
		r.PostForm.Get("csrf_token") != s.requireToken
	s.mu.Unlock()

	if rejected {
		body = `{"success":false,"error":"Invalid CSRF token"}`
	} else if !ok {
		body = `{"success":true}`
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

// newServer wires the full stack against a stubbed provisioning
// endpoint and returns the public server plus the stub for assertions.
func newServer(t *testing.T, responses map[string]string) (*httptest.Server, *provisioningStub) {
	t.Helper()

	stub := newProvisioningStub(responses)
	upstreamServer := httptest.NewServer(stub)
	t.Cleanup(upstreamServer.Close)

	cfg := &config.Config{
		ServerPort:              "8080",
		ServerReadHeaderTimeout: 15 * time.Second,
		ServerWriteTimeout:      30 * time.Second,
		ServerIdleTimeout:       120 * time.Second,
		RequestTimeout:          30 * time.Second,
		UpstreamURL:             upstreamServer.URL,
		UpstreamTimeout:         15 * time.Second,
		RefreshInterval:         30 * time.Second,
		TokenRefreshInterval:    45 * time.Minute,
		RevealWindow:            30 * time.Second,
		DailyCreateCap:          10,
		ActivityFeedSize:        20,
		CORSOrigins:             []string{"*"},
		RateLimitRPM:            1000,
		MutatingRateLimitRPM:    1000,
	}
	require.NoError(t, cfg.Validate())

	tokens := upstream.NewTokenStore()
	client := upstream.NewClient(cfg.UpstreamURL, cfg.CPUser, cfg.UpstreamTimeout, tokens)
	dir := directory.New(client)
	bus := event.NewBus()
	wf := workflow.NewService(client, dir, bus, cfg.RevealWindow)
	dashboardService := dashboard.NewService(client, cfg.DailyCreateCap)
	activityService := activity.NewService(client, cfg.ActivityFeedSize)

	handlers := router.Handlers{
		Account:   handler.NewAccountHandler(dir, wf),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Activity:  handler.NewActivityHandler(activityService),
		System:    handler.NewSystemHandler(client),
	}

	server := httptest.NewServer(router.New(cfg, handlers))
	t.Cleanup(server.Close)

	return server, stub
}

func doJSONRequest(t *testing.T, method string, url string, body []byte) *http.Response {
	t.Helper()

	var payloadReader *bytes.Reader
	if body == nil {
		payloadReader = bytes.NewReader([]byte{})
	} else {
		payloadReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, payloadReader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
