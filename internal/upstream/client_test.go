package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wp-temp-access/internal/model"
)

// capture records the last decoded form and answers with the given
// envelope body.
type capture struct {
	form url.Values
	body string
}

func (c *capture) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		c.form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(c.body))
	}
}

func newTestClient(t *testing.T, handler http.Handler, cpuser string) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, cpuser, 0, NewTokenStore())
}

func envelopeBody(t *testing.T, data any) string {
	t.Helper()

	raw, err := json.Marshal(model.APIResponse{Success: true, Data: data})
	require.NoError(t, err)
	return string(raw)
}

func TestClient_FormEncoding(t *testing.T) {
	t.Run("read action carries only the action field", func(t *testing.T) {
		cap := &capture{body: envelopeBody(t, map[string]any{"accounts": []model.Account{}})}
		client := newTestClient(t, cap.handler(), "")
		client.Tokens().Replace("tok-123")

		_, err := client.ListAccounts(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "list_temp_accounts", cap.form.Get("action"))
		assert.False(t, cap.form.Has("csrf_token"), "read actions never carry the token")
		assert.False(t, cap.form.Has("cpuser"))
	})

	t.Run("mutating action carries the current token", func(t *testing.T) {
		cap := &capture{body: envelopeBody(t, model.CleanupResult{})}
		client := newTestClient(t, cap.handler(), "")
		client.Tokens().Replace("tok-123")

		_, err := client.CleanupExpired(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "cleanup_expired", cap.form.Get("action"))
		assert.Equal(t, "tok-123", cap.form.Get("csrf_token"))
	})

	t.Run("mutating action with an unset token omits the field", func(t *testing.T) {
		cap := &capture{body: envelopeBody(t, model.CleanupResult{})}
		client := newTestClient(t, cap.handler(), "")

		_, err := client.CleanupExpired(context.Background())
		require.NoError(t, err)
		assert.False(t, cap.form.Has("csrf_token"))
	})

	t.Run("configured cpuser rides every action", func(t *testing.T) {
		cap := &capture{body: envelopeBody(t, model.SystemInfo{})}
		client := newTestClient(t, cap.handler(), "reseller1")

		_, err := client.SystemInfo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "reseller1", cap.form.Get("cpuser"))
	})

	t.Run("create passes domain and hours", func(t *testing.T) {
		cap := &capture{body: envelopeBody(t, model.CreatedAccount{})}
		client := newTestClient(t, cap.handler(), "")

		_, err := client.CreateAccount(context.Background(), "alpha.example.com", 24)
		require.NoError(t, err)
		assert.Equal(t, "create_temp_account", cap.form.Get("action"))
		assert.Equal(t, "alpha.example.com", cap.form.Get("domain"))
		assert.Equal(t, "24", cap.form.Get("hours"))
	})

	t.Run("delete passes both identifying fields", func(t *testing.T) {
		cap := &capture{body: envelopeBody(t, nil)}
		client := newTestClient(t, cap.handler(), "")

		err := client.DeleteAccount(context.Background(), "alpha.example.com", "wp_tmp_1")
		require.NoError(t, err)
		assert.Equal(t, "alpha.example.com", cap.form.Get("domain"))
		assert.Equal(t, "wp_tmp_1", cap.form.Get("username"))
	})

	t.Run("activity passes the limit and defaults it", func(t *testing.T) {
		cap := &capture{body: envelopeBody(t, map[string]any{"activity": []model.ActivityEvent{}})}
		client := newTestClient(t, cap.handler(), "")

		_, err := client.Activity(context.Background(), 50)
		require.NoError(t, err)
		assert.Equal(t, "50", cap.form.Get("limit"))

		_, err = client.Activity(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, "20", cap.form.Get("limit"))
	})
}

func TestClient_Failures(t *testing.T) {
	t.Run("success false yields an application error with the server reason", func(t *testing.T) {
		cap := &capture{body: `{"success":false,"error":"domain not found"}`}
		client := newTestClient(t, cap.handler(), "")

		_, err := client.ListAccounts(context.Background())
		require.Error(t, err)

		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, "domain not found", upErr.Message)
		assert.Equal(t, ActionListTempAccounts, upErr.Action)
	})

	t.Run("success false with no reason gets a placeholder", func(t *testing.T) {
		cap := &capture{body: `{"success":false}`}
		client := newTestClient(t, cap.handler(), "")

		_, err := client.Statistics(context.Background())
		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, "unknown error", upErr.Message)
	})

	t.Run("non-2xx status is a transport error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}), "")

		_, err := client.ListAccounts(context.Background())
		var trErr *TransportError
		require.ErrorAs(t, err, &trErr)
	})

	t.Run("malformed payload is a transport error", func(t *testing.T) {
		cap := &capture{body: `<html>maintenance</html>`}
		client := newTestClient(t, cap.handler(), "")

		_, err := client.ListAccounts(context.Background())
		var trErr *TransportError
		require.ErrorAs(t, err, &trErr)
	})

	t.Run("unreachable endpoint is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(server.URL, "", 0, NewTokenStore())

		_, err := client.ListAccounts(context.Background())
		var trErr *TransportError
		require.ErrorAs(t, err, &trErr)
	})
}

func TestClient_AcquireToken(t *testing.T) {
	t.Run("replaces the stored token on success", func(t *testing.T) {
		cap := &capture{body: envelopeBody(t, map[string]string{"csrf_token": "fresh-token"})}
		client := newTestClient(t, cap.handler(), "")
		client.Tokens().Replace("stale-token")

		require.NoError(t, client.AcquireToken(context.Background()))
		assert.Equal(t, "get_csrf_token", cap.form.Get("action"))
		assert.Equal(t, "fresh-token", client.Tokens().Current())
	})

	t.Run("leaves the store unchanged on failure", func(t *testing.T) {
		cap := &capture{body: `{"success":false,"error":"nope"}`}
		client := newTestClient(t, cap.handler(), "")
		client.Tokens().Replace("stale-token")

		require.Error(t, client.AcquireToken(context.Background()))
		assert.Equal(t, "stale-token", client.Tokens().Current())
	})

	t.Run("rejects an empty token in a successful reply", func(t *testing.T) {
		cap := &capture{body: envelopeBody(t, map[string]string{"csrf_token": ""})}
		client := newTestClient(t, cap.handler(), "")
		client.Tokens().Replace("stale-token")

		err := client.AcquireToken(context.Background())
		var trErr *TransportError
		require.ErrorAs(t, err, &trErr)
		assert.Equal(t, "stale-token", client.Tokens().Current())
	})
}

func TestIsAuthRejection(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"stale csrf", &UpstreamError{Action: ActionDeleteAccount, Message: "Invalid CSRF token"}, true},
		{"expired token", &UpstreamError{Action: ActionCreateTempAccount, Message: "security token expired"}, true},
		{"unauthenticated", &UpstreamError{Action: ActionCleanupExpired, Message: "request unauthenticated"}, true},
		{"unauthorized", &UpstreamError{Action: ActionDeleteAccount, Message: "Unauthorized"}, true},
		{"unrelated rejection", &UpstreamError{Action: ActionCreateTempAccount, Message: "domain not found"}, false},
		{"transport failure", &TransportError{Action: ActionDeleteAccount, Err: errors.New("connection refused")}, false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsAuthRejection(tc.err))
		})
	}
}
