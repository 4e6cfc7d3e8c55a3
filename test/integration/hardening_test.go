//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoint(t *testing.T) {
	server, _ := newServer(t, nil)

	resp := doJSONRequest(t, http.MethodGet, server.URL+"/health", nil)
	t.Cleanup(func() { _ = resp.Body.Close() })
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSecurityHeaders(t *testing.T) {
	server, _ := newServer(t, map[string]string{
		"list_temp_accounts": `{"success":true,"data":{"accounts":[]}}`,
	})

	resp := doJSONRequest(t, http.MethodGet, server.URL+"/api/v1/accounts", nil)
	t.Cleanup(func() { _ = resp.Body.Close() })

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", resp.Header.Get("Referrer-Policy"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
}

func TestUpstreamUnreachable(t *testing.T) {
	// A non-envelope payload is a transport failure: it must read as
	// "could not reach", never as an application rejection.
	server, _ := newServer(t, map[string]string{
		"get_system_info": `<html>maintenance</html>`,
	})

	resp := doJSONRequest(t, http.MethodGet, server.URL+"/api/v1/system", nil)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var parsed struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.False(t, parsed.Success)
	assert.Equal(t, "UPSTREAM_UNREACHABLE", parsed.Error.Code)
	assert.Equal(t, "Could not reach the provisioning service", parsed.Error.Message)
}

func TestUpstreamRejection(t *testing.T) {
	server, _ := newServer(t, map[string]string{
		"get_statistics": `{"success":false,"error":"statistics unavailable"}`,
	})

	resp := doJSONRequest(t, http.MethodGet, server.URL+"/api/v1/dashboard", nil)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var parsed struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, "UPSTREAM_REJECTED", parsed.Error.Code)
	assert.Equal(t, "statistics unavailable", parsed.Error.Message)
}
