package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wp-temp-access/internal/directory"
	"wp-temp-access/internal/model"
	"wp-temp-access/internal/upstream"
	"wp-temp-access/internal/workflow"
)

// upstreamStub answers the action-dispatch endpoint from a fixed table
// of raw envelope bodies keyed by action.
func upstreamStub(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		body, ok := responses[r.PostForm.Get("action")]
		if !ok {
			body = `{"success":true}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func newAccountHandler(t *testing.T, responses map[string]string) *AccountHandler {
	t.Helper()

	server := upstreamStub(t, responses)
	client := upstream.NewClient(server.URL, "", 0, upstream.NewTokenStore())
	dir := directory.New(client)
	wf := workflow.NewService(client, dir, nil, time.Minute)
	return NewAccountHandler(dir, wf)
}

type errorEnvelope struct {
	Success bool            `json:"success"`
	Error   *model.APIError `json:"error"`
}

func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	return env
}

func TestAccountHandler_List(t *testing.T) {
	h := newAccountHandler(t, map[string]string{
		"list_temp_accounts": `{"success":true,"data":{"accounts":[
			{"domain":"alpha.example.com","username":"wp_tmp_1","time_remaining":"1 hour","expiry_timestamp":1000,"hours":1},
			{"domain":"beta.example.com","username":"wp_tmp_2","time_remaining":"5 hours","expiry_timestamp":2000,"hours":5}
		]}}`,
	})
	require.NoError(t, h.dir.Refresh(context.Background()))

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts?status=expiring&sort=domain", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Accounts []map[string]any `json:"accounts"`
			Sites    []string         `json:"sites"`
			Total    int              `json:"total"`
			Shown    int              `json:"shown"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success)

	assert.Equal(t, 2, env.Data.Total)
	assert.Equal(t, 1, env.Data.Shown)
	assert.Equal(t, []string{"alpha.example.com", "beta.example.com"}, env.Data.Sites)

	require.Len(t, env.Data.Accounts, 1)
	account := env.Data.Accounts[0]
	assert.Equal(t, "wp_tmp_1", account["username"])
	assert.Equal(t, "expiring", account["status"])
	assert.Equal(t, "Expiring Soon", account["status_label"])
	assert.Equal(t, "https://alpha.example.com", account["url"])
	assert.Equal(t, "https://alpha.example.com/wp-admin", account["login_url"])
	assert.Equal(t, "unknown", account["created_by"])
}

func TestAccountHandler_Create(t *testing.T) {
	t.Run("malformed body is a 400", func(t *testing.T) {
		h := newAccountHandler(t, nil)

		rec := httptest.NewRecorder()
		h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader("{not json")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeErrorEnvelope(t, rec)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code)
	})

	t.Run("out-of-range hours is a 400", func(t *testing.T) {
		h := newAccountHandler(t, nil)

		rec := httptest.NewRecorder()
		h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts",
			strings.NewReader(`{"domain":"alpha.example.com","hours":169}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("success is a 201 with the one-time payload", func(t *testing.T) {
		h := newAccountHandler(t, map[string]string{
			"create_temp_account": `{"success":true,"data":{
				"domain":"alpha.example.com","username":"wp_temp_abc","password":"pw",
				"login_url":"https://alpha.example.com/wp-admin","creation_method":"wp_toolkit"
			}}`,
		})

		rec := httptest.NewRecorder()
		h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts",
			strings.NewReader(`{"domain":"alpha.example.com","hours":24}`)))

		require.Equal(t, http.StatusCreated, rec.Code)

		var env struct {
			Success bool `json:"success"`
			Data    struct {
				Account model.CreatedAccount `json:"account"`
				Label   string               `json:"creation_method_label"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, "pw", env.Data.Account.Password)
		assert.Equal(t, "WP Toolkit", env.Data.Label)
	})

	t.Run("upstream refusal is a 502 with the server reason", func(t *testing.T) {
		h := newAccountHandler(t, map[string]string{
			"create_temp_account": `{"success":false,"error":"daily account creation limit reached"}`,
		})

		rec := httptest.NewRecorder()
		h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts",
			strings.NewReader(`{"domain":"alpha.example.com","hours":24}`)))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		env := decodeErrorEnvelope(t, rec)
		assert.Equal(t, "UPSTREAM_REJECTED", env.Error.Code)
		assert.Equal(t, "daily account creation limit reached", env.Error.Message)
	})
}

func TestAccountHandler_Reveal(t *testing.T) {
	h := newAccountHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Reveal(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/reveal", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeErrorEnvelope(t, rec)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestAccountHandler_Delete(t *testing.T) {
	t.Run("unconfirmed delete is a 409", func(t *testing.T) {
		h := newAccountHandler(t, nil)

		rec := httptest.NewRecorder()
		h.Delete(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/delete",
			strings.NewReader(`{"domain":"alpha.example.com","username":"wp_tmp_1"}`)))

		assert.Equal(t, http.StatusConflict, rec.Code)
		env := decodeErrorEnvelope(t, rec)
		assert.Equal(t, "CONFIRMATION_REQUIRED", env.Error.Code)
	})

	t.Run("confirmed delete succeeds", func(t *testing.T) {
		h := newAccountHandler(t, nil)

		rec := httptest.NewRecorder()
		h.Delete(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/delete",
			strings.NewReader(`{"domain":"alpha.example.com","username":"wp_tmp_1","confirm":true}`)))

		require.Equal(t, http.StatusOK, rec.Code)

		var env struct {
			Data struct {
				Deleted  bool   `json:"deleted"`
				Username string `json:"username"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.True(t, env.Data.Deleted)
		assert.Equal(t, "wp_tmp_1", env.Data.Username)
	})
}

func TestAccountHandler_Cleanup(t *testing.T) {
	t.Run("partial failure reports warning status", func(t *testing.T) {
		h := newAccountHandler(t, map[string]string{
			"cleanup_expired": `{"success":true,"data":{"cleaned":3,"errors":["wp_tmp_9: table locked"]}}`,
		})

		rec := httptest.NewRecorder()
		h.Cleanup(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/cleanup",
			strings.NewReader(`{"confirm":true}`)))

		require.Equal(t, http.StatusOK, rec.Code)

		var env struct {
			Data struct {
				Cleaned int      `json:"cleaned"`
				Errors  []string `json:"errors"`
				Status  string   `json:"status"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, 3, env.Data.Cleaned)
		assert.Equal(t, "warning", env.Data.Status)
	})

	t.Run("clean run reports success status", func(t *testing.T) {
		h := newAccountHandler(t, map[string]string{
			"cleanup_expired": `{"success":true,"data":{"cleaned":0}}`,
		})

		rec := httptest.NewRecorder()
		h.Cleanup(rec, httptest.NewRequest(http.MethodPost, "/api/v1/accounts/cleanup",
			strings.NewReader(`{"confirm":true}`)))

		require.Equal(t, http.StatusOK, rec.Code)

		var env struct {
			Data struct {
				Status string `json:"status"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, "success", env.Data.Status)
	})
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, model.StatusActive, parseStatus("active"))
	assert.Equal(t, model.StatusExpiring, parseStatus(" Expiring "))
	assert.Equal(t, model.StatusAll, parseStatus(""))
	assert.Equal(t, model.StatusAll, parseStatus("bogus"))
}

func TestParseSort(t *testing.T) {
	spec := parseSort("created", "desc")
	assert.Equal(t, model.SortCreated, spec.Field)
	assert.Equal(t, model.SortDesc, spec.Direction)

	spec = parseSort("bogus", "asc")
	assert.Equal(t, model.SortField(""), spec.Field)
	assert.Equal(t, model.SortAsc, spec.Direction)
}
