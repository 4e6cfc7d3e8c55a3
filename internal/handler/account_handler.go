package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"wp-temp-access/internal/directory"
	"wp-temp-access/internal/model"
	"wp-temp-access/internal/util"
	"wp-temp-access/internal/workflow"
	"wp-temp-access/pkg/apierror"
)

// accountView decorates a redacted account with derived display state.
// The outer URL field shadows the embedded one so only the sanitized
// value ever reaches the operator.
type accountView struct {
	model.Account
	URL         string `json:"url"`
	LoginURL    string `json:"login_url"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	MethodLabel string `json:"creation_method_label"`
}

type AccountHandler struct {
	dir      *directory.Directory
	workflow *workflow.Service
}

func NewAccountHandler(dir *directory.Directory, wf *workflow.Service) *AccountHandler {
	return &AccountHandler{dir: dir, workflow: wf}
}

// List serves the filtered, sorted directory view. Query params update
// the sticky view state, so the selected filters survive silent
// refreshes exactly like the original dropdowns did.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	criteria := model.FilterCriteria{
		Search: query.Get("search"),
		Status: parseStatus(query.Get("status")),
		Site:   query.Get("site"),
	}
	h.dir.SetCriteria(criteria)
	h.dir.SetSort(parseSort(query.Get("sort"), query.Get("dir")))

	accounts, total := h.dir.View()

	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, decorateAccount(a))
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"accounts": views,
		"sites":    h.dir.Sites(),
		"total":    total,
		"shown":    len(views),
	})
}

type createAccountRequest struct {
	Domain string `json:"domain"`
	Hours  int    `json:"hours"`
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", err.Error(), http.StatusBadRequest))
		return
	}

	created, err := h.workflow.Create(r.Context(), req.Domain, req.Hours)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{
		"account":               created,
		"creation_method_label": model.CreationMethodLabel(created.CreationMethod),
	})
}

// Reveal serves the one-time credentials of the most recent creation
// while the display window is still open.
func (h *AccountHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	created, err := h.workflow.Reveal()
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"account":               created,
		"creation_method_label": model.CreationMethodLabel(created.CreationMethod),
	})
}

type deleteAccountRequest struct {
	Domain   string `json:"domain"`
	Username string `json:"username"`
	Confirm  bool   `json:"confirm"`
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", err.Error(), http.StatusBadRequest))
		return
	}

	if err := h.workflow.Delete(r.Context(), req.Domain, req.Username, req.Confirm); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"deleted":  true,
		"domain":   req.Domain,
		"username": req.Username,
	})
}

type cleanupRequest struct {
	Confirm bool `json:"confirm"`
}

// Cleanup bulk-deletes expired accounts. Partial failure is reported
// with warning status rather than collapsed into pass/fail.
func (h *AccountHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req cleanupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", err.Error(), http.StatusBadRequest))
		return
	}

	result, err := h.workflow.CleanupExpired(r.Context(), req.Confirm)
	if err != nil {
		writeError(w, err)
		return
	}

	status := "success"
	if len(result.Errors) > 0 {
		status = "warning"
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"cleaned": result.Cleaned,
		"errors":  result.Errors,
		"status":  status,
	})
}

func decorateAccount(a model.Account) accountView {
	siteURL := a.URL
	if siteURL == "" {
		siteURL = "https://" + a.Domain
	}
	cleaned := util.SanitizeURL(siteURL)

	status := directory.Classify(a)
	label := "Active"
	if status == model.StatusExpiring {
		label = "Expiring Soon"
	}

	view := accountView{
		Account:     a,
		URL:         cleaned,
		LoginURL:    util.LoginTarget(cleaned),
		Status:      string(status),
		StatusLabel: label,
		MethodLabel: model.CreationMethodLabel(a.CreationMethod),
	}
	if view.CreatedBy == "" {
		view.CreatedBy = "unknown"
	}

	return view
}

func parseStatus(raw string) model.StatusFilter {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return model.StatusActive
	case "expiring":
		return model.StatusExpiring
	default:
		return model.StatusAll
	}
}

func parseSort(field string, direction string) model.SortSpec {
	spec := model.SortSpec{Direction: model.SortAsc}
	if strings.EqualFold(strings.TrimSpace(direction), "desc") {
		spec.Direction = model.SortDesc
	}

	switch strings.ToLower(strings.TrimSpace(field)) {
	case "domain":
		spec.Field = model.SortDomain
	case "username":
		spec.Field = model.SortUsername
	case "created":
		spec.Field = model.SortCreated
	case "expires":
		spec.Field = model.SortExpires
	case "status":
		spec.Field = model.SortStatus
	}

	return spec
}
