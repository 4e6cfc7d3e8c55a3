package handler

import (
	"net/http"

	"wp-temp-access/internal/model"
	"wp-temp-access/internal/upstream"
	"wp-temp-access/internal/util"
)

// siteView decorates a managed site with a sanitized URL and its
// detection provenance label. The outer URL shadows the embedded raw
// one.
type siteView struct {
	model.Site
	URL         string `json:"url"`
	MethodLabel string `json:"detection_method_label"`
}

type SystemHandler struct {
	client *upstream.Client
}

func NewSystemHandler(client *upstream.Client) *SystemHandler {
	return &SystemHandler{client: client}
}

func (h *SystemHandler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.client.SystemInfo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, info)
}

func (h *SystemHandler) Sites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.client.Sites(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]siteView, 0, len(sites))
	for _, site := range sites {
		views = append(views, siteView{
			Site:        site,
			URL:         util.SanitizeURL(site.URL),
			MethodLabel: detectionLabel(site.DetectionMethod),
		})
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"sites": views,
	})
}

func detectionLabel(method string) string {
	switch method {
	case model.DetectionWPToolkit:
		return "Managed by WP Toolkit"
	case model.DetectionDirectScan:
		return "Found by direct scan"
	default:
		return "Unknown"
	}
}
