package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"wp-temp-access/internal/model"
	"wp-temp-access/internal/upstream"
	"wp-temp-access/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError translates service errors into the response envelope. The
// two upstream failure channels stay distinct all the way out: a
// transport failure reads as "could not reach", an application failure
// carries the server-reported reason verbatim.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	var transportErr *upstream.TransportError
	var upstreamErr *upstream.UpstreamError

	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.As(err, &transportErr) {
		status = http.StatusBadGateway
		body.Code = "UPSTREAM_UNREACHABLE"
		body.Message = "Could not reach the provisioning service"
		body.Details = transportErr.Error()
	} else if errors.As(err, &upstreamErr) {
		status = http.StatusBadGateway
		body.Code = "UPSTREAM_REJECTED"
		body.Message = upstreamErr.Message
	} else if errors.Is(err, model.ErrConfirmationRequired) {
		status = http.StatusConflict
		body.Code = "CONFIRMATION_REQUIRED"
		body.Message = "This action is irreversible and must be explicitly confirmed"
	} else if errors.Is(err, model.ErrRevealNotAvailable) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "Credentials are no longer available"
	} else if errors.Is(err, model.ErrInvalidInput) {
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	} else {
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error:   body,
	})
}
