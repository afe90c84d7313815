package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"mercator-hq/odrlcheck/pkg/history/recorder"
	"mercator-hq/odrlcheck/pkg/odrl/validator"
	"mercator-hq/odrlcheck/pkg/telemetry/logging"
)

// RecordIDHeader carries the history record ID of a validation.
const RecordIDHeader = "X-Record-ID"

// HistoryRecorder stores validation reports. *recorder.Recorder implements it.
type HistoryRecorder interface {
	Record(ctx context.Context, report *validator.ValidationReport, meta recorder.Meta) (string, error)
}

// ValidateRequest is the body of the validate endpoints.
type ValidateRequest struct {
	UserText       string `json:"user_text"`
	GeneratedGraph string `json:"generated_graph"`
}

// ValidateHandler serves POST /v1/validate and POST /v1/validate/feedback.
type ValidateHandler struct {
	Validator *validator.Validator
	Recorder  HistoryRecorder // optional
	Logger    *slog.Logger
}

// NewValidateHandler creates a validate handler. rec may be nil.
func NewValidateHandler(v *validator.Validator, rec HistoryRecorder, logger *slog.Logger) *ValidateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ValidateHandler{Validator: v, Recorder: rec, Logger: logger}
}

// ServeHTTP returns the validation report as JSON.
func (h *ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report, ok := h.validate(w, r)
	if !ok {
		return
	}

	data, err := report.JSON()
	if err != nil {
		h.Logger.Error("failed to encode report", "error", err)
		WriteError(w, NewErrorResponse(ErrorTypeInternal, "failed to encode report", ""))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Feedback returns the validation report as a Markdown feedback document.
func (h *ValidateHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	report, ok := h.validate(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, report.Render())
}

func (h *ValidateHandler) validate(w http.ResponseWriter, r *http.Request) (*validator.ValidationReport, bool) {
	req, errResp := decodeValidateRequest(r)
	if errResp != nil {
		WriteError(w, errResp)
		return nil, false
	}

	start := time.Now()
	ctx := logging.WithSource(r.Context(), "api")
	report := h.Validator.Validate(ctx, req.UserText, req.GeneratedGraph)
	duration := time.Since(start)

	h.Logger.Debug("graph validated",
		"request_id", logging.GetRequestID(ctx),
		"valid", report.IsValid,
		"violations", report.ViolationCount,
		"warnings", report.WarningCount,
		"duration_ms", duration.Milliseconds(),
	)

	if h.Recorder != nil {
		id, err := h.Recorder.Record(ctx, report, recorder.Meta{
			Source:    "api",
			RequestID: logging.GetRequestID(ctx),
			Duration:  duration,
		})
		if err != nil {
			h.Logger.Warn("failed to record validation", "error", err)
		} else {
			w.Header().Set(RecordIDHeader, id)
		}
	}
	return report, true
}

func decodeValidateRequest(r *http.Request) (*ValidateRequest, *ErrorResponse) {
	var req ValidateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, NewErrorResponse(ErrorTypeTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), "")
		}
		if errors.Is(err, io.EOF) {
			return nil, NewErrorResponse(ErrorTypeInvalidRequest, "request body is empty", "")
		}
		return nil, NewErrorResponse(ErrorTypeInvalidRequest, "invalid JSON: "+err.Error(), "")
	}
	return &req, nil
}
