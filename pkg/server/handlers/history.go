package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mercator-hq/odrlcheck/pkg/history"
)

// HistoryResponse is the body of GET /v1/history.
type HistoryResponse struct {
	Total   int64             `json:"total"`
	Records []*history.Record `json:"records"`
}

// HistoryHandler serves the read side of the validation history.
type HistoryHandler struct {
	Storage history.Storage
	Logger  *slog.Logger
}

// NewHistoryHandler creates a history handler.
func NewHistoryHandler(storage history.Storage, logger *slog.Logger) *HistoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryHandler{Storage: storage, Logger: logger}
}

// List serves GET /v1/history. Supported query parameters are limit, offset,
// source, valid (true|false), since and until (RFC 3339) and order (asc|desc).
// Stored reports are omitted from the listing.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q, errResp := parseHistoryQuery(r)
	if errResp != nil {
		WriteError(w, errResp)
		return
	}
	q.ApplyDefaults()
	if err := q.Validate(); err != nil {
		WriteError(w, NewErrorResponse(ErrorTypeInvalidRequest, err.Error(), ""))
		return
	}

	records, err := h.Storage.List(r.Context(), q)
	if err != nil {
		h.Logger.Error("failed to list history", "error", err)
		WriteError(w, NewErrorResponse(ErrorTypeInternal, "failed to read history", ""))
		return
	}
	total, err := h.Storage.Count(r.Context(), q)
	if err != nil {
		h.Logger.Error("failed to count history", "error", err)
		WriteError(w, NewErrorResponse(ErrorTypeInternal, "failed to read history", ""))
		return
	}

	for i, rec := range records {
		summary := *rec
		summary.Report = nil
		records[i] = &summary
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Total: total, Records: records})
}

// Get serves GET /v1/history/{id}.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := h.Storage.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		WriteError(w, NewErrorResponse(ErrorTypeNotFound, "no history record "+id, "id"))
		return
	}
	if err != nil {
		h.Logger.Error("failed to read history record", "id", id, "error", err)
		WriteError(w, NewErrorResponse(ErrorTypeInternal, "failed to read history", ""))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func parseHistoryQuery(r *http.Request) (*history.Query, *ErrorResponse) {
	v := r.URL.Query()
	q := &history.Query{
		Source:    v.Get("source"),
		SortOrder: v.Get("order"),
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &q.Limit}, {"offset", &q.Offset}} {
		s := v.Get(p.name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, NewErrorResponse(ErrorTypeInvalidRequest, p.name+" must be an integer", p.name)
		}
		*p.dst = n
	}

	if s := v.Get("valid"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, NewErrorResponse(ErrorTypeInvalidRequest, "valid must be true or false", "valid")
		}
		q.Valid = &b
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"since", &q.Since}, {"until", &q.Until}} {
		s := v.Get(p.name)
		if s == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, NewErrorResponse(ErrorTypeInvalidRequest, p.name+" must be an RFC 3339 timestamp", p.name)
		}
		*p.dst = &t
	}
	return q, nil
}
