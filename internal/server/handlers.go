package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/meltforce/healthbridge/internal/bridge"
	"github.com/meltforce/healthbridge/internal/models"
	"github.com/meltforce/healthbridge/internal/native"
)

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"platform":  s.bridge.Platform(),
		"available": s.bridge.Available(r.Context()),
	})
}

func (s *Server) handlePermissionStatus(w http.ResponseWriter, r *http.Request) {
	dataType := models.DataType(r.URL.Query().Get("type"))
	access := models.AccessType(r.URL.Query().Get("access"))
	if access == "" {
		access = models.AccessRead
	}

	status, err := s.bridge.PermissionStatus(r.Context(), dataType, access)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type":   dataType,
		"access": access,
		"status": status,
	})
}

func (s *Server) handleRequestPermissions(w http.ResponseWriter, r *http.Request) {
	var perms []bridge.PermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&perms); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	granted, err := s.bridge.RequestPermissions(r.Context(), perms)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"granted": granted})
}

func (s *Server) handleReadData(w http.ResponseWriter, r *http.Request) {
	q := bridge.Query{
		Type:     models.DataType(r.URL.Query().Get("type")),
		Interval: native.Interval(r.URL.Query().Get("interval")),
	}

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	q.Start, q.End = start, end

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		q.Limit = limit
	}
	if v := r.URL.Query().Get("aggregate"); v != "" {
		q.Aggregate, _ = strconv.ParseBool(v)
	}

	records, err := s.bridge.ReadData(r.Context(), q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"type":    q.Type,
		"count":   len(records),
		"records": records,
	})
}

func (s *Server) handleWriteData(w http.ResponseWriter, r *http.Request) {
	var req models.WriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.bridge.WriteData(r.Context(), req); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "written"})
}

func (s *Server) handleOpenSettings(w http.ResponseWriter, r *http.Request) {
	if err := s.bridge.OpenPlatformSettings(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "opened"})
}

// writeError maps the service error taxonomy onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidParameters),
		errors.Is(err, models.ErrUnsupportedDataType):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrNotAvailable),
		errors.Is(err, models.ErrHealthServiceNotInstalled):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = parseTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endStr == "" {
		end = time.Now()
		return
	}
	end, err = parseTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return
}

// parseTime accepts RFC3339 or a bare date.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
