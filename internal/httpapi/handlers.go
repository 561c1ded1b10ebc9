package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pageaudit/internal/store"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type analyzeResponse struct {
	ID     string          `json:"id,omitempty"`
	Report json.RawMessage `json:"report"`
}

// handleAnalyze runs a full analysis for the submitted URL. A page
// that cannot be fetched is a gateway error, not a report; only a
// reachable page produces scores.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var request analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	target := strings.TrimSpace(request.URL)
	if target == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "url is required")
		return
	}

	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		respondError(w, http.StatusBadRequest, "bad_request", "url must be absolute with scheme and host")
		return
	}

	started := s.clock()

	report, err := s.run(r.Context(), target)
	if err != nil {
		slog.Error("analysis failed", "url", target, "error", err)
		respondError(w, http.StatusBadGateway, "fetch_failed", err.Error())
		return
	}

	payload, err := json.Marshal(report)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "encode report")
		return
	}

	response := analyzeResponse{Report: payload}

	if s.store != nil {
		record, err := s.store.Save(r.Context(), store.Record{
			URL:          target,
			OverallScore: report.OverallScore(),
			Improvements: report.ImprovementCount(),
			DurationMS:   s.clock().Sub(started).Milliseconds(),
			Report:       payload,
		})
		if err != nil {
			slog.Error("persist report", "url", target, "error", err)
		} else {
			response.ID = record.ID
		}
	}

	respondJSON(w, http.StatusCreated, response)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotFound, "not_found", "report archive is disabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		slog.Error("list reports", "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "list reports")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"reports": records,
		"total":   len(records),
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotFound, "not_found", "report archive is disabled")
		return
	}

	id := chi.URLParam(r, "id")

	record, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "report not found")
		return
	}
	if err != nil {
		slog.Error("get report", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "get report")
		return
	}

	respondJSON(w, http.StatusOK, record)
}
