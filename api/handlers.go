package api

import (
	"encoding/json"
	"log"
	"net/http"

	"gocausal/app"
	"gocausal/domain/core"
	"gocausal/internal/report"
)

// handleIndex returns a service banner with the available endpoints.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "causal-validation-engine",
		"source":  s.source,
		"endpoints": []string{
			"GET /health",
			"POST /api/v1/validate",
			"POST /api/v1/batch",
			"GET /api/v1/links",
			"GET /api/v1/parameters",
			"GET /api/v1/report",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleValidate runs the battery for a single directed pair.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req app.LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Cause == "" || req.Effect == "" {
		s.respondError(w, http.StatusBadRequest, "cause and effect are required")
		return
	}

	verdict, err := s.service.ValidateLink(r.Context(), s.table, req)
	if err != nil {
		if core.IsNotFoundError(err) {
			s.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, verdict)
}

// handleBatch validates an ordered list of candidate pairs.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req app.BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Pairs) == 0 {
		s.respondError(w, http.StatusBadRequest, "pairs must not be empty")
		return
	}

	result, err := s.service.ValidateBatch(r.Context(), s.table, req)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// handleLinks returns the registry snapshot ordered by link key.
func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	links := s.service.ValidatedLinks()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"links": links,
		"count": len(links),
	})
}

// handleParameters returns per-column profiles of the loaded table.
func (s *Server) handleParameters(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"source":     s.source,
		"rows":       s.table.Rows(),
		"parameters": s.table.Profile(),
	})
}

// handleReport renders the validated-link report. HTML by default,
// markdown with ?format=markdown.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	summary := report.NewSummary(s.service.ValidatedLinks())

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(summary.Markdown()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(summary.HTML())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
