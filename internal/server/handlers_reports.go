package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// handleListReports lists the authenticated user's report summaries,
// newest first.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	reports, err := s.db.ListReports(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list reports: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}

// handleGetReport returns one full report.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid report ID format")
		return
	}

	report, err := s.db.GetReport(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get report: "+err.Error())
		return
	}
	if report == nil || report.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "Report not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleDeleteReport deletes a report.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid report ID format")
		return
	}

	report, err := s.db.GetReport(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get report: "+err.Error())
		return
	}
	if report == nil || report.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "Report not found")
		return
	}

	if err := s.db.DeleteReport(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete report: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
