package server

import (
	"net/http"
)

// handleDashboard returns aggregate interview statistics for the
// authenticated user.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := s.db.GetDashboardStats(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get dashboard stats: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}
