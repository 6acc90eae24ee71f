package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/interview-coach/internal/db"
)

// UpdateSettingsRequest is the request body for replacing the user's
// interview settings. All fields are required; partial updates are not
// supported.
type UpdateSettingsRequest struct {
	MaxQuestions int     `json:"max_questions" validate:"required,min=1,max=20"`
	ModelName    string  `json:"model_name" validate:"required"`
	Temperature  float32 `json:"temperature" validate:"gte=0,lte=2"`
	ChunkSize    int     `json:"chunk_size" validate:"required,min=100,max=4000"`
	ChunkOverlap int     `json:"chunk_overlap" validate:"gte=0,ltfield=ChunkSize"`
}

// handleGetSettings returns the user's interview settings, creating the
// default row on first access.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	settings, err := s.db.GetUserSettings(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get settings: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, settings)
}

// handleUpdateSettings replaces the user's interview settings.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	settings, err := s.db.UpdateUserSettings(r.Context(), userID, &db.UpdateSettingsInput{
		MaxQuestions: req.MaxQuestions,
		ModelName:    req.ModelName,
		Temperature:  req.Temperature,
		ChunkSize:    req.ChunkSize,
		ChunkOverlap: req.ChunkOverlap,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update settings: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, settings)
}
