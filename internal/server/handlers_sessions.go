package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/pipeline"
	"github.com/jonathan/interview-coach/internal/report"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/jonathan/interview-coach/internal/types"
)

// CreateSessionRequest is the request body for starting an interview session.
// Exactly one of job_text and job_url must carry the job description; when
// both are set, job_text wins.
type CreateSessionRequest struct {
	Title        string `json:"title,omitempty"`
	ResumeText   string `json:"resume_text" validate:"required"`
	JobText      string `json:"job_text,omitempty"`
	JobURL       string `json:"job_url,omitempty" validate:"omitempty,url"`
	MaxQuestions int    `json:"max_questions,omitempty" validate:"omitempty,min=1,max=20"`
	UseBrowser   bool   `json:"use_browser,omitempty"`
}

// SessionResponse is the full JSON view of an interview session, served
// both from live in-memory state and from stored rows.
type SessionResponse struct {
	ID                 uuid.UUID                `json:"id"`
	Title              string                   `json:"title"`
	Status             string                   `json:"status"`
	PlanSource         types.PlanSource         `json:"plan_source,omitempty"`
	TotalQuestions     int                      `json:"total_questions"`
	CurrentQuestionIdx int                      `json:"current_question_idx"`
	AverageScore       *float64                 `json:"average_score,omitempty"`
	Notes              []*types.InterviewNote   `json:"interview_notes,omitempty"`
	History            []types.ConversationTurn `json:"conversation_history,omitempty"`
	FinalReport        string                   `json:"final_report,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// QuestionResponse carries the current question of a session, or signals
// that the plan is exhausted.
type QuestionResponse struct {
	Complete       bool                     `json:"complete"`
	QuestionNumber int                      `json:"question_number,omitempty"`
	TotalQuestions int                      `json:"total_questions,omitempty"`
	Question       *types.InterviewQuestion `json:"question,omitempty"`
}

// AnswerRequest is the request body for answering the current question.
type AnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// AnswerResponse returns the note recorded for an answer.
type AnswerResponse struct {
	Note           *types.InterviewNote `json:"note"`
	QuestionNumber int                  `json:"question_number"`
	TotalQuestions int                  `json:"total_questions"`
	Complete       bool                 `json:"complete"`
}

// FinishResponse returns the generated report for a finished session.
type FinishResponse struct {
	Report   string              `json:"report"`
	ReportID *uuid.UUID          `json:"report_id,omitempty"`
	Summary  *types.SummaryStats `json:"summary,omitempty"`
}

// handleCreateSession bootstraps a full interview session: ingest both
// documents, build the retrieval index, and generate the question plan.
// With ?stream=true progress is streamed as server-sent events.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.ResumeText == "" {
		s.errorResponse(w, http.StatusBadRequest, "resume_text is required")
		return
	}
	if req.JobText == "" && req.JobURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "Either job_text or job_url is required")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if req.Title == "" {
		req.Title = "Interview Session " + time.Now().Format("2006-01-02 15:04")
	}

	opts := pipeline.RunOptions{
		ResumeText:   req.ResumeText,
		JobText:      req.JobText,
		JobURL:       req.JobURL,
		Title:        req.Title,
		UserID:       &userID,
		MaxQuestions: req.MaxQuestions,
		APIKey:       s.apiKey,
		UseBrowser:   req.UseBrowser,
		Client:       s.llm,
		Embedder:     s.embedder,
	}
	s.applyUserSettings(r.Context(), userID, &opts)

	if r.URL.Query().Get("stream") == "true" {
		s.createSessionStream(w, r, userID, opts)
		return
	}

	result, err := pipeline.RunPipeline(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Session setup failed: "+err.Error())
		return
	}

	state := result.State
	s.sessions.Put(state)
	s.persistNewSession(r.Context(), userID, state)

	s.jsonResponse(w, http.StatusCreated, sessionResponseFromState(state))
}

// createSessionStream runs session setup while streaming pipeline progress
// as SSE events. The complete event carries the new session ID.
func (s *Server) createSessionStream(w http.ResponseWriter, r *http.Request, userID uuid.UUID, opts pipeline.RunOptions) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("progress", event); err != nil {
			log.Printf("Error writing SSE progress event: %v", err)
		}
	}

	result, err := pipeline.RunPipeline(r.Context(), opts)
	if err != nil {
		sse.WriteError("Session setup failed: " + err.Error())
		return
	}

	state := result.State
	s.sessions.Put(state)
	s.persistNewSession(r.Context(), userID, state)

	sse.WriteComplete(state.ID.String(), "ready")
}

// applyUserSettings fills unset pipeline knobs from the user's stored
// preferences. Request values win over stored settings.
func (s *Server) applyUserSettings(ctx context.Context, userID uuid.UUID, opts *pipeline.RunOptions) {
	if s.db == nil {
		return
	}
	settings, err := s.db.GetUserSettings(ctx, userID)
	if err != nil {
		log.Printf("Warning: failed to load user settings: %v", err)
		return
	}
	if opts.MaxQuestions == 0 {
		opts.MaxQuestions = settings.MaxQuestions
	}
	opts.ChunkSize = settings.ChunkSize
	opts.ChunkOverlap = settings.ChunkOverlap
}

// handleListSessions lists the authenticated user's sessions, newest first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	if s.db == nil {
		// Without persistence, fall back to the live session store.
		summaries := []db.SessionSummary{}
		for _, state := range s.sessions.List() {
			if state.UserID == nil || *state.UserID != userID {
				continue
			}
			summaries = append(summaries, liveSessionSummary(state))
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"sessions": summaries,
			"total":    len(summaries),
		})
		return
	}

	listOpts := db.ListSessionsOptions{
		UserID: userID,
		Status: r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			listOpts.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			listOpts.Offset = n
		}
	}

	sessions, total, err := s.db.ListSessions(r.Context(), listOpts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list sessions: "+err.Error())
		return
	}

	summaries := make([]db.SessionSummary, 0, len(sessions))
	for i := range sessions {
		summaries = append(summaries, rowSessionSummary(&sessions[i]))
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sessions": summaries,
		"total":    total,
	})
}

// handleGetSession returns one session with its notes and history.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	if state, ok := s.sessions.Get(id); ok && ownedBy(state, userID) {
		s.jsonResponse(w, http.StatusOK, sessionResponseFromState(state))
		return
	}

	if s.db == nil {
		s.errorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	row, err := s.db.GetSession(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get session: "+err.Error())
		return
	}
	if row == nil || row.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, sessionResponseFromRow(row))
}

// handleDeleteSession removes a session from the live store and the database.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	owned := false
	if state, ok := s.sessions.Get(id); ok && ownedBy(state, userID) {
		owned = true
	}

	if s.db != nil {
		row, err := s.db.GetSession(r.Context(), id)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to get session: "+err.Error())
			return
		}
		if row != nil && row.UserID == userID {
			owned = true
			if err := s.db.DeleteSession(r.Context(), id); err != nil {
				s.errorResponse(w, http.StatusInternalServerError, "Failed to delete session: "+err.Error())
				return
			}
		}
	}

	if !owned {
		s.errorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	s.sessions.Delete(id)
	s.locks.Delete(id)

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleCurrentQuestion returns the question awaiting an answer, or
// complete=true once the plan is exhausted.
func (s *Server) handleCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	mu := s.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	state, ok := s.loadSession(w, r, userID, id)
	if !ok {
		return
	}

	question, ok := s.workflow.CurrentQuestion(state)
	if !ok {
		s.jsonResponse(w, http.StatusOK, QuestionResponse{Complete: true})
		return
	}

	s.jsonResponse(w, http.StatusOK, QuestionResponse{
		Complete:       false,
		QuestionNumber: state.CurrentQuestionIdx + 1,
		TotalQuestions: state.Plan.Len(),
		Question:       question,
	})
}

// handleSubmitAnswer records and scores an answer to the current question.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	mu := s.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	state, ok := s.loadSession(w, r, userID, id)
	if !ok {
		return
	}

	note, err := s.workflow.SubmitAnswer(r.Context(), state, req.Answer)
	if err != nil {
		if errors.Is(err, session.ErrNoQuestion) {
			s.errorResponse(w, http.StatusConflict, "Interview is already complete")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Failed to record answer: "+err.Error())
		return
	}

	s.persistSessionProgress(r.Context(), state)

	s.jsonResponse(w, http.StatusOK, AnswerResponse{
		Note:           note,
		QuestionNumber: state.CurrentQuestionIdx,
		TotalQuestions: state.Plan.Len(),
		Complete:       state.Exhausted(),
	})
}

// handleFinishSession generates the final report and marks the session
// completed. Finishing twice regenerates the report.
func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUserID(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	mu := s.sessionLock(id)
	mu.Lock()
	defer mu.Unlock()

	state, ok := s.loadSession(w, r, userID, id)
	if !ok {
		return
	}

	reportText := s.workflow.Finish(r.Context(), state)
	s.persistSessionProgress(r.Context(), state)

	summary := report.Summary(state.Notes)
	resp := FinishResponse{
		Report:  reportText,
		Summary: &summary,
	}

	if s.db != nil {
		saved, err := s.db.SaveReport(r.Context(), userID, &state.ID, &db.SaveReportInput{
			Title:         state.Title,
			ReportContent: reportText,
			Summary:       &summary,
			Scores:        categoryScores(state.Notes),
		})
		if err != nil {
			log.Printf("Warning: failed to save report for session %s: %v", state.ID, err)
		} else {
			resp.ReportID = &saved.ID
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// loadSession resolves the session for a handler, writing the error
// response on failure.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request, userID, id uuid.UUID) (*session.State, bool) {
	state, err := s.liveSession(r.Context(), userID, id)
	if err == nil {
		return state, true
	}
	var notFound *ErrSessionNotFound
	if errors.As(err, &notFound) {
		s.errorResponse(w, http.StatusNotFound, "Session not found")
	} else {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load session: "+err.Error())
	}
	return nil, false
}

// liveSession returns the in-memory state for a session owned by userID,
// rehydrating it from the database when the server has restarted since the
// session was created. Rehydrated sessions have no retrieval index, so
// later answers are scored without document context.
func (s *Server) liveSession(ctx context.Context, userID, id uuid.UUID) (*session.State, error) {
	if state, ok := s.sessions.Get(id); ok {
		if !ownedBy(state, userID) {
			return nil, &ErrSessionNotFound{SessionID: id}
		}
		return state, nil
	}

	if s.db == nil {
		return nil, &ErrSessionNotFound{SessionID: id}
	}

	row, err := s.db.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if row == nil || row.UserID != userID {
		return nil, &ErrSessionNotFound{SessionID: id}
	}

	state := pipeline.StateFromRow(row)
	s.sessions.Put(state)
	return state, nil
}

// persistNewSession writes the freshly built session row. Persistence is
// best effort; the live session stays usable when the write fails.
func (s *Server) persistNewSession(ctx context.Context, userID uuid.UUID, state *session.State) {
	if s.db == nil {
		return
	}
	if _, err := s.db.CreateSession(ctx, userID, pipeline.SessionRow(state)); err != nil {
		log.Printf("Warning: failed to persist session %s: %v", state.ID, err)
	}
}

// persistSessionProgress updates the stored row after a state transition.
func (s *Server) persistSessionProgress(ctx context.Context, state *session.State) {
	if s.db == nil {
		return
	}
	if err := s.db.UpdateSession(ctx, state.ID, pipeline.SessionUpdate(state)); err != nil {
		log.Printf("Warning: failed to persist session %s progress: %v", state.ID, err)
	}
}

func ownedBy(state *session.State, userID uuid.UUID) bool {
	return state.UserID != nil && *state.UserID == userID
}

func sessionResponseFromState(state *session.State) SessionResponse {
	resp := SessionResponse{
		ID:                 state.ID,
		Title:              state.Title,
		Status:             db.SessionStatusInProgress,
		TotalQuestions:     state.Plan.Len(),
		CurrentQuestionIdx: state.CurrentQuestionIdx,
		Notes:              state.Notes,
		History:            state.History,
		FinalReport:        state.Report,
		CreatedAt:          state.CreatedAt,
		UpdatedAt:          state.UpdatedAt,
	}
	if state.Plan != nil {
		resp.PlanSource = state.Plan.Source
	}
	if state.IsComplete {
		resp.Status = db.SessionStatusCompleted
	}
	if len(state.Notes) > 0 {
		avg := report.OverallScore(state.Notes)
		resp.AverageScore = &avg
	}
	return resp
}

func sessionResponseFromRow(row *db.InterviewSession) SessionResponse {
	resp := SessionResponse{
		ID:                 row.ID,
		Title:              row.Title,
		Status:             row.Status,
		TotalQuestions:     row.TotalQuestions,
		CurrentQuestionIdx: row.CurrentQuestionIdx,
		AverageScore:       row.AverageScore,
		Notes:              row.InterviewNotes,
		History:            row.ConversationHistory,
		FinalReport:        row.FinalReport,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	if row.InterviewPlan != nil {
		resp.PlanSource = row.InterviewPlan.Source
	}
	return resp
}

func liveSessionSummary(state *session.State) db.SessionSummary {
	summary := db.SessionSummary{
		ID:             state.ID,
		Title:          state.Title,
		Status:         db.SessionStatusInProgress,
		TotalQuestions: state.Plan.Len(),
		CreatedAt:      state.CreatedAt,
	}
	if state.IsComplete {
		summary.Status = db.SessionStatusCompleted
	}
	if len(state.Notes) > 0 {
		avg := report.OverallScore(state.Notes)
		summary.AverageScore = &avg
	}
	return summary
}

func rowSessionSummary(row *db.InterviewSession) db.SessionSummary {
	return db.SessionSummary{
		ID:             row.ID,
		Title:          row.Title,
		Status:         row.Status,
		TotalQuestions: row.TotalQuestions,
		AverageScore:   row.AverageScore,
		CreatedAt:      row.CreatedAt,
	}
}

// categoryScores averages note scores per question category.
func categoryScores(notes []*types.InterviewNote) map[string]float64 {
	return report.CategoryAverages(notes)
}
