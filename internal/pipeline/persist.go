package pipeline

import (
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/report"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/jonathan/interview-coach/internal/types"
)

// SessionRow builds the insert payload for a freshly planned session. The
// in-memory session ID becomes the row ID so both sides agree on it.
func SessionRow(state *session.State) *db.CreateSessionInput {
	return &db.CreateSessionInput{
		ID:             state.ID,
		Title:          state.Title,
		InterviewPlan:  state.Plan,
		ResumeContent:  state.ResumeContent,
		JobDescription: state.JobDescription,
		TotalQuestions: state.Plan.Len(),
	}
}

// SessionUpdate builds a partial update reflecting the session's current
// progress: cursor position, notes, history, running average, and the final
// report once one exists.
func SessionUpdate(state *session.State) *db.UpdateSessionInput {
	status := db.SessionStatusInProgress
	if state.IsComplete {
		status = db.SessionStatusCompleted
	}

	update := &db.UpdateSessionInput{
		Status:              &status,
		CurrentQuestionIdx:  &state.CurrentQuestionIdx,
		InterviewNotes:      state.Notes,
		ConversationHistory: state.History,
		AverageScore:        averageScore(state.Notes),
	}
	if state.Report != "" {
		update.FinalReport = &state.Report
	}
	return update
}

// averageScore returns the mean note score, or nil before the first answer
func averageScore(notes []*types.InterviewNote) *float64 {
	if len(notes) == 0 {
		return nil
	}
	avg := report.OverallScore(notes)
	return &avg
}

// StateFromRow rebuilds an in-memory session from its stored row, for
// resuming an interview after a restart. The retrieval index is not
// persisted, so rehydrated sessions score answers without document context.
func StateFromRow(row *db.InterviewSession) *session.State {
	userID := row.UserID
	state := &session.State{
		ID:                 row.ID,
		UserID:             &userID,
		Title:              row.Title,
		ResumeContent:      row.ResumeContent,
		JobDescription:     row.JobDescription,
		Plan:               row.InterviewPlan,
		CurrentQuestionIdx: row.CurrentQuestionIdx,
		Notes:              row.InterviewNotes,
		History:            row.ConversationHistory,
		Report:             row.FinalReport,
		IsComplete:         row.Status == db.SessionStatusCompleted,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	switch {
	case state.IsComplete || state.Exhausted():
		state.Phase = session.PhaseComplete
	case state.CurrentQuestionIdx == 0:
		state.Phase = session.PhasePlanned
	default:
		state.Phase = session.PhaseAdvancing
	}
	return state
}
