// Package session drives one interview from plan creation to report
// generation as an explicit state machine. The workflow is the sole mutator
// of a State; callers serialize access per session.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/index"
	"github.com/jonathan/interview-coach/internal/types"
)

// Phase is the lifecycle position of an interview session.
type Phase string

const (
	// PhaseCreated means documents are loaded but no plan exists yet.
	PhaseCreated Phase = "created"
	// PhasePlanned means the question plan exists and no question has been
	// served.
	PhasePlanned Phase = "planned"
	// PhaseAwaitingAnswer means a question has been served and the candidate
	// has not answered it.
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	// PhaseAnalyzing means an answer is being scored.
	PhaseAnalyzing Phase = "analyzing"
	// PhaseAdvancing means the note was recorded and the cursor moved on.
	PhaseAdvancing Phase = "advancing"
	// PhaseComplete means the plan is exhausted or the session was ended
	// early.
	PhaseComplete Phase = "complete"
)

// State is the aggregate for one interview session. CurrentQuestionIdx is
// the single source of truth for progress: 0 <= idx <= len(plan), and the
// session is complete exactly when idx equals the plan length.
type State struct {
	ID     uuid.UUID  `json:"id"`
	UserID *uuid.UUID `json:"user_id,omitempty"`
	Title  string     `json:"title,omitempty"`
	Phase  Phase      `json:"phase"`

	ResumeContent  string `json:"resume_content"`
	JobDescription string `json:"job_description"`

	Plan               *types.InterviewPlan     `json:"interview_plan"`
	CurrentQuestionIdx int                      `json:"current_question_idx"`
	Notes              []*types.InterviewNote   `json:"interview_notes"`
	History            []types.ConversationTurn `json:"conversation_history"`
	RAGContext         string                   `json:"rag_context"`
	Report             string                   `json:"interview_report"`
	IsComplete         bool                     `json:"is_complete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Index holds the session's retrieval index. It is rebuilt rather than
	// persisted; a nil index degrades retrieval to empty context.
	Index *index.Index `json:"-"`
}

// Progress returns answered and planned question counts.
func (s *State) Progress() (answered, total int) {
	if s == nil {
		return 0, 0
	}
	return s.CurrentQuestionIdx, s.Plan.Len()
}

// Exhausted reports whether every planned question has been answered.
func (s *State) Exhausted() bool {
	return s.CurrentQuestionIdx >= s.Plan.Len()
}
