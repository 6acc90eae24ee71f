package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/types"
)

// Session status constants
const (
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
)

// InterviewSession represents a row in interview_sessions. Plan, notes,
// and history are stored as JSONB.
type InterviewSession struct {
	ID                  uuid.UUID                `json:"id"`
	UserID              uuid.UUID                `json:"user_id"`
	Title               string                   `json:"title"`
	Status              string                   `json:"status"`
	InterviewPlan       *types.InterviewPlan     `json:"interview_plan,omitempty"`
	CurrentQuestionIdx  int                      `json:"current_question_idx"`
	InterviewNotes      []*types.InterviewNote   `json:"interview_notes,omitempty"`
	ConversationHistory []types.ConversationTurn `json:"conversation_history,omitempty"`
	ResumeContent       string                   `json:"resume_content,omitempty"`
	JobDescription      string                   `json:"job_description,omitempty"`
	TotalQuestions      int                      `json:"total_questions"`
	AverageScore        *float64                 `json:"average_score,omitempty"`
	FinalReport         string                   `json:"final_report,omitempty"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

// CreateSessionInput holds the fields for a new session row. Zero-valued
// Title and Status get defaults on insert; a zero ID gets a fresh UUID.
type CreateSessionInput struct {
	ID                  uuid.UUID
	Title               string
	Status              string
	InterviewPlan       *types.InterviewPlan
	CurrentQuestionIdx  int
	InterviewNotes      []*types.InterviewNote
	ConversationHistory []types.ConversationTurn
	ResumeContent       string
	JobDescription      string
	TotalQuestions      int
	AverageScore        *float64
	FinalReport         string
}

// UpdateSessionInput holds a partial session update. Nil fields are left
// unchanged.
type UpdateSessionInput struct {
	Title               *string
	Status              *string
	InterviewPlan       *types.InterviewPlan
	CurrentQuestionIdx  *int
	InterviewNotes      []*types.InterviewNote
	ConversationHistory []types.ConversationTurn
	ResumeContent       *string
	JobDescription      *string
	TotalQuestions      *int
	AverageScore        *float64
	FinalReport         *string
}

// ListSessionsOptions holds filters for listing sessions
type ListSessionsOptions struct {
	UserID uuid.UUID
	Status string
	Limit  int
	Offset int
}

// SessionSummary is a lightweight view of a session for dashboards
type SessionSummary struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	AverageScore   *float64  `json:"average_score,omitempty"`
	TotalQuestions int       `json:"total_questions"`
	CreatedAt      time.Time `json:"created_at"`
}
