// Package types provides type definitions for structured data used throughout the interview-coach system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// QuestionCategory classifies an interview question by the skill angle it probes.
type QuestionCategory string

const (
	// CategoryTechnical probes hard technical skills from the job requirements
	CategoryTechnical QuestionCategory = "technical"
	// CategoryExperience probes relevance of past work to the role
	CategoryExperience QuestionCategory = "experience"
	// CategoryBehavioral probes cultural fit and soft skills
	CategoryBehavioral QuestionCategory = "behavioral"
	// CategoryProblemSolving probes analytical thinking
	CategoryProblemSolving QuestionCategory = "problem_solving"
	// CategoryGeneral is the catch-all for questions without a planner-assigned category
	CategoryGeneral QuestionCategory = "general"
)

// ValidCategories lists the categories the planner is allowed to emit.
func ValidCategories() []QuestionCategory {
	return []QuestionCategory{
		CategoryTechnical,
		CategoryExperience,
		CategoryBehavioral,
		CategoryProblemSolving,
	}
}

// IsValid reports whether c is one of the planner categories.
func (c QuestionCategory) IsValid() bool {
	switch c {
	case CategoryTechnical, CategoryExperience, CategoryBehavioral, CategoryProblemSolving:
		return true
	}
	return false
}

// InterviewQuestion is a single planned question with its metadata.
// Questions are immutable once the plan is created.
type InterviewQuestion struct {
	Question        string           `json:"question"`
	Category        QuestionCategory `json:"category"`
	Priority        int              `json:"priority"` // 1-5, 5 highest
	ExpectedSkills  []string         `json:"expected_skills"`
	FollowUpPrompts []string         `json:"follow_up_prompts"`
}

// PlanSource records which path produced an interview plan.
type PlanSource string

const (
	// PlanSourceModel means the language model produced the plan
	PlanSourceModel PlanSource = "model"
	// PlanSourceFallback means the deterministic fallback pool was used
	PlanSourceFallback PlanSource = "fallback"
)

// InterviewPlan is the ordered question list for one session.
// Created once per session and never reordered afterwards.
type InterviewPlan struct {
	Questions []InterviewQuestion `json:"questions"`
	Source    PlanSource          `json:"source"`
}

// Len returns the number of planned questions.
func (p *InterviewPlan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Questions)
}

// InterviewNote is the structured record of one question-answer-analysis
// exchange. Notes are append-only; one is produced per answered question.
type InterviewNote struct {
	Question  string           `json:"question"`
	Response  string           `json:"response"`
	Timestamp time.Time        `json:"timestamp"`
	Score     int              `json:"score"` // 1-10
	Analysis  string           `json:"analysis"`
	Category  QuestionCategory `json:"question_category"`
}

// Conversation roles.
const (
	RoleInterviewer = "interviewer"
	RoleCandidate   = "candidate"
)

// ConversationTurn is one utterance in the interview transcript, flattened
// for prompt context. Turns are appended in interviewer/candidate pairs.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SummaryStats aggregates note scores for display and persistence.
// All fields are zero-valued when no notes exist.
type SummaryStats struct {
	TotalQuestions    int                `json:"total_questions"`
	AverageScore      float64            `json:"average_score"`
	HighestScore      int                `json:"highest_score"`
	LowestScore       int                `json:"lowest_score"`
	CategoriesCovered []QuestionCategory `json:"categories_covered"`
}
