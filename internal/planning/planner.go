// Package planning builds the interview plan from resume and job content.
// The planner asks the LLM for a question list, validates it against the
// interview plan schema, and falls back to a deterministic question set
// when generation or validation fails.
package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// MinQuestions is the smallest plan a caller may request.
	MinQuestions = 1
	// MaxQuestions is the largest plan a caller may request.
	MaxQuestions = 10
	// DefaultTolerance is how many extra questions the model may return
	// before the plan is trimmed back to the requested count.
	DefaultTolerance = 2
)

// Planner generates interview plans.
type Planner struct {
	client    llm.Client
	tolerance int
}

// NewPlanner returns a Planner with the default trim tolerance.
func NewPlanner(client llm.Client) *Planner {
	return NewPlannerWithTolerance(client, DefaultTolerance)
}

// NewPlannerWithTolerance returns a Planner with a custom trim tolerance.
// Negative tolerance falls back to the default.
func NewPlannerWithTolerance(client llm.Client, tolerance int) *Planner {
	if tolerance < 0 {
		tolerance = DefaultTolerance
	}
	return &Planner{client: client, tolerance: tolerance}
}

// Plan builds an interview plan of up to desiredCount questions.
// It never fails: when the model output cannot be parsed or validated the
// deterministic fallback set is used and the plan source records that.
// desiredCount is clamped to [MinQuestions, MaxQuestions].
func (p *Planner) Plan(ctx context.Context, resumeText, jobText string, desiredCount int) *types.InterviewPlan {
	if desiredCount < MinQuestions {
		desiredCount = MinQuestions
	}
	if desiredCount > MaxQuestions {
		desiredCount = MaxQuestions
	}

	questions, err := p.generate(ctx, resumeText, jobText, desiredCount)
	if err != nil {
		log.Printf("interview planning failed, using fallback questions: %v", err)
		return &types.InterviewPlan{
			Questions: FallbackQuestions(desiredCount),
			Source:    types.PlanSourceFallback,
		}
	}

	return &types.InterviewPlan{Questions: questions, Source: types.PlanSourceModel}
}

func (p *Planner) generate(ctx context.Context, resumeText, jobText string, desiredCount int) ([]types.InterviewQuestion, error) {
	if p.client == nil {
		return nil, fmt.Errorf("no LLM client configured")
	}

	template, err := prompts.Get("interview.json", "planning")
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(template, map[string]string{
		"QuestionCount":  strconv.Itoa(desiredCount),
		"ResumeContent":  resumeText,
		"JobDescription": jobText,
	})

	raw, err := p.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateJSONString(schemas.InterviewPlanSchema(), cleaned); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	var questions []types.InterviewQuestion
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("plan parse failed: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned an empty plan")
	}

	// Normalize categories the model invented
	for i := range questions {
		if !questions[i].Category.IsValid() && questions[i].Category != types.CategoryGeneral {
			questions[i].Category = types.CategoryGeneral
		}
	}

	// Allow a small buffer for model variability before trimming
	if len(questions) > desiredCount+p.tolerance {
		questions = questions[:desiredCount]
	}

	return questions, nil
}

// NextQuestion returns the question at idx, or false when the plan is
// exhausted.
func NextQuestion(plan *types.InterviewPlan, idx int) (*types.InterviewQuestion, bool) {
	if plan == nil || idx < 0 || idx >= len(plan.Questions) {
		return nil, false
	}
	return &plan.Questions[idx], true
}
