//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCategories(t *testing.T) {
	categories := ValidCategories()

	assert.Equal(t, []QuestionCategory{
		CategoryTechnical,
		CategoryExperience,
		CategoryBehavioral,
		CategoryProblemSolving,
	}, categories)
	assert.NotContains(t, categories, CategoryGeneral)
}

func TestQuestionCategory_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		category QuestionCategory
		want     bool
	}{
		{"technical", CategoryTechnical, true},
		{"experience", CategoryExperience, true},
		{"behavioral", CategoryBehavioral, true},
		{"problem_solving", CategoryProblemSolving, true},
		{"general is not a planner category", CategoryGeneral, false},
		{"empty", QuestionCategory(""), false},
		{"unknown", QuestionCategory("trivia"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.IsValid())
		})
	}
}

func TestInterviewPlan_Len(t *testing.T) {
	var nilPlan *InterviewPlan
	assert.Equal(t, 0, nilPlan.Len())

	assert.Equal(t, 0, (&InterviewPlan{}).Len())

	plan := &InterviewPlan{
		Questions: []InterviewQuestion{
			{Question: "Tell me about your current role."},
			{Question: "How do you approach code review?"},
		},
		Source: PlanSourceModel,
	}
	assert.Equal(t, 2, plan.Len())
}

func TestInterviewNote_CategoryJSONKey(t *testing.T) {
	note := InterviewNote{
		Question: "Tell me about your current role.",
		Response: "I lead the payments team.",
		Score:    8,
		Category: CategoryExperience,
	}

	data, err := json.Marshal(note)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	// Stored sessions and the API expose the category under this key
	assert.Equal(t, "experience", raw["question_category"])
	assert.NotContains(t, raw, "category")
}
