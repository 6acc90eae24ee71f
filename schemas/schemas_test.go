package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/schemas"
)

// Canonical schema files published from this directory. The planner
// itself validates against the copies embedded in internal/schemas.
var schemaFiles = []string{
	"interview_plan.schema.json",
}

func TestSchemaFiles_AreWellFormed(t *testing.T) {
	for _, name := range schemaFiles {
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(name)
			require.NoError(t, err)

			var schemaObj map[string]any
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file must be valid JSON")

			// A JSON Schema document declares at least one of these
			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			_, hasItems := schemaObj["items"]
			assert.True(t, hasType || hasSchema || hasItems,
				"schema should have at least type, $schema, or items")
		})
	}
}

func TestInterviewPlanSchema_MatchesEmbeddedCopy(t *testing.T) {
	data, err := os.ReadFile("interview_plan.schema.json")
	require.NoError(t, err)

	assert.JSONEq(t, schemas.InterviewPlanSchema(), string(data),
		"schemas/interview_plan.schema.json must stay in sync with the embedded schema")
}

func TestInterviewPlanSchema_AgainstPlannerOutput(t *testing.T) {
	valid := `[
		{
			"question": "Describe a challenging problem you solved recently.",
			"category": "problem_solving",
			"priority": 4,
			"expected_skills": ["analytical_thinking"],
			"follow_up_prompts": ["What was your approach?"]
		}
	]`
	assert.NoError(t, schemas.ValidateJSONString(schemas.InterviewPlanSchema(), valid))

	err := schemas.ValidateJSONString(schemas.InterviewPlanSchema(), `[{"priority": 4}]`)
	var valErr *schemas.ValidationError
	require.ErrorAs(t, err, &valErr, "expected ValidationError, got %T", err)
	assert.NotEmpty(t, valErr.Errors)
}
