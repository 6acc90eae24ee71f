package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireValidationError asserts err is a *ValidationError carrying at
// least one field error, and returns it.
func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr, "expected ValidationError, got %T: %v", err, err)
	require.NotEmpty(t, valErr.Errors)
	return valErr
}

func TestValidateJSON_Files(t *testing.T) {
	schema := filepath.Join("testdata", "valid_schema.json")

	t.Run("conforming document passes", func(t *testing.T) {
		assert.NoError(t, ValidateJSON(schema, filepath.Join("testdata", "valid_json.json")))
	})

	t.Run("missing required field", func(t *testing.T) {
		requireValidationError(t, ValidateJSON(schema, filepath.Join("testdata", "invalid_json.json")))
	})

	t.Run("wrong field type", func(t *testing.T) {
		requireValidationError(t, ValidateJSON(schema, filepath.Join("testdata", "type_mismatch.json")))
	})

	t.Run("schema file missing", func(t *testing.T) {
		err := ValidateJSON("testdata/nonexistent_schema.json", filepath.Join("testdata", "valid_json.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("document file missing", func(t *testing.T) {
		err := ValidateJSON(schema, "testdata/nonexistent_json.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("document is not JSON", func(t *testing.T) {
		broken := filepath.Join(t.TempDir(), "malformed.json")
		require.NoError(t, os.WriteFile(broken, []byte("{ invalid json }"), 0644))
		require.Error(t, ValidateJSON(schema, broken))
	})
}

func TestValidateJSONString_InterviewPlan(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantError bool
	}{
		{
			name: "valid plan",
			document: `[
				{
					"question": "What technical skills do you have that match this position?",
					"category": "technical",
					"priority": 4,
					"expected_skills": ["technical_knowledge"],
					"follow_up_prompts": ["Can you provide specific examples?"]
				},
				{
					"question": "Why are you interested in this position and our company?",
					"category": "behavioral",
					"priority": 3
				}
			]`,
		},
		{"missing question field", `[{"category": "technical", "priority": 4}]`, true},
		{"missing category field", `[{"question": "Tell me about yourself.", "priority": 2}]`, true},
		{"empty question", `[{"question": "", "category": "technical"}]`, true},
		{"empty plan", `[]`, true},
		{"not an array", `{"question": "Tell me about yourself.", "category": "general"}`, true},
		{"non-integer priority", `[{"question": "Tell me about yourself.", "category": "general", "priority": "high"}]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSONString(InterviewPlanSchema(), tt.document)
			if tt.wantError {
				requireValidationError(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJSONString_InlineSchema(t *testing.T) {
	const schema = `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "test"}`))
	requireValidationError(t, ValidateJSONString(schema, `{"age": 30}`))
}

func TestValidateJSONString_NestedFieldPath(t *testing.T) {
	const schema = `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string"}
				}
			}
		}
	}`

	valErr := requireValidationError(t, ValidateJSONString(schema, `{"person": {}}`))

	var withPath bool
	for _, fieldErr := range valErr.Errors {
		if fieldErr.Field != "" {
			withPath = true
		}
	}
	assert.True(t, withPath, "nested errors should carry a field path")
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "age", Message: "must be a number"},
	}}

	msg := err.Error()
	assert.Contains(t, msg, "validation failed")
	assert.Contains(t, msg, "name")
	assert.Contains(t, msg, "age")

	var target *ValidationError
	assert.True(t, errors.As(error(err), &target))
}
