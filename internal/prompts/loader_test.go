package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	ClearCache()

	t.Run("known key", func(t *testing.T) {
		prompt, err := Get("interview.json", "planning")
		require.NoError(t, err)
		assert.Contains(t, prompt, "expert interview planner")
	})

	t.Run("unknown file", func(t *testing.T) {
		_, err := Get("nonexistent.json", "some-key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read prompt file")
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Get("interview.json", "nonexistent-key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("repeat lookups hit the cache", func(t *testing.T) {
		first, err := Get("interview.json", "analysis")
		require.NoError(t, err)
		second, err := Get("interview.json", "analysis")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestMustGet(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() { MustGet("nonexistent.json", "some-key") })
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet("interview.json", "report"))
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{
			name:     "fills every placeholder",
			template: "Hello {{.Name}}, welcome to {{.Company}}!",
			data:     map[string]string{"Name": "Alice", "Company": "Acme Corp"},
			want:     "Hello Alice, welcome to Acme Corp!",
		},
		{
			name:     "template without placeholders is untouched",
			template: "No placeholders here",
			data:     map[string]string{"Key": "Value"},
			want:     "No placeholders here",
		},
		{
			name:     "missing data leaves the placeholder visible",
			template: "Hello {{.Name}}",
			data:     map[string]string{},
			want:     "Hello {{.Name}}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("interview.json")
	require.NoError(t, err)
	assert.Subset(t, keys, []string{"planning", "analysis", "report"})
}

// Each embedded prompt must keep the placeholders its caller fills in.
func TestInterviewPrompts_Placeholders(t *testing.T) {
	ClearCache()

	placeholders := map[string][]string{
		"planning": {"{{.QuestionCount}}", "{{.ResumeContent}}", "{{.JobDescription}}"},
		"analysis": {"{{.Question}}", "{{.Response}}", "{{.Context}}", "{{.ConversationHistory}}"},
		"report":   {"{{.ResumeContent}}", "{{.JobDescription}}", "{{.InterviewNotes}}"},
	}

	for key, wanted := range placeholders {
		prompt, err := Get("interview.json", key)
		require.NoError(t, err, "prompt %s", key)
		for _, ph := range wanted {
			assert.Contains(t, prompt, ph, "prompt %s missing placeholder %s", key, ph)
		}
	}
}
