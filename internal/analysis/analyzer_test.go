package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
)

type mockLLMClient struct {
	generateContent func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)
}

func (m *mockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.generateContent != nil {
		return m.generateContent(ctx, prompt, tier)
	}
	return "", errors.New("not implemented")
}

func (m *mockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockLLMClient) GetModel(tier llm.ModelTier) string { return "mock-model" }

func (m *mockLLMClient) Close() error { return nil }

func TestExtractScore(t *testing.T) {
	tests := []struct {
		name     string
		analysis string
		want     int
	}{
		{name: "simple score", analysis: "SCORE: 8", want: 8},
		{name: "score with trailing text", analysis: "SCORE: 8 out of 10", want: 8},
		{name: "score on later line", analysis: "STRENGTHS: clear\nSCORE: 6\nCONCERNS: none", want: 6},
		{name: "full analysis format", analysis: "SCORE: 7\nSTRENGTHS: specifics\nCONCERNS: depth\nFOLLOW_UP: none\nOBSERVATIONS: confident", want: 7},
		{name: "missing score line", analysis: "Great answer overall.", want: 5},
		{name: "empty analysis", analysis: "", want: 5},
		{name: "bare score prefix", analysis: "SCORE:", want: 5},
		{name: "unparseable placeholder", analysis: "SCORE: [1-10]", want: 5},
		{name: "extra colon after number", analysis: "SCORE: 7: strong showing", want: 7},
		{name: "first score line wins", analysis: "SCORE: 3\nSCORE: 9", want: 3},
		{name: "indented score ignored", analysis: "  SCORE: 9", want: 5},
		{name: "lowercase ignored", analysis: "score: 9", want: 5},
		{name: "clamps above range", analysis: "SCORE: 15", want: 10},
		{name: "clamps below range", analysis: "SCORE: 0", want: 1},
		{name: "clamps negative", analysis: "SCORE: -4", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractScore(tt.analysis))
		})
	}
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "", FormatHistory(nil))

	history := []types.ConversationTurn{
		{Role: types.RoleInterviewer, Content: "Tell me about yourself."},
		{Role: types.RoleCandidate, Content: "I build backend services."},
	}
	assert.Equal(t, "interviewer: Tell me about yourself.\ncandidate: I build backend services.", FormatHistory(history))
}

func TestFormatHistory_WindowsToLastSix(t *testing.T) {
	var history []types.ConversationTurn
	for i := 0; i < 10; i++ {
		history = append(history, types.ConversationTurn{
			Role:    types.RoleCandidate,
			Content: strings.Repeat("x", i+1),
		})
	}

	formatted := FormatHistory(history)
	lines := strings.Split(formatted, "\n")
	require.Len(t, lines, 6)
	// Oldest retained turn is the fifth (length 5)
	assert.Equal(t, "candidate: xxxxx", lines[0])
	assert.Equal(t, "candidate: xxxxxxxxxx", lines[5])
}

func TestAnalyze_BlankAnswer(t *testing.T) {
	analyzer := NewAnalyzer(&mockLLMClient{
		generateContent: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			t.Fatal("provider should not be called for blank answers")
			return "", nil
		},
	})

	for _, answer := range []string{"", "   ", "\n\t"} {
		result := analyzer.Analyze(context.Background(), "Q?", answer, "", nil)
		assert.Equal(t, NoResponseText, result.Text)
		assert.False(t, result.Degraded)
	}
}

func TestAnalyze_Success(t *testing.T) {
	var capturedPrompt string
	analyzer := NewAnalyzer(&mockLLMClient{
		generateContent: func(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
			capturedPrompt = prompt
			assert.Equal(t, llm.TierStandard, tier)
			return "SCORE: 8\nSTRENGTHS: concrete examples", nil
		},
	})

	history := []types.ConversationTurn{
		{Role: types.RoleInterviewer, Content: "Earlier question"},
	}
	result := analyzer.Analyze(context.Background(), "What did you build?", "A payments service.", "resume: payments team", history)

	assert.Equal(t, "SCORE: 8\nSTRENGTHS: concrete examples", result.Text)
	assert.False(t, result.Degraded)

	assert.Contains(t, capturedPrompt, "What did you build?")
	assert.Contains(t, capturedPrompt, "A payments service.")
	assert.Contains(t, capturedPrompt, "resume: payments team")
	assert.Contains(t, capturedPrompt, "interviewer: Earlier question")
}

func TestAnalyze_ProviderFailureDegrades(t *testing.T) {
	analyzer := NewAnalyzer(&mockLLMClient{
		generateContent: func(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
			return "", errors.New("rate limited")
		},
	})

	result := analyzer.Analyze(context.Background(), "Q?", "an answer", "", nil)

	assert.True(t, result.Degraded)
	assert.Equal(t, "Analysis failed: rate limited", result.Text)
	// Degraded analyses still score the default
	assert.Equal(t, DefaultScore, ExtractScore(result.Text))
}

func TestAnalyze_NilClientDegrades(t *testing.T) {
	analyzer := NewAnalyzer(nil)

	result := analyzer.Analyze(context.Background(), "Q?", "an answer", "", nil)

	assert.True(t, result.Degraded)
	assert.Contains(t, result.Text, "Analysis failed")
}

func TestBuildNote(t *testing.T) {
	question := &types.InterviewQuestion{
		Question: "Describe a hard bug you fixed.",
		Category: types.CategoryProblemSolving,
		Priority: 4,
	}

	before := time.Now().UTC()
	note := BuildNote(question, "I bisected a race condition.", Analysis{Text: "SCORE: 9\nOBSERVATIONS: methodical"})
	after := time.Now().UTC()

	assert.Equal(t, "Describe a hard bug you fixed.", note.Question)
	assert.Equal(t, "I bisected a race condition.", note.Response)
	assert.Equal(t, 9, note.Score)
	assert.Equal(t, "SCORE: 9\nOBSERVATIONS: methodical", note.Analysis)
	assert.Equal(t, types.CategoryProblemSolving, note.Category)
	assert.False(t, note.Timestamp.Before(before))
	assert.False(t, note.Timestamp.After(after))
}

func TestBuildNote_MissingCategoryBecomesGeneral(t *testing.T) {
	question := &types.InterviewQuestion{Question: "Tell me about yourself."}

	note := BuildNote(question, "Sure.", Analysis{Text: "no score line"})

	assert.Equal(t, types.CategoryGeneral, note.Category)
	assert.Equal(t, DefaultScore, note.Score)
}
