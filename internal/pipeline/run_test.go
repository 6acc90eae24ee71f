package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/types"
)

const testPlanJSON = `[
  {"question": "What drew you to this role?", "category": "behavioral", "priority": 5, "expected_skills": ["motivation"], "follow_up_prompts": []},
  {"question": "Describe a system you scaled.", "category": "technical", "priority": 4, "expected_skills": ["scalability"], "follow_up_prompts": []}
]`

type mockLLMClient struct {
	planJSON     string
	planErr      error
	analysisText string
	reportText   string
}

func (m *mockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if tier == llm.TierAdvanced {
		return m.reportText, nil
	}
	return m.analysisText, nil
}

func (m *mockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	if m.planErr != nil {
		return "", m.planErr
	}
	return m.planJSON, nil
}

func (m *mockLLMClient) GetModel(tier llm.ModelTier) string { return "mock-model" }

func (m *mockLLMClient) Close() error { return nil }

// mockEmbedder maps each text to a deterministic non-zero vector
type mockEmbedder struct {
	mu sync.Mutex
}

func (m *mockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		var sum float32
		for _, b := range []byte(text) {
			sum += float32(b)
		}
		vectors[i] = []float32{sum, float32(len(text)) + 1, 1}
	}
	return vectors, nil
}

func defaultMock() *mockLLMClient {
	return &mockLLMClient{
		planJSON:     testPlanJSON,
		analysisText: "SCORE: 7\nSTRENGTHS: Concrete examples.\nCONCERNS: None noted.",
		reportText:   "# INTERVIEW REPORT\n\nCapable candidate.",
	}
}

func TestRunPipeline_FromText(t *testing.T) {
	var mu sync.Mutex
	var events []ProgressEvent

	opts := RunOptions{
		ResumeText:   "Staff engineer with ten years building payment systems in Go.",
		JobText:      "We need a backend engineer comfortable with distributed systems.",
		MaxQuestions: 2,
		Client:       defaultMock(),
		Embedder:     &mockEmbedder{},
		OnProgress: func(event ProgressEvent) {
			mu.Lock()
			events = append(events, event)
			mu.Unlock()
		},
	}

	result, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, result.State)
	require.NotNil(t, result.Workflow)
	// Injected client: the pipeline constructed nothing for us to close
	assert.Nil(t, result.Client)

	state := result.State
	assert.Equal(t, 2, state.Plan.Len())
	assert.Equal(t, types.PlanSourceModel, state.Plan.Source)
	assert.Equal(t, 0, state.CurrentQuestionIdx)
	assert.NotNil(t, state.Index)

	// Document branches report in either order; the remaining steps are strictly ordered
	require.Len(t, events, 5)
	steps := make([]string, len(events))
	for i, event := range events {
		steps[i] = event.Step
	}
	assert.ElementsMatch(t, []string{StepResumeDocument, StepJobDocument}, steps[:2])
	assert.Equal(t, []string{StepContextIndex, StepInterviewPlan, StepSession}, steps[2:])

	final := events[len(events)-1]
	assert.Equal(t, CategorySession, final.Category)
	assert.Equal(t, state.ID.String(), final.SessionID)
}

func TestRunPipeline_FromFiles(t *testing.T) {
	dir := t.TempDir()
	resumePath := filepath.Join(dir, "resume.txt")
	jobPath := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(resumePath, []byte("Backend engineer. Built search infrastructure at scale."), 0o644))
	require.NoError(t, os.WriteFile(jobPath, []byte("Hiring a senior engineer for our search platform team."), 0o644))

	opts := RunOptions{
		ResumePath:   resumePath,
		JobPath:      jobPath,
		MaxQuestions: 2,
		Client:       defaultMock(),
		Embedder:     &mockEmbedder{},
	}

	result, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)

	// The returned workflow drives the interactive phase over the same state
	state := result.State
	question, ok := result.Workflow.CurrentQuestion(state)
	require.True(t, ok)
	assert.Equal(t, "What drew you to this role?", question.Question)

	note, err := result.Workflow.SubmitAnswer(context.Background(), state, "The team's scale problems.")
	require.NoError(t, err)
	assert.Equal(t, 7, note.Score)
	assert.Equal(t, 1, state.CurrentQuestionIdx)

	report := result.Workflow.Finish(context.Background(), state)
	assert.Contains(t, report, "INTERVIEW REPORT")
	assert.True(t, state.IsComplete)
}

func TestRunPipeline_MissingResume(t *testing.T) {
	dir := t.TempDir()
	jobPath := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(jobPath, []byte("Job description."), 0o644))

	opts := RunOptions{
		ResumePath: filepath.Join(dir, "nope.txt"),
		JobPath:    jobPath,
		Client:     defaultMock(),
		Embedder:   &mockEmbedder{},
	}

	_, err := RunPipeline(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume branch failed")
}

func TestRunPipeline_MissingJob(t *testing.T) {
	dir := t.TempDir()
	resumePath := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(resumePath, []byte("Resume."), 0o644))

	opts := RunOptions{
		ResumePath: resumePath,
		JobPath:    filepath.Join(dir, "nope.txt"),
		Client:     defaultMock(),
		Embedder:   &mockEmbedder{},
	}

	_, err := RunPipeline(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job branch failed")
}

func TestRunPipeline_PlannerFailureFallsBack(t *testing.T) {
	mock := defaultMock()
	mock.planErr = assert.AnError

	opts := RunOptions{
		ResumeText:   "Resume content.",
		JobText:      "Job content.",
		MaxQuestions: 3,
		Client:       mock,
		Embedder:     &mockEmbedder{},
	}

	result, err := RunPipeline(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, types.PlanSourceFallback, result.State.Plan.Source)
	assert.Equal(t, 3, result.State.Plan.Len())
}

func TestSessionOptions(t *testing.T) {
	opts := &RunOptions{
		MaxQuestions:  7,
		ChunkSize:     800,
		PlanTolerance: 4,
		IndexPath:     "/tmp/index.json",
		ForceRebuild:  true,
	}

	so := sessionOptions(opts)
	assert.Equal(t, 7, so.MaxQuestions)
	assert.Equal(t, 800, so.ChunkSize)
	assert.Equal(t, 4, so.PlanTolerance)
	// Unset knobs keep their defaults
	assert.Equal(t, 50, so.ChunkOverlap)
	assert.Equal(t, 3, so.ContextResults)
	assert.Equal(t, "/tmp/index.json", so.IndexPath)
	assert.True(t, so.ForceRebuild)
}
