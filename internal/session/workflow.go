package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/analysis"
	"github.com/jonathan/interview-coach/internal/index"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/planning"
	"github.com/jonathan/interview-coach/internal/report"
	"github.com/jonathan/interview-coach/internal/types"
)

// ErrNoQuestion is returned when an answer arrives after the plan is
// exhausted or the session was ended early.
var ErrNoQuestion = errors.New("no question awaiting an answer")

// Options configures a workflow. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// MaxQuestions is the desired plan length, clamped by the planner.
	MaxQuestions int
	// ChunkSize and ChunkOverlap configure document splitting for the
	// retrieval index.
	ChunkSize    int
	ChunkOverlap int
	// ContextResults is how many chunks each retrieval query returns.
	ContextResults int
	// PlanTolerance is the over-generation slack before plans are trimmed.
	PlanTolerance int
	// IndexPath, when set, persists the index and reuses it on later
	// starts unless ForceRebuild is set.
	IndexPath    string
	ForceRebuild bool
}

// DefaultOptions returns the standard interview settings.
func DefaultOptions() Options {
	return Options{
		MaxQuestions:   5,
		ChunkSize:      500,
		ChunkOverlap:   50,
		ContextResults: index.DefaultK,
		PlanTolerance:  planning.DefaultTolerance,
	}
}

// Workflow owns the transitions of an interview session. Methods mutate the
// passed State in place; a State must not be shared across concurrent
// callers.
type Workflow struct {
	splitter *ingestion.Splitter
	embedder index.Embedder
	planner  *planning.Planner
	analyzer *analysis.Analyzer
	reporter *report.Generator
	opts     Options
}

// NewWorkflow wires the interview components around one LLM client and one
// embedder.
func NewWorkflow(client llm.Client, embedder index.Embedder, opts Options) (*Workflow, error) {
	splitter, err := ingestion.NewSplitter(opts.ChunkSize, opts.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("configuring splitter: %w", err)
	}
	return &Workflow{
		splitter: splitter,
		embedder: embedder,
		planner:  planning.NewPlannerWithTolerance(client, opts.PlanTolerance),
		analyzer: analysis.NewAnalyzer(client),
		reporter: report.NewGenerator(client),
		opts:     opts,
	}, nil
}

// Start ingests the resume and job description files, builds or loads the
// retrieval index, and plans the interview. The returned state is in
// PhasePlanned with the cursor at question zero.
func (w *Workflow) Start(ctx context.Context, resumePath, jobPath string) (*State, error) {
	docs, err := ingestion.LoadDocuments(resumePath, jobPath)
	if err != nil {
		return nil, err
	}
	resumeText, jobText := ingestion.ExtractContent(docs)

	idx, err := w.BuildIndex(ctx, docs)
	if err != nil {
		return nil, err
	}
	return w.start(ctx, resumeText, jobText, idx), nil
}

// StartFromText starts a session from already-loaded document text. The
// index is built in memory and never persisted.
func (w *Workflow) StartFromText(ctx context.Context, resumeText, jobText string) (*State, error) {
	docs := []ingestion.Document{
		{Content: resumeText, Source: ingestion.SourceResume},
		{Content: jobText, Source: ingestion.SourceJob},
	}
	idx, err := index.Build(ctx, w.splitter.Split(docs), w.embedder)
	if err != nil {
		return nil, err
	}
	return w.start(ctx, resumeText, jobText, idx), nil
}

// StartWithIndex starts a session over documents the caller has already
// ingested and indexed. Orchestrators that need per-step control build the
// index themselves and hand it in here.
func (w *Workflow) StartWithIndex(ctx context.Context, resumeText, jobText string, idx *index.Index) *State {
	return w.start(ctx, resumeText, jobText, idx)
}

func (w *Workflow) start(ctx context.Context, resumeText, jobText string, idx *index.Index) *State {
	now := time.Now().UTC()
	state := &State{
		ID:             uuid.New(),
		Phase:          PhaseCreated,
		ResumeContent:  resumeText,
		JobDescription: jobText,
		Index:          idx,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	state.Plan = w.planner.Plan(ctx, resumeText, jobText, w.opts.MaxQuestions)
	state.CurrentQuestionIdx = 0
	state.Phase = PhasePlanned
	return state
}

// BuildIndex chunks the documents and embeds them into a retrieval index.
// When IndexPath is set it loads the saved index instead, unless
// ForceRebuild is set, and saves freshly built indexes back to that path.
func (w *Workflow) BuildIndex(ctx context.Context, docs []ingestion.Document) (*index.Index, error) {
	if w.opts.IndexPath != "" && !w.opts.ForceRebuild {
		if idx, err := index.Load(w.opts.IndexPath, w.embedder); err == nil {
			return idx, nil
		}
	}

	idx, err := index.Build(ctx, w.splitter.Split(docs), w.embedder)
	if err != nil {
		return nil, err
	}
	if w.opts.IndexPath != "" {
		if err := idx.Save(w.opts.IndexPath); err != nil {
			return nil, fmt.Errorf("saving index: %w", err)
		}
	}
	return idx, nil
}

// CurrentQuestion serves the question at the cursor and moves the session
// to PhaseAwaitingAnswer. When the plan is exhausted it returns false and
// moves to PhaseComplete instead; that, not an error, is how callers learn
// the interview is over.
func (w *Workflow) CurrentQuestion(state *State) (*types.InterviewQuestion, bool) {
	if state.Exhausted() {
		state.Phase = PhaseComplete
		return nil, false
	}
	state.Phase = PhaseAwaitingAnswer
	question := state.Plan.Questions[state.CurrentQuestionIdx]
	return &question, true
}

// SubmitAnswer records the candidate's answer to the current question:
// retrieve context, analyze, append the note and both conversation turns,
// then advance the cursor. This is the only place the cursor moves, and it
// moves by exactly one.
func (w *Workflow) SubmitAnswer(ctx context.Context, state *State, answer string) (*types.InterviewNote, error) {
	question, ok := w.CurrentQuestion(state)
	if !ok {
		return nil, ErrNoQuestion
	}

	state.Phase = PhaseAnalyzing
	state.RAGContext = state.Index.Context(ctx, question.Question+" "+answer, w.opts.ContextResults)
	result := w.analyzer.Analyze(ctx, question.Question, answer, state.RAGContext, state.History)
	note := analysis.BuildNote(question, answer, result)

	state.Phase = PhaseAdvancing
	state.Notes = append(state.Notes, note)
	state.History = append(state.History,
		types.ConversationTurn{Role: types.RoleInterviewer, Content: question.Question},
		types.ConversationTurn{Role: types.RoleCandidate, Content: answer},
	)
	state.CurrentQuestionIdx++
	state.UpdatedAt = time.Now().UTC()

	return note, nil
}

// Finish generates the report from whatever notes exist and marks the
// session complete. It is valid at any cursor position, including before
// the first answer, and may be called again to regenerate the report.
func (w *Workflow) Finish(ctx context.Context, state *State) string {
	state.Report = w.reporter.Generate(ctx, state.ResumeContent, state.JobDescription, state.Notes)
	state.IsComplete = true
	state.Phase = PhaseComplete
	state.UpdatedAt = time.Now().UTC()
	return state.Report
}
