// Package pipeline provides the high-level orchestration for interview session setup.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/index"
	"github.com/jonathan/interview-coach/internal/ingestion"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/session"
)

// Step identifiers reported through progress events
const (
	StepResumeDocument = "resume_document"
	StepJobDocument    = "job_document"
	StepContextIndex   = "context_index"
	StepInterviewPlan  = "interview_plan"
	StepSession        = "session"
)

// Categories group progress events by pipeline stage
const (
	CategoryIngestion = "ingestion"
	CategoryIndexing  = "indexing"
	CategoryPlanning  = "planning"
	CategorySession   = "session"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step      string `json:"step"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	Content   any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline. For each input,
// direct text takes precedence over a path, and a job URL over a job file.
type RunOptions struct {
	ResumePath string
	ResumeText string
	JobPath    string
	JobURL     string
	JobText    string

	Title  string
	UserID *uuid.UUID

	MaxQuestions   int
	ChunkSize      int
	ChunkOverlap   int
	ContextResults int
	Temperature    float64
	PlanTolerance  int
	IndexPath      string
	ForceRebuild   bool

	APIKey     string
	UseBrowser bool
	Verbose    bool

	DatabaseURL string

	// Client and Embedder override the Gemini client built from APIKey.
	Client   llm.Client
	Embedder index.Embedder

	OnProgress ProgressCallback
}

// Result holds the outputs of a pipeline run
type Result struct {
	// State is the planned session, positioned at the first question.
	State *session.State
	// Workflow drives the interactive phase over the same client and index.
	Workflow *session.Workflow
	// Client is set when the pipeline constructed its own LLM client. The
	// caller must Close it once the session is over; the index embeds
	// retrieval queries through it for as long as the session runs.
	Client *llm.GeminiClient
}

// logPrefix is used to distinguish concurrent log output
type logPrefix string

const (
	prefixResume logPrefix = "[Resume] "
	prefixJob    logPrefix = "[Job]    "
)

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			Content:  content,
		})
	}
}

// RunPipeline orchestrates interview session setup: ingest the candidate
// documents, build the retrieval index, plan the interview, and create the
// session. The interactive question loop runs afterwards through the
// returned workflow.
func RunPipeline(ctx context.Context, opts RunOptions) (*Result, error) {

	// Initialize observability printer for verbose output
	printer := observability.NewPrinter(os.Stdout)

	// Initialize database connection if configured
	var database *db.DB
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
		} else {
			defer database.Close()
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	// Build the LLM client unless one was injected
	result := &Result{}
	client := opts.Client
	embedder := opts.Embedder
	if client == nil || embedder == nil {
		llmConfig := llm.DefaultGeminiConfig()
		if opts.Temperature > 0 {
			llmConfig = llmConfig.WithTemperature(float32(opts.Temperature))
		}
		gemini, err := llm.NewGeminiClient(ctx, llmConfig, opts.APIKey)
		if err != nil {
			return nil, fmt.Errorf("creating LLM client failed: %w", err)
		}
		result.Client = gemini
		if client == nil {
			client = gemini
		}
		if embedder == nil {
			embedder = gemini
		}
	}

	workflow, err := session.NewWorkflow(client, embedder, sessionOptions(&opts))
	if err != nil {
		return nil, err
	}
	result.Workflow = workflow

	// =========================================================================
	// PARALLEL EXECUTION: Resume Branch + Job Branch
	// =========================================================================
	fmt.Printf("Step 1/4: Loading candidate documents...\n")

	g, gCtx := errgroup.WithContext(ctx)

	var resumeDocs, jobDocs []ingestion.Document
	var resumeMu, jobMu sync.Mutex // Protect result assignments

	g.Go(func() error {
		docs, err := runResumeBranch(gCtx, opts)
		if err != nil {
			return fmt.Errorf("resume branch failed: %w", err)
		}
		resumeMu.Lock()
		resumeDocs = docs
		resumeMu.Unlock()
		return nil
	})

	g.Go(func() error {
		docs, err := runJobBranch(gCtx, opts)
		if err != nil {
			return fmt.Errorf("job branch failed: %w", err)
		}
		jobMu.Lock()
		jobDocs = docs
		jobMu.Unlock()
		return nil
	})

	// Wait for both branches to complete
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// =========================================================================

	docs := append(resumeDocs, jobDocs...)
	resumeText, jobText := ingestion.ExtractContent(docs)

	fmt.Printf("Step 2/4: Building context index...\n")
	idx, err := workflow.BuildIndex(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("building context index failed: %w", err)
	}
	if opts.Verbose {
		fmt.Printf("[VERBOSE] Context index holds %d chunks\n", idx.Len())
	}
	emitProgress(&opts, StepContextIndex, CategoryIndexing,
		fmt.Sprintf("Indexed %d document chunks", idx.Len()), nil)

	fmt.Printf("Step 3/4: Planning interview questions...\n")
	state := workflow.StartWithIndex(ctx, resumeText, jobText, idx)
	state.Title = opts.Title
	state.UserID = opts.UserID
	if opts.Verbose {
		printer.PrintPlan(state.Plan)
	}
	emitProgress(&opts, StepInterviewPlan, CategoryPlanning,
		fmt.Sprintf("Planned %d questions (source: %s)", state.Plan.Len(), state.Plan.Source), state.Plan)
	result.State = state

	fmt.Printf("Step 4/4: Creating interview session...\n")
	if database != nil && opts.UserID != nil {
		if _, err := database.CreateSession(ctx, *opts.UserID, SessionRow(state)); err != nil {
			fmt.Printf("Warning: Failed to create database session: %v\n", err)
		} else if opts.Verbose {
			fmt.Printf("[VERBOSE] Created database session: %s\n", state.ID)
		}
	}
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:      StepSession,
			Category:  CategorySession,
			Message:   fmt.Sprintf("Session ready with %d questions", state.Plan.Len()),
			SessionID: state.ID.String(),
		})
	}

	fmt.Printf("Done! Session %s is ready for the first question.\n", state.ID)
	return result, nil
}

// runResumeBranch loads and cleans the candidate resume
func runResumeBranch(_ context.Context, opts RunOptions) ([]ingestion.Document, error) {
	prefix := prefixResume

	var docs []ingestion.Document

	if opts.ResumeText != "" {
		fmt.Printf("%sUsing provided resume text...\n", prefix)
		text := ingestion.CleanText(opts.ResumeText)
		if text == "" {
			return nil, fmt.Errorf("resume text is empty")
		}
		docs = []ingestion.Document{{Content: text, Source: ingestion.SourceResume}}
	} else {
		fmt.Printf("%sLoading resume from file: %s...\n", prefix, opts.ResumePath)
		var err error
		docs, err = ingestion.LoadResume(opts.ResumePath)
		if err != nil {
			return nil, err
		}
	}

	emitProgress(&opts, StepResumeDocument, CategoryIngestion,
		fmt.Sprintf("Loaded resume (%d documents)", len(docs)), nil)

	fmt.Printf("%s✅ Resume loaded.\n", prefix)
	return docs, nil
}

// runJobBranch loads the job description from direct text, a URL, or a file
func runJobBranch(ctx context.Context, opts RunOptions) ([]ingestion.Document, error) {
	prefix := prefixJob

	var docs []ingestion.Document

	switch {
	case opts.JobText != "":
		fmt.Printf("%sUsing provided job description text...\n", prefix)
		text := ingestion.CleanText(opts.JobText)
		if text == "" {
			return nil, fmt.Errorf("job description text is empty")
		}
		docs = []ingestion.Document{{Content: text, Source: ingestion.SourceJob}}

	case opts.JobURL != "":
		fmt.Printf("%sIngesting job posting from URL: %s...\n", prefix, opts.JobURL)
		text, _, err := ingestion.IngestFromURL(ctx, opts.JobURL, opts.APIKey, opts.UseBrowser, opts.Verbose)
		if err != nil {
			return nil, err
		}
		docs = []ingestion.Document{{Content: text, Source: ingestion.SourceJob}}

	default:
		fmt.Printf("%sLoading job description from file: %s...\n", prefix, opts.JobPath)
		var err error
		docs, err = ingestion.LoadJobDescription(opts.JobPath)
		if err != nil {
			return nil, err
		}
	}

	emitProgress(&opts, StepJobDocument, CategoryIngestion, "Loaded job description", nil)

	fmt.Printf("%s✅ Job description loaded.\n", prefix)
	return docs, nil
}

// sessionOptions maps run options onto workflow options, falling back to
// the defaults for unset values
func sessionOptions(opts *RunOptions) session.Options {
	so := session.DefaultOptions()
	if opts.MaxQuestions > 0 {
		so.MaxQuestions = opts.MaxQuestions
	}
	if opts.ChunkSize > 0 {
		so.ChunkSize = opts.ChunkSize
	}
	if opts.ChunkOverlap > 0 {
		so.ChunkOverlap = opts.ChunkOverlap
	}
	if opts.ContextResults > 0 {
		so.ContextResults = opts.ContextResults
	}
	if opts.PlanTolerance > 0 {
		so.PlanTolerance = opts.PlanTolerance
	}
	so.IndexPath = opts.IndexPath
	so.ForceRebuild = opts.ForceRebuild
	return so
}
