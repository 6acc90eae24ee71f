package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/config"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/export"
	"github.com/jonathan/interview-coach/internal/pipeline"
	"github.com/jonathan/interview-coach/internal/report"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/spf13/cobra"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run a full interactive mock interview in the terminal",
	Long: `Orchestrates the entire interview process: document ingestion -> context indexing -> question planning -> interactive question/answer loop -> final report.

Questions are asked one at a time; type an answer and press Enter. Type quit, exit, or stop to end the interview early. Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runInterviewCmd,
}

var (
	runConfigPath     string
	runResume         string
	runJob            string
	runJobURL         string
	runTitle          string
	runUserID         string
	runMaxQuestions   int
	runChunkSize      int
	runChunkOverlap   int
	runContextResults int
	runIndexPath      string
	runForceRebuild   bool
	runSaveSession    bool
	runSessionsDir    string
	runExportReport   bool
	runReportsDir     string
	runAPIKey         string
	runUseBrowser     bool
	runVerbose        bool
	runDatabaseURL    string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runResume, "resume", "r", "", "Path to candidate resume (PDF or text)")
	runCommand.Flags().StringVarP(&runJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	runCommand.Flags().StringVar(&runJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	runCommand.Flags().StringVar(&runTitle, "title", "", "Session title (defaults to a timestamped name)")
	runCommand.Flags().StringVarP(&runUserID, "user-id", "u", "", "User UUID for database persistence (optional)")
	runCommand.Flags().IntVarP(&runMaxQuestions, "max-questions", "q", 0, "Number of questions to plan (1-10)")
	runCommand.Flags().IntVar(&runChunkSize, "chunk-size", 0, "Document chunk size in characters")
	runCommand.Flags().IntVar(&runChunkOverlap, "chunk-overlap", 0, "Overlap between consecutive chunks")
	runCommand.Flags().IntVar(&runContextResults, "context-results", 0, "Chunks retrieved per context query")
	runCommand.Flags().StringVar(&runIndexPath, "index-path", "", "Persist the context index at this path (reused on later runs)")
	runCommand.Flags().BoolVar(&runForceRebuild, "force-rebuild", false, "Rebuild the context index even if a saved one exists")
	runCommand.Flags().BoolVar(&runSaveSession, "save-session", false, "Write the session JSON to --sessions-dir after the interview")
	runCommand.Flags().StringVar(&runSessionsDir, "sessions-dir", "", "Directory for saved session files")
	runCommand.Flags().BoolVar(&runExportReport, "export-report", false, "Write the final report to --reports-dir after the interview")
	runCommand.Flags().StringVar(&runReportsDir, "reports-dir", "", "Directory for exported report files")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for session persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	// Note: --resume is not marked required; we validate after merging config

	rootCmd.AddCommand(runCommand)
}

func runInterviewCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Validate loaded config
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("resume") {
		cfg.Resume = runResume
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = runJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = runJobURL
	}
	if cmd.Flags().Changed("user-id") {
		cfg.UserID = runUserID
	}
	if cmd.Flags().Changed("max-questions") {
		cfg.MaxQuestions = runMaxQuestions
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.ChunkSize = runChunkSize
	}
	if cmd.Flags().Changed("chunk-overlap") {
		cfg.ChunkOverlap = runChunkOverlap
	}
	if cmd.Flags().Changed("context-results") {
		cfg.ContextResults = runContextResults
	}
	if cmd.Flags().Changed("index-path") {
		cfg.IndexPath = runIndexPath
	}
	if cmd.Flags().Changed("sessions-dir") {
		cfg.SessionsDir = runSessionsDir
	}
	if cmd.Flags().Changed("reports-dir") {
		cfg.ReportsDir = runReportsDir
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{})

	// Step 4: Validate required fields
	if cfg.Resume == "" {
		return fmt.Errorf("--resume is required (via flag or config)")
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided (via flag or config)")
	}
	if cfg.Job != "" && cfg.JobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}
	if cfg.MaxQuestions < 1 || cfg.MaxQuestions > 10 {
		return fmt.Errorf("--max-questions must be between 1 and 10, got %d", cfg.MaxQuestions)
	}

	// Step 5: API Key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	// Step 6: Database URL handling (optional; the interview runs fully
	// in memory when no database is configured)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	var database *db.DB
	var userID *uuid.UUID
	if cfg.DatabaseURL != "" && cfg.UserID != "" {
		uid, err := uuid.Parse(cfg.UserID)
		if err != nil {
			return fmt.Errorf("invalid user-id format: %w", err)
		}
		userID = &uid

		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
	}

	opts := pipeline.RunOptions{
		ResumePath:     cfg.Resume,
		JobPath:        cfg.Job,
		JobURL:         cfg.JobURL,
		Title:          runTitle,
		UserID:         userID,
		MaxQuestions:   cfg.MaxQuestions,
		ChunkSize:      cfg.ChunkSize,
		ChunkOverlap:   cfg.ChunkOverlap,
		ContextResults: cfg.ContextResults,
		Temperature:    cfg.Temperature,
		PlanTolerance:  cfg.PlanTolerance,
		IndexPath:      cfg.IndexPath,
		ForceRebuild:   runForceRebuild,
		APIKey:         cfg.APIKey,
		UseBrowser:     cfg.UseBrowser,
		Verbose:        cfg.Verbose,
		DatabaseURL:    cfg.DatabaseURL,
	}

	result, err := pipeline.RunPipeline(ctx, opts)
	if err != nil {
		return err
	}
	if result.Client != nil {
		defer result.Client.Close()
	}

	state := result.State
	loop := loopOptions{
		verbose: cfg.Verbose,
		checkpoint: func(state *session.State) {
			if database == nil {
				return
			}
			if err := database.UpdateSession(ctx, state.ID, pipeline.SessionUpdate(state)); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save session progress: %v\n", err)
			}
		},
	}

	if err := interactiveLoop(ctx, result.Workflow, state, os.Stdin, os.Stdout, loop); err != nil {
		return err
	}

	// The state now carries the final report; persist the completed
	// session and its report row
	if database != nil && userID != nil {
		if err := database.UpdateSession(ctx, state.ID, pipeline.SessionUpdate(state)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save session: %v\n", err)
		}
		if state.Report != "" {
			summary := report.Summary(state.Notes)
			if _, err := database.SaveReport(ctx, *userID, &state.ID, &db.SaveReportInput{
				Title:         state.Title,
				ReportContent: state.Report,
				Summary:       &summary,
				Scores:        report.CategoryAverages(state.Notes),
			}); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save report: %v\n", err)
			}
		}
	}

	if runSaveSession || cfg.AutoSaveSessions {
		path, err := export.SaveSessionFile(state, cfg.SessionsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save session file: %v\n", err)
		} else {
			fmt.Fprintf(os.Stdout, "\nSession saved to: %s\n", path)
		}

		// Retention: saved sessions accumulate one file per run
		if deleted, err := export.CleanOldFiles(cfg.SessionsDir, cfg.MaxLogAgeDays); err == nil && deleted > 0 {
			fmt.Fprintf(os.Stdout, "Cleaned %d old files from %s\n", deleted, cfg.SessionsDir)
		}
	}

	if runExportReport && state.Report != "" {
		path, err := export.ExportReport(state.Report, cfg.ReportsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to export report: %v\n", err)
		} else {
			fmt.Fprintf(os.Stdout, "Report exported to: %s\n", path)
		}
	}

	return nil
}
