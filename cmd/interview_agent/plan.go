// Package main implements the interview_agent CLI tool for AI-driven mock interviews.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/interview-coach/internal/export"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/pipeline"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build an interview plan without starting the interview",
	Long:  "Ingests the resume and job description, builds the context index, and generates the question plan. Prints the planned questions and optionally saves the planned session for later use.",
	RunE:  runPlanCmd,
}

var (
	planResume       string
	planJob          string
	planJobURL       string
	planMaxQuestions int
	planChunkSize    int
	planChunkOverlap int
	planIndexPath    string
	planForceRebuild bool
	planOut          string
	planAPIKey       string
	planUseBrowser   bool
	planVerbose      bool
)

func init() {
	planCmd.Flags().StringVarP(&planResume, "resume", "r", "", "Path to candidate resume (required)")
	planCmd.Flags().StringVarP(&planJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-url)")
	planCmd.Flags().StringVar(&planJobURL, "job-url", "", "URL to fetch the job posting from (mutually exclusive with --job)")
	planCmd.Flags().IntVarP(&planMaxQuestions, "max-questions", "q", 5, "Number of questions to plan (1-10)")
	planCmd.Flags().IntVar(&planChunkSize, "chunk-size", 0, "Document chunk size in characters")
	planCmd.Flags().IntVar(&planChunkOverlap, "chunk-overlap", 0, "Overlap between consecutive chunks")
	planCmd.Flags().StringVar(&planIndexPath, "index-path", "", "Persist the context index at this path")
	planCmd.Flags().BoolVar(&planForceRebuild, "force-rebuild", false, "Rebuild the context index even if a saved one exists")
	planCmd.Flags().StringVarP(&planOut, "out", "o", "", "Directory to save the planned session JSON (optional)")
	planCmd.Flags().StringVar(&planAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	planCmd.Flags().BoolVar(&planUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	planCmd.Flags().BoolVarP(&planVerbose, "verbose", "v", false, "Print detailed debug information")

	if err := planCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(planCmd)
}

func runPlanCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if planJob == "" && planJobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided")
	}
	if planJob != "" && planJobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}
	if planMaxQuestions < 1 || planMaxQuestions > 10 {
		return fmt.Errorf("--max-questions must be between 1 and 10, got %d", planMaxQuestions)
	}

	apiKey := planAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	result, err := pipeline.RunPipeline(ctx, pipeline.RunOptions{
		ResumePath:   planResume,
		JobPath:      planJob,
		JobURL:       planJobURL,
		MaxQuestions: planMaxQuestions,
		ChunkSize:    planChunkSize,
		ChunkOverlap: planChunkOverlap,
		IndexPath:    planIndexPath,
		ForceRebuild: planForceRebuild,
		APIKey:       apiKey,
		UseBrowser:   planUseBrowser,
		Verbose:      planVerbose,
	})
	if err != nil {
		return err
	}
	if result.Client != nil {
		defer result.Client.Close()
	}

	observability.NewPrinter(os.Stdout).PrintPlan(result.State.Plan)

	if planOut != "" {
		path, err := export.SaveSessionFile(result.State, planOut)
		if err != nil {
			return fmt.Errorf("failed to save session file: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Planned session saved to: %s\n", path)
	}

	return nil
}
