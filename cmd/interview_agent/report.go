package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/interview-coach/internal/export"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/session"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print or regenerate the report for a saved session file",
	Long:  "Loads a saved session JSON file and prints its final report. Sessions without a report (or with --regenerate) get a fresh report generated from the recorded notes.",
	RunE:  runReportCmd,
}

var (
	reportSession    string
	reportRegenerate bool
	reportOut        string
	reportAPIKey     string
)

func init() {
	reportCmd.Flags().StringVarP(&reportSession, "session", "s", "", "Path to a saved session JSON file (required)")
	reportCmd.Flags().BoolVar(&reportRegenerate, "regenerate", false, "Generate a fresh report even if the session already has one")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Directory to export the report to (optional)")
	reportCmd.Flags().StringVar(&reportAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	if err := reportCmd.MarkFlagRequired("session"); err != nil {
		panic(fmt.Sprintf("failed to mark session flag as required: %v", err))
	}

	rootCmd.AddCommand(reportCmd)
}

func runReportCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	state, err := export.LoadSessionFile(reportSession)
	if err != nil {
		return fmt.Errorf("failed to load session file: %w", err)
	}

	if state.Report == "" || reportRegenerate {
		apiKey := reportAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required to generate a report")
		}

		client, err := llm.NewGeminiClient(ctx, nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close()

		wf, err := session.NewWorkflow(client, client, session.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to create workflow: %w", err)
		}

		wf.Finish(ctx, state)
	}

	banner(os.Stdout, "FINAL INTERVIEW REPORT")
	fmt.Fprintln(os.Stdout, state.Report)

	observability.NewPrinter(os.Stdout).PrintSummary(state.Notes)

	if reportOut != "" {
		path, err := export.ExportReport(state.Report, reportOut)
		if err != nil {
			return fmt.Errorf("failed to export report: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Report exported to: %s\n", path)
	}

	return nil
}
