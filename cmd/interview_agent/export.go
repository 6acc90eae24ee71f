package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/jonathan/interview-coach/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a session's report to a text file",
	Long:  "Writes the final report of a session to a timestamped text file. The session comes from either a saved session JSON file or from the database by ID.",
	RunE:  runExportCmd,
}

var (
	exportSession     string
	exportSessionID   string
	exportOut         string
	exportDatabaseURL string
)

func init() {
	exportCmd.Flags().StringVarP(&exportSession, "session", "s", "", "Path to a saved session JSON file (mutually exclusive with --session-id)")
	exportCmd.Flags().StringVar(&exportSessionID, "session-id", "", "Database session ID (mutually exclusive with --session)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "./reports", "Output directory for the report file")
	exportCmd.Flags().StringVar(&exportDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(exportCmd)
}

func runExportCmd(_ *cobra.Command, _ []string) error {
	if exportSession == "" && exportSessionID == "" {
		return fmt.Errorf("either --session or --session-id must be provided")
	}
	if exportSession != "" && exportSessionID != "" {
		return fmt.Errorf("--session and --session-id are mutually exclusive; provide only one")
	}

	var reportText string

	if exportSession != "" {
		state, err := export.LoadSessionFile(exportSession)
		if err != nil {
			return fmt.Errorf("failed to load session file: %w", err)
		}
		reportText = state.Report
	} else {
		ctx := context.Background()

		databaseURL := exportDatabaseURL
		if databaseURL == "" {
			databaseURL = os.Getenv("DATABASE_URL")
		}
		if databaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
		}

		id, err := uuid.Parse(exportSessionID)
		if err != nil {
			return fmt.Errorf("invalid session-id format: %w", err)
		}

		database, err := db.Connect(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		row, err := database.GetSession(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		reportText = row.FinalReport
	}

	if reportText == "" {
		return fmt.Errorf("session has no report; finish the interview or use the report command to generate one")
	}

	path, err := export.ExportReport(reportText, exportOut)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Report exported to: %s\n", path)

	return nil
}
