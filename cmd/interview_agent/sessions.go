package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/interview-coach/internal/db"
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List or delete interview sessions stored in the database",
	Long:  "Lists a user's interview sessions with status, score, and progress, or deletes a single session by ID.",
	RunE:  runSessionsCmd,
}

var (
	sessionsUserID      string
	sessionsStatus      string
	sessionsLimit       int
	sessionsDelete      string
	sessionsDatabaseURL string
)

func init() {
	sessionsCmd.Flags().StringVarP(&sessionsUserID, "user-id", "u", "", "User UUID (required for listing)")
	sessionsCmd.Flags().StringVar(&sessionsStatus, "status", "", "Filter by status (in_progress, completed)")
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "Maximum number of sessions to list")
	sessionsCmd.Flags().StringVar(&sessionsDelete, "delete", "", "Delete the session with this ID instead of listing")
	sessionsCmd.Flags().StringVar(&sessionsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := sessionsDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if sessionsDelete != "" {
		id, err := uuid.Parse(sessionsDelete)
		if err != nil {
			return fmt.Errorf("invalid session ID format: %w", err)
		}
		if err := database.DeleteSession(ctx, id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Session %s deleted\n", id)
		return nil
	}

	if sessionsUserID == "" {
		return fmt.Errorf("--user-id is required for listing sessions")
	}
	userID, err := uuid.Parse(sessionsUserID)
	if err != nil {
		return fmt.Errorf("invalid user-id format: %w", err)
	}

	rows, total, err := database.ListSessions(ctx, db.ListSessionsOptions{
		UserID: userID,
		Status: sessionsStatus,
		Limit:  sessionsLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "No sessions found")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-12s  %-5s  %-9s  %-19s  %s\n",
		"ID", "STATUS", "SCORE", "QUESTIONS", "CREATED", "TITLE")
	for _, row := range rows {
		score := "-"
		if row.AverageScore != nil {
			score = fmt.Sprintf("%.1f", *row.AverageScore)
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-12s  %-5s  %-9d  %-19s  %s\n",
			row.ID, row.Status, score, row.TotalQuestions,
			row.CreatedAt.Format("2006-01-02 15:04:05"), row.Title)
	}
	fmt.Fprintf(os.Stdout, "\n%d of %d sessions\n", len(rows), total)

	return nil
}
