package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/interview-coach/internal/types"
)

// InterviewReport represents a row in interview_reports
type InterviewReport struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	SessionID       *uuid.UUID          `json:"session_id,omitempty"`
	Title           string              `json:"title"`
	ReportContent   string              `json:"report_content"`
	Summary         *types.SummaryStats `json:"summary,omitempty"`
	Scores          map[string]float64  `json:"scores,omitempty"`
	Recommendations string              `json:"recommendations,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ReportSummary is a lightweight view of a report for listing
type ReportSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveReportInput holds the fields for a new report row
type SaveReportInput struct {
	Title           string
	ReportContent   string
	Summary         *types.SummaryStats
	Scores          map[string]float64
	Recommendations string
}

const reportColumns = `id, user_id, session_id, title, report_content, summary, scores,
	 recommendations, created_at, updated_at`

// SaveReport inserts a report row. Report content is NOT NULL in the
// schema, so empty content is rejected before touching the database.
func (db *DB) SaveReport(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, input *SaveReportInput) (*InterviewReport, error) {
	if input.ReportContent == "" {
		return nil, fmt.Errorf("report content cannot be empty")
	}

	title := input.Title
	if title == "" {
		title = "Interview Report " + time.Now().Format("2006-01-02 15:04")
	}

	summaryJSON, err := json.Marshal(input.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report summary: %w", err)
	}
	scoresJSON, err := json.Marshal(input.Scores)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report scores: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO interview_reports
		 (user_id, session_id, title, report_content, summary, scores, recommendations)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+reportColumns,
		userID, sessionID, title, input.ReportContent, summaryJSON, scoresJSON, input.Recommendations,
	)

	report, err := scanReport(row)
	if err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	return report, nil
}

// GetReport retrieves a report by ID, returning nil when not found
func (db *DB) GetReport(ctx context.Context, reportID uuid.UUID) (*InterviewReport, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM interview_reports WHERE id = $1`,
		reportID,
	)

	report, err := scanReport(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// ListReports retrieves report summaries for a user, newest first
func (db *DB) ListReports(ctx context.Context, userID uuid.UUID, limit int) ([]ReportSummary, error) {
	if limit == 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, created_at FROM interview_reports
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportSummary
	for rows.Next() {
		var r ReportSummary
		if err := rows.Scan(&r.ID, &r.Title, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// DeleteReport deletes a report by ID
func (db *DB) DeleteReport(ctx context.Context, reportID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM interview_reports WHERE id = $1`, reportID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("report not found: %s", reportID)
	}
	return nil
}

func scanReport(row pgx.Row) (*InterviewReport, error) {
	var r InterviewReport
	var summaryJSON, scoresJSON []byte

	err := row.Scan(&r.ID, &r.UserID, &r.SessionID, &r.Title, &r.ReportContent,
		&summaryJSON, &scoresJSON, &r.Recommendations, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &r.Summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report summary: %w", err)
		}
	}
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &r.Scores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report scores: %w", err)
		}
	}
	return &r, nil
}
