package db

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// DashboardStats aggregates a user's interview activity
type DashboardStats struct {
	TotalSessions          int              `json:"total_sessions"`
	CompletedSessions      int              `json:"completed_sessions"`
	InProgressSessions     int              `json:"in_progress_sessions"`
	OverallAvgScore        float64          `json:"overall_avg_score"`
	TotalQuestionsAnswered int              `json:"total_questions_answered"`
	RecentActivity         int              `json:"recent_activity"`
	Sessions               []SessionSummary `json:"sessions"`
}

// GetDashboardStats computes dashboard statistics for a user. Averages are
// only computed once at least one session has completed; RecentActivity
// counts sessions from the last 30 days. Sessions holds the 10 newest.
func (db *DB) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, status, average_score, total_questions, created_at
		 FROM interview_sessions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions for stats: %w", err)
	}
	defer rows.Close()

	var sessions []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Status, &s.AverageScore, &s.TotalQuestions, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}
		sessions = append(sessions, s)
	}

	stats := &DashboardStats{TotalSessions: len(sessions)}

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	for _, s := range sessions {
		switch s.Status {
		case SessionStatusCompleted:
			stats.CompletedSessions++
		case SessionStatusInProgress:
			stats.InProgressSessions++
		}
		if s.CreatedAt.After(thirtyDaysAgo) {
			stats.RecentActivity++
		}
	}

	if stats.CompletedSessions > 0 {
		var scoreSum float64
		var scored int
		for _, s := range sessions {
			if s.AverageScore != nil {
				scoreSum += *s.AverageScore
				scored++
			}
			stats.TotalQuestionsAnswered += s.TotalQuestions
		}
		if scored > 0 {
			stats.OverallAvgScore = math.Round(scoreSum/float64(scored)*10) / 10
		}
	}

	if len(sessions) > 10 {
		sessions = sessions[:10]
	}
	stats.Sessions = sessions

	return stats, nil
}
