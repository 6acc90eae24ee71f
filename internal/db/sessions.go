package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, user_id, title, status, interview_plan, current_question_idx,
	 interview_notes, conversation_history, resume_content, job_description,
	 total_questions, average_score, final_report, created_at, updated_at`

// CreateSession inserts a new interview session and returns the stored row.
// Callers that already track the session in memory pass their ID so both
// sides agree on it.
func (db *DB) CreateSession(ctx context.Context, userID uuid.UUID, input *CreateSessionInput) (*InterviewSession, error) {
	id := input.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	title := input.Title
	if title == "" {
		title = "Interview Session " + time.Now().Format("2006-01-02 15:04")
	}
	status := input.Status
	if status == "" {
		status = SessionStatusInProgress
	}

	planJSON, err := json.Marshal(input.InterviewPlan)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interview plan: %w", err)
	}
	notesJSON, err := json.Marshal(input.InterviewNotes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interview notes: %w", err)
	}
	historyJSON, err := json.Marshal(input.ConversationHistory)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation history: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO interview_sessions
		 (id, user_id, title, status, interview_plan, current_question_idx, interview_notes,
		  conversation_history, resume_content, job_description, total_questions, average_score, final_report)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+sessionColumns,
		id, userID, title, status, planJSON, input.CurrentQuestionIdx, notesJSON,
		historyJSON, input.ResumeContent, input.JobDescription, input.TotalQuestions,
		input.AverageScore, input.FinalReport,
	)

	session, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession retrieves a session by ID, returning nil when not found
func (db *DB) GetSession(ctx context.Context, sessionID uuid.UUID) (*InterviewSession, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM interview_sessions WHERE id = $1`,
		sessionID,
	)

	session, err := scanSession(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// UpdateSession applies a partial update to a session. Nil input fields
// are left unchanged; updated_at always advances.
func (db *DB) UpdateSession(ctx context.Context, sessionID uuid.UUID, input *UpdateSessionInput) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	argNum := 1

	if input.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", argNum))
		args = append(args, *input.Title)
		argNum++
	}
	if input.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", argNum))
		args = append(args, *input.Status)
		argNum++
	}
	if input.InterviewPlan != nil {
		planJSON, err := json.Marshal(input.InterviewPlan)
		if err != nil {
			return fmt.Errorf("failed to marshal interview plan: %w", err)
		}
		sets = append(sets, fmt.Sprintf("interview_plan = $%d", argNum))
		args = append(args, planJSON)
		argNum++
	}
	if input.CurrentQuestionIdx != nil {
		sets = append(sets, fmt.Sprintf("current_question_idx = $%d", argNum))
		args = append(args, *input.CurrentQuestionIdx)
		argNum++
	}
	if input.InterviewNotes != nil {
		notesJSON, err := json.Marshal(input.InterviewNotes)
		if err != nil {
			return fmt.Errorf("failed to marshal interview notes: %w", err)
		}
		sets = append(sets, fmt.Sprintf("interview_notes = $%d", argNum))
		args = append(args, notesJSON)
		argNum++
	}
	if input.ConversationHistory != nil {
		historyJSON, err := json.Marshal(input.ConversationHistory)
		if err != nil {
			return fmt.Errorf("failed to marshal conversation history: %w", err)
		}
		sets = append(sets, fmt.Sprintf("conversation_history = $%d", argNum))
		args = append(args, historyJSON)
		argNum++
	}
	if input.ResumeContent != nil {
		sets = append(sets, fmt.Sprintf("resume_content = $%d", argNum))
		args = append(args, *input.ResumeContent)
		argNum++
	}
	if input.JobDescription != nil {
		sets = append(sets, fmt.Sprintf("job_description = $%d", argNum))
		args = append(args, *input.JobDescription)
		argNum++
	}
	if input.TotalQuestions != nil {
		sets = append(sets, fmt.Sprintf("total_questions = $%d", argNum))
		args = append(args, *input.TotalQuestions)
		argNum++
	}
	if input.AverageScore != nil {
		sets = append(sets, fmt.Sprintf("average_score = $%d", argNum))
		args = append(args, *input.AverageScore)
		argNum++
	}
	if input.FinalReport != nil {
		sets = append(sets, fmt.Sprintf("final_report = $%d", argNum))
		args = append(args, *input.FinalReport)
		argNum++
	}

	query := fmt.Sprintf("UPDATE interview_sessions SET %s WHERE id = $%d",
		strings.Join(sets, ", "), argNum)
	args = append(args, sessionID)

	result, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	return nil
}

// ListSessions retrieves sessions matching the options, newest first,
// along with the total match count before limit/offset
func (db *DB) ListSessions(ctx context.Context, opts ListSessionsOptions) ([]InterviewSession, int, error) {
	if opts.Limit == 0 {
		opts.Limit = 50
	}

	where := " WHERE user_id = $1"
	args := []any{opts.UserID}
	argNum := 2

	if opts.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, opts.Status)
		argNum++
	}

	var total int
	if err := db.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM interview_sessions"+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := "SELECT " + sessionColumns + " FROM interview_sessions" + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []InterviewSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	return sessions, total, nil
}

// DeleteSession deletes a session by ID
func (db *DB) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM interview_sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	return nil
}

func scanSession(row pgx.Row) (*InterviewSession, error) {
	var s InterviewSession
	var planJSON, notesJSON, historyJSON []byte

	err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.Status, &planJSON, &s.CurrentQuestionIdx,
		&notesJSON, &historyJSON, &s.ResumeContent, &s.JobDescription,
		&s.TotalQuestions, &s.AverageScore, &s.FinalReport, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(planJSON) > 0 {
		if err := json.Unmarshal(planJSON, &s.InterviewPlan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interview plan: %w", err)
		}
	}
	if len(notesJSON) > 0 {
		if err := json.Unmarshal(notesJSON, &s.InterviewNotes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interview notes: %w", err)
		}
	}
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &s.ConversationHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conversation history: %w", err)
		}
	}
	return &s, nil
}
