// Command init_db creates the interview coach database schema: users,
// interview sessions, reports, and per-user settings.
//
// Usage:
//
//	go run cmd/tools/init_db/main.go
//
// Requires DATABASE_URL environment variable to be set. Statements are
// idempotent, so rerunning against an existing database is safe.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    phone         TEXT,
    password_hash TEXT,
    password_set  BOOLEAN NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS interview_sessions (
    id                   UUID PRIMARY KEY,
    user_id              UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title                TEXT NOT NULL,
    status               TEXT NOT NULL DEFAULT 'in_progress',
    interview_plan       JSONB,
    current_question_idx INTEGER NOT NULL DEFAULT 0,
    interview_notes      JSONB,
    conversation_history JSONB,
    resume_content       TEXT NOT NULL DEFAULT '',
    job_description      TEXT NOT NULL DEFAULT '',
    total_questions      INTEGER NOT NULL DEFAULT 0,
    average_score        DOUBLE PRECISION,
    final_report         TEXT NOT NULL DEFAULT '',
    created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_interview_sessions_user_id
    ON interview_sessions(user_id);
CREATE INDEX IF NOT EXISTS idx_interview_sessions_user_status
    ON interview_sessions(user_id, status);

CREATE TABLE IF NOT EXISTS interview_reports (
    id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id         UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    session_id      UUID REFERENCES interview_sessions(id) ON DELETE SET NULL,
    title           TEXT NOT NULL,
    report_content  TEXT NOT NULL,
    summary         JSONB,
    scores          JSONB,
    recommendations TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_interview_reports_user_id
    ON interview_reports(user_id);

CREATE TABLE IF NOT EXISTS user_settings (
    user_id       UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    max_questions INTEGER NOT NULL DEFAULT 5,
    model_name    TEXT NOT NULL DEFAULT 'gemini-2.5-flash',
    temperature   REAL NOT NULL DEFAULT 0.3,
    chunk_size    INTEGER NOT NULL DEFAULT 500,
    chunk_overlap INTEGER NOT NULL DEFAULT 50,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("=== Interview Coach Schema Setup ===")
	fmt.Println()

	if _, err := pool.Exec(ctx, schema); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to apply schema: %v\n", err)
		os.Exit(1)
	}

	// Verify the expected tables exist
	rows, err := pool.Query(ctx,
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public'
		   AND table_name IN ('users', 'interview_sessions', 'interview_reports', 'user_settings')
		 ORDER BY table_name`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to verify schema: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	var count int
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to scan table name: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  ✓ %s\n", name)
		count++
	}

	fmt.Println()
	fmt.Printf("Schema applied successfully (%d tables)\n", count)
}
