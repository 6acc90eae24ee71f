package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Default interview settings applied when a user has no settings row
const (
	DefaultMaxQuestions = 5
	DefaultModelName    = "gemini-2.5-flash"
	DefaultTemperature  = 0.3
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// UserSettings represents a row in user_settings
type UserSettings struct {
	UserID       uuid.UUID `json:"user_id"`
	MaxQuestions int       `json:"max_questions"`
	ModelName    string    `json:"model_name"`
	Temperature  float32   `json:"temperature"`
	ChunkSize    int       `json:"chunk_size"`
	ChunkOverlap int       `json:"chunk_overlap"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateSettingsInput holds the tunable interview settings
type UpdateSettingsInput struct {
	MaxQuestions int
	ModelName    string
	Temperature  float32
	ChunkSize    int
	ChunkOverlap int
}

const settingsColumns = `user_id, max_questions, model_name, temperature, chunk_size, chunk_overlap,
	 created_at, updated_at`

// GetUserSettings retrieves a user's settings, inserting and returning the
// defaults when no row exists yet
func (db *DB) GetUserSettings(ctx context.Context, userID uuid.UUID) (*UserSettings, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM user_settings WHERE user_id = $1`,
		userID,
	)

	settings, err := scanSettings(row)
	if err == nil {
		return settings, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get user settings: %w", err)
	}

	row = db.pool.QueryRow(ctx,
		`INSERT INTO user_settings (user_id, max_questions, model_name, temperature, chunk_size, chunk_overlap)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = user_settings.user_id
		 RETURNING `+settingsColumns,
		userID, DefaultMaxQuestions, DefaultModelName, DefaultTemperature, DefaultChunkSize, DefaultChunkOverlap,
	)
	settings, err = scanSettings(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert default settings: %w", err)
	}
	return settings, nil
}

// UpdateUserSettings upserts a user's settings and returns the stored row
func (db *DB) UpdateUserSettings(ctx context.Context, userID uuid.UUID, input *UpdateSettingsInput) (*UserSettings, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO user_settings (user_id, max_questions, model_name, temperature, chunk_size, chunk_overlap)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
		   max_questions = $2, model_name = $3, temperature = $4,
		   chunk_size = $5, chunk_overlap = $6, updated_at = NOW()
		 RETURNING `+settingsColumns,
		userID, input.MaxQuestions, input.ModelName, input.Temperature, input.ChunkSize, input.ChunkOverlap,
	)

	settings, err := scanSettings(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update user settings: %w", err)
	}
	return settings, nil
}

func scanSettings(row pgx.Row) (*UserSettings, error) {
	var s UserSettings
	err := row.Scan(&s.UserID, &s.MaxQuestions, &s.ModelName, &s.Temperature,
		&s.ChunkSize, &s.ChunkOverlap, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
