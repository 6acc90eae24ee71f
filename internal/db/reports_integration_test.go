//go:build integration
// +build integration

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/types"
)

func TestReportCRUD_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := createTestUser(t, db, "report")

	session, err := db.CreateSession(ctx, userID, &CreateSessionInput{})
	require.NoError(t, err)

	// Save linked to the session
	saved, err := db.SaveReport(ctx, userID, &session.ID, &SaveReportInput{
		ReportContent: "# INTERVIEW REPORT\n\nStrong candidate.",
		Summary: &types.SummaryStats{
			TotalQuestions: 2,
			AverageScore:   7.5,
			HighestScore:   8,
			LowestScore:    7,
		},
		Scores:          map[string]float64{"technical": 8, "behavioral": 7},
		Recommendations: "Proceed to onsite.",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Contains(t, saved.Title, "Interview Report")
	require.NotNil(t, saved.SessionID)
	assert.Equal(t, session.ID, *saved.SessionID)

	// Get round-trips the JSONB columns
	got, err := db.GetReport(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "# INTERVIEW REPORT\n\nStrong candidate.", got.ReportContent)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 2, got.Summary.TotalQuestions)
	assert.InDelta(t, 8.0, got.Scores["technical"], 0.0001)

	// List
	list, err := db.ListReports(ctx, userID, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)

	// Delete
	err = db.DeleteReport(ctx, saved.ID)
	require.NoError(t, err)

	gone, err := db.GetReport(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSaveReport_WithoutSession_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	userID := createTestUser(t, db, "report-nosession")

	saved, err := db.SaveReport(ctx, userID, nil, &SaveReportInput{
		Title:         "Standalone report",
		ReportContent: "report body",
	})
	require.NoError(t, err)
	assert.Nil(t, saved.SessionID)
	assert.Equal(t, "Standalone report", saved.Title)
}

func TestDeleteReport_Missing_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	err := db.DeleteReport(context.Background(), uuid.New())
	assert.Error(t, err)
}
