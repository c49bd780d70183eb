package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/medtrack/internal/db"
	"github.com/templui/medtrack/internal/model"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))
	return conn
}

func newMedication(userID, name, start string, end *string) *model.Medication {
	now := time.Now().UTC()
	return &model.Medication{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Dosage:    "10mg",
		Frequency: "daily",
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func strPtr(s string) *string { return &s }

var ctx = context.Background()
