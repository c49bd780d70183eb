package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/medtrack/internal/db"
	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/repository"
)

type stubBilling struct {
	status *model.BillingStatus
	err    error
	calls  int
}

func (s *stubBilling) Status(ctx context.Context, email string) (*model.BillingStatus, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.status == nil {
		return &model.BillingStatus{}, nil
	}
	return s.status, nil
}

var errProviderDown = errors.New("provider unavailable")

type testEnv struct {
	conn     *sqlx.DB
	meds     repository.MedicationRepository
	effects  repository.SideEffectRepository
	checkins repository.CheckinRepository
	reports  repository.ReportRepository
	usage    repository.UsageRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db")+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))

	return &testEnv{
		conn:     conn,
		meds:     repository.NewMedicationRepository(conn),
		effects:  repository.NewSideEffectRepository(conn),
		checkins: repository.NewCheckinRepository(conn),
		reports:  repository.NewReportRepository(conn),
		usage:    repository.NewUsageRepository(conn),
	}
}

var alice = &model.User{ID: "user-alice", Email: "alice@example.com"}
