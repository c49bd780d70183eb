package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/medtrack/internal/model"
)

type UsageRepository interface {
	// ByUserID returns the counter, creating a zero row on first use.
	ByUserID(ctx context.Context, userID string) (*model.UsageCounter, error)
	// Increment adds one report and returns the new total.
	Increment(ctx context.Context, userID string) (int, error)
}

type usageRepository struct {
	db *sqlx.DB
}

func NewUsageRepository(db *sqlx.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) ByUserID(ctx context.Context, userID string) (*model.UsageCounter, error) {
	insert := `INSERT INTO usage_counters (user_id, reports_created, updated_at)
	           VALUES ($1, 0, $2)
	           ON CONFLICT (user_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, insert, userID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	counter := &model.UsageCounter{}
	err = r.db.GetContext(ctx, counter, `SELECT * FROM usage_counters WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		// Only possible if the row was removed between the two statements.
		return &model.UsageCounter{UserID: userID}, nil
	}

	return counter, err
}

func (r *usageRepository) Increment(ctx context.Context, userID string) (int, error) {
	query := `INSERT INTO usage_counters (user_id, reports_created, updated_at)
	          VALUES ($1, 1, $2)
	          ON CONFLICT (user_id) DO UPDATE
	          SET reports_created = usage_counters.reports_created + 1, updated_at = excluded.updated_at
	          RETURNING reports_created`

	var total int
	err := r.db.QueryRowContext(ctx, query, userID, time.Now().UTC()).Scan(&total)
	return total, err
}
