package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/templui/medtrack/internal/model"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrCheckinNotFound = errors.New("check-in not found")
	ErrCheckinExists   = errors.New("check-in already exists for this date")
)

type CheckinRepository interface {
	Create(ctx context.Context, checkin *model.DailyCheckin) error
	ByID(ctx context.Context, userID, checkinID string) (*model.DailyCheckin, error)
	ByDate(ctx context.Context, userID, date string) (*model.DailyCheckin, error)
	Checkins(ctx context.Context, userID string) ([]*model.DailyCheckin, error)
	Between(ctx context.Context, userID, start, end string) ([]*model.DailyCheckin, error)
	Update(ctx context.Context, checkin *model.DailyCheckin) error
	Delete(ctx context.Context, userID, checkinID string) error
}

type checkinRepository struct {
	db *sqlx.DB
}

func NewCheckinRepository(db *sqlx.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

// Create returns ErrCheckinExists when (user_id, date) is already taken.
func (r *checkinRepository) Create(ctx context.Context, checkin *model.DailyCheckin) error {
	query := `INSERT INTO daily_checkins (id, user_id, date, overall_rating, sleep_quality, energy_level, mood, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		checkin.ID,
		checkin.UserID,
		checkin.Date,
		checkin.OverallRating,
		checkin.SleepQuality,
		checkin.EnergyLevel,
		checkin.Mood,
		checkin.Notes,
		checkin.CreatedAt,
		checkin.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrCheckinExists
	}

	return err
}

func (r *checkinRepository) ByID(ctx context.Context, userID, checkinID string) (*model.DailyCheckin, error) {
	checkin := &model.DailyCheckin{}
	query := `SELECT * FROM daily_checkins WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, checkin, query, checkinID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrCheckinNotFound
	}

	return checkin, err
}

func (r *checkinRepository) ByDate(ctx context.Context, userID, date string) (*model.DailyCheckin, error) {
	checkin := &model.DailyCheckin{}
	query := `SELECT * FROM daily_checkins WHERE user_id = $1 AND date = $2`

	err := r.db.GetContext(ctx, checkin, query, userID, date)
	if err == sql.ErrNoRows {
		return nil, ErrCheckinNotFound
	}

	return checkin, err
}

func (r *checkinRepository) Checkins(ctx context.Context, userID string) ([]*model.DailyCheckin, error) {
	checkins := []*model.DailyCheckin{}
	query := `SELECT * FROM daily_checkins WHERE user_id = $1 ORDER BY date DESC`

	err := r.db.SelectContext(ctx, &checkins, query, userID)
	if err != nil {
		return nil, err
	}

	return checkins, nil
}

func (r *checkinRepository) Between(ctx context.Context, userID, start, end string) ([]*model.DailyCheckin, error) {
	checkins := []*model.DailyCheckin{}
	query := `SELECT * FROM daily_checkins WHERE user_id = $1 AND date >= $2 AND date <= $3 ORDER BY date DESC`

	err := r.db.SelectContext(ctx, &checkins, query, userID, start, end)
	if err != nil {
		return nil, err
	}

	return checkins, nil
}

func (r *checkinRepository) Update(ctx context.Context, checkin *model.DailyCheckin) error {
	checkin.UpdatedAt = time.Now().UTC()
	query := `UPDATE daily_checkins
	          SET date = $1, overall_rating = $2, sleep_quality = $3, energy_level = $4, mood = $5, notes = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		checkin.Date,
		checkin.OverallRating,
		checkin.SleepQuality,
		checkin.EnergyLevel,
		checkin.Mood,
		checkin.Notes,
		checkin.UpdatedAt,
		checkin.ID,
		checkin.UserID,
	)
	if isUniqueViolation(err) {
		return ErrCheckinExists
	}
	if err != nil {
		return err
	}

	return expectRow(result, ErrCheckinNotFound)
}

func (r *checkinRepository) Delete(ctx context.Context, userID, checkinID string) error {
	query := `DELETE FROM daily_checkins WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, checkinID, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrCheckinNotFound)
}

// isUniqueViolation recognises unique-constraint failures from both drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}
