package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/numsafe"
)

var (
	ErrReportNotFound = errors.New("report not found")
)

type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	ByID(ctx context.Context, userID string, reportID numsafe.ID) (*model.Report, error)
	Reports(ctx context.Context, userID string) ([]*model.Report, error)
	ExistsForOtherUser(ctx context.Context, userID string, reportID numsafe.ID) (bool, error)
	SetArtifactPath(ctx context.Context, userID string, reportID numsafe.ID, path string) error
	Delete(ctx context.Context, userID string, reportID numsafe.ID) error
}

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	query := `INSERT INTO reports (id, user_id, title, start_date, end_date, artifact_path, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID,
		report.UserID,
		report.Title,
		report.StartDate,
		report.EndDate,
		report.ArtifactPath,
		report.CreatedAt,
	)

	return err
}

func (r *reportRepository) ByID(ctx context.Context, userID string, reportID numsafe.ID) (*model.Report, error) {
	report := &model.Report{}
	query := `SELECT * FROM reports WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, report, query, reportID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}

	return report, err
}

// Reports returns the user's reports, newest first.
func (r *reportRepository) Reports(ctx context.Context, userID string) ([]*model.Report, error) {
	reports := []*model.Report{}
	query := `SELECT * FROM reports WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &reports, query, userID)
	if err != nil {
		return nil, err
	}

	return reports, nil
}

// ExistsForOtherUser is only used to label not-found logs.
func (r *reportRepository) ExistsForOtherUser(ctx context.Context, userID string, reportID numsafe.ID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM reports WHERE id = $1 AND user_id <> $2`

	err := r.db.QueryRowContext(ctx, query, reportID, userID).Scan(&count)
	return count > 0, err
}

func (r *reportRepository) SetArtifactPath(ctx context.Context, userID string, reportID numsafe.ID, path string) error {
	query := `UPDATE reports SET artifact_path = $1 WHERE id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, path, reportID, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrReportNotFound)
}

func (r *reportRepository) Delete(ctx context.Context, userID string, reportID numsafe.ID) error {
	query := `DELETE FROM reports WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, reportID, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrReportNotFound)
}
