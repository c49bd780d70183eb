package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/medtrack/internal/model"
)

var (
	ErrMedicationNotFound = errors.New("medication not found")
)

type MedicationRepository interface {
	Create(ctx context.Context, med *model.Medication) error
	ByID(ctx context.Context, userID, medicationID string) (*model.Medication, error)
	Medications(ctx context.Context, userID string) ([]*model.Medication, error)
	Update(ctx context.Context, med *model.Medication) error
	Delete(ctx context.Context, userID, medicationID string) error
}

type medicationRepository struct {
	db *sqlx.DB
}

func NewMedicationRepository(db *sqlx.DB) MedicationRepository {
	return &medicationRepository{db: db}
}

func (r *medicationRepository) Create(ctx context.Context, med *model.Medication) error {
	query := `INSERT INTO medications (id, user_id, name, dosage, frequency, start_date, end_date, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		med.ID,
		med.UserID,
		med.Name,
		med.Dosage,
		med.Frequency,
		med.StartDate,
		med.EndDate,
		med.Notes,
		med.CreatedAt,
		med.UpdatedAt,
	)

	return err
}

func (r *medicationRepository) ByID(ctx context.Context, userID, medicationID string) (*model.Medication, error) {
	med := &model.Medication{}
	query := `SELECT * FROM medications WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, med, query, medicationID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrMedicationNotFound
	}

	return med, err
}

// Medications returns the user's medications in creation order.
func (r *medicationRepository) Medications(ctx context.Context, userID string) ([]*model.Medication, error) {
	medications := []*model.Medication{}
	query := `SELECT * FROM medications WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &medications, query, userID)
	if err != nil {
		return nil, err
	}

	return medications, nil
}

func (r *medicationRepository) Update(ctx context.Context, med *model.Medication) error {
	med.UpdatedAt = time.Now().UTC()
	query := `UPDATE medications
	          SET name = $1, dosage = $2, frequency = $3, start_date = $4, end_date = $5, notes = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		med.Name,
		med.Dosage,
		med.Frequency,
		med.StartDate,
		med.EndDate,
		med.Notes,
		med.UpdatedAt,
		med.ID,
		med.UserID,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrMedicationNotFound)
}

// Delete leaves side effects that reference the medication in place.
func (r *medicationRepository) Delete(ctx context.Context, userID, medicationID string) error {
	query := `DELETE FROM medications WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, medicationID, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrMedicationNotFound)
}

// expectRow maps a statement that touched nothing to notFound.
func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
