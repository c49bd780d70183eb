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
	ErrSideEffectNotFound = errors.New("side effect not found")
)

type SideEffectRepository interface {
	Create(ctx context.Context, effect *model.SideEffect) error
	ByID(ctx context.Context, userID, effectID string) (*model.SideEffect, error)
	SideEffects(ctx context.Context, userID string) ([]*model.SideEffect, error)
	Between(ctx context.Context, userID, start, end string) ([]*model.SideEffect, error)
	Update(ctx context.Context, effect *model.SideEffect) error
	Delete(ctx context.Context, userID, effectID string) error
}

type sideEffectRepository struct {
	db *sqlx.DB
}

func NewSideEffectRepository(db *sqlx.DB) SideEffectRepository {
	return &sideEffectRepository{db: db}
}

// The join is a LEFT JOIN so side effects of a deleted medication still list.
const sideEffectSelect = `SELECT se.id, se.user_id, se.medication_id, se.symptom, se.severity, se.time_of_day,
	       se.date, se.notes, se.created_at, se.updated_at, COALESCE(m.name, '') AS medication_name
	FROM side_effects se
	LEFT JOIN medications m ON m.id = se.medication_id AND m.user_id = se.user_id`

func (r *sideEffectRepository) Create(ctx context.Context, effect *model.SideEffect) error {
	query := `INSERT INTO side_effects (id, user_id, medication_id, symptom, severity, time_of_day, date, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		effect.ID,
		effect.UserID,
		effect.MedicationID,
		effect.Symptom,
		effect.Severity,
		effect.TimeOfDay,
		effect.Date,
		effect.Notes,
		effect.CreatedAt,
		effect.UpdatedAt,
	)

	return err
}

func (r *sideEffectRepository) ByID(ctx context.Context, userID, effectID string) (*model.SideEffect, error) {
	effect := &model.SideEffect{}
	query := sideEffectSelect + ` WHERE se.id = $1 AND se.user_id = $2`

	err := r.db.GetContext(ctx, effect, query, effectID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrSideEffectNotFound
	}

	return effect, err
}

// SideEffects returns the user's side effects, most recent date first.
func (r *sideEffectRepository) SideEffects(ctx context.Context, userID string) ([]*model.SideEffect, error) {
	effects := []*model.SideEffect{}
	query := sideEffectSelect + ` WHERE se.user_id = $1 ORDER BY se.date DESC, se.created_at DESC`

	err := r.db.SelectContext(ctx, &effects, query, userID)
	if err != nil {
		return nil, err
	}

	return effects, nil
}

// Between returns side effects dated within [start, end], both inclusive.
func (r *sideEffectRepository) Between(ctx context.Context, userID, start, end string) ([]*model.SideEffect, error) {
	effects := []*model.SideEffect{}
	query := sideEffectSelect + ` WHERE se.user_id = $1 AND se.date >= $2 AND se.date <= $3
	          ORDER BY se.date DESC, se.created_at DESC`

	err := r.db.SelectContext(ctx, &effects, query, userID, start, end)
	if err != nil {
		return nil, err
	}

	return effects, nil
}

func (r *sideEffectRepository) Update(ctx context.Context, effect *model.SideEffect) error {
	effect.UpdatedAt = time.Now().UTC()
	query := `UPDATE side_effects
	          SET medication_id = $1, symptom = $2, severity = $3, time_of_day = $4, date = $5, notes = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		effect.MedicationID,
		effect.Symptom,
		effect.Severity,
		effect.TimeOfDay,
		effect.Date,
		effect.Notes,
		effect.UpdatedAt,
		effect.ID,
		effect.UserID,
	)
	if err != nil {
		return err
	}

	return expectRow(result, ErrSideEffectNotFound)
}

func (r *sideEffectRepository) Delete(ctx context.Context, userID, effectID string) error {
	query := `DELETE FROM side_effects WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, effectID, userID)
	if err != nil {
		return err
	}

	return expectRow(result, ErrSideEffectNotFound)
}
