package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/templui/medtrack/internal/datefmt"
	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/repository"
	"github.com/templui/medtrack/internal/validation"
)

const (
	maxNameLength  = 200
	maxNotesLength = 5000
)

// MedicationInput is the create/update payload. ID is ignored on create.
type MedicationInput struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Dosage    string  `json:"dosage"`
	Frequency string  `json:"frequency"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Notes     string  `json:"notes"`
}

type MedicationService struct {
	repo repository.MedicationRepository
}

func NewMedicationService(repo repository.MedicationRepository) *MedicationService {
	return &MedicationService{repo: repo}
}

func (s *MedicationService) List(ctx context.Context, userID string) ([]*model.Medication, error) {
	meds, err := s.repo.Medications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return meds, nil
}

func (s *MedicationService) Create(ctx context.Context, userID string, in MedicationInput) (*model.Medication, error) {
	now := time.Now().UTC()
	med := &model.Medication{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := applyMedication(med, in)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(ctx, med)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}

	return med, nil
}

func (s *MedicationService) Update(ctx context.Context, userID string, in MedicationInput) (*model.Medication, error) {
	if in.ID == "" {
		return nil, &ValidationError{Field: "id", Message: "id is required"}
	}

	med, err := s.repo.ByID(ctx, userID, in.ID)
	if err != nil {
		return nil, err
	}

	err = applyMedication(med, in)
	if err != nil {
		return nil, err
	}

	err = s.repo.Update(ctx, med)
	if err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}

	return med, nil
}

func (s *MedicationService) Delete(ctx context.Context, userID, medicationID string) error {
	if medicationID == "" {
		return &ValidationError{Field: "id", Message: "id is required"}
	}
	return s.repo.Delete(ctx, userID, medicationID)
}

func applyMedication(med *model.Medication, in MedicationInput) error {
	if err := validation.ValidateRequired("name", in.Name, maxNameLength); err != nil {
		return invalid("name", err)
	}
	if err := validation.ValidateRequired("dosage", in.Dosage, maxNameLength); err != nil {
		return invalid("dosage", err)
	}
	if err := validation.ValidateOptional("frequency", in.Frequency, maxNameLength); err != nil {
		return invalid("frequency", err)
	}
	if err := validation.ValidateOptional("notes", in.Notes, maxNotesLength); err != nil {
		return invalid("notes", err)
	}

	start, err := requiredDate("startDate", in.StartDate)
	if err != nil {
		return err
	}

	var end *string
	if in.EndDate != nil && *in.EndDate != "" {
		normalized, ok := datefmt.Normalize(*in.EndDate)
		if !ok {
			return &ValidationError{Field: "endDate", Message: "end date is not a valid date"}
		}
		end = &normalized
	}

	var endValue string
	if end != nil {
		endValue = *end
	}
	if err := validation.ValidateDateRange(start, endValue); err != nil {
		return invalid("endDate", err)
	}

	med.Name = in.Name
	med.Dosage = in.Dosage
	med.Frequency = in.Frequency
	med.StartDate = start
	med.EndDate = end
	med.Notes = in.Notes
	return nil
}

func requiredDate(field, raw string) (string, error) {
	if raw == "" {
		return "", &ValidationError{Field: field, Message: field + " is required"}
	}
	date, ok := datefmt.Normalize(raw)
	if !ok {
		return "", &ValidationError{Field: field, Message: field + " is not a valid date"}
	}
	return date, nil
}

// SideEffectInput is the create/update payload. ID is ignored on create.
type SideEffectInput struct {
	ID           string `json:"id"`
	MedicationID string `json:"medicationId"`
	Symptom      string `json:"symptom"`
	Severity     int    `json:"severity"`
	TimeOfDay    string `json:"timeOfDay"`
	Date         string `json:"date"`
	Notes        string `json:"notes"`
}

type SideEffectService struct {
	repo     repository.SideEffectRepository
	medsRepo repository.MedicationRepository
}

func NewSideEffectService(repo repository.SideEffectRepository, medsRepo repository.MedicationRepository) *SideEffectService {
	return &SideEffectService{repo: repo, medsRepo: medsRepo}
}

func (s *SideEffectService) List(ctx context.Context, userID string) ([]*model.SideEffect, error) {
	effects, err := s.repo.SideEffects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list side effects: %w", err)
	}
	return effects, nil
}

// Create returns repository.ErrMedicationNotFound when the referenced
// medication is missing or belongs to someone else.
func (s *SideEffectService) Create(ctx context.Context, userID string, in SideEffectInput) (*model.SideEffect, error) {
	now := time.Now().UTC()
	effect := &model.SideEffect{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	med, err := s.applySideEffect(ctx, userID, effect, in)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(ctx, effect)
	if err != nil {
		return nil, fmt.Errorf("failed to create side effect: %w", err)
	}

	effect.MedicationName = med.Name
	return effect, nil
}

func (s *SideEffectService) Update(ctx context.Context, userID string, in SideEffectInput) (*model.SideEffect, error) {
	if in.ID == "" {
		return nil, &ValidationError{Field: "id", Message: "id is required"}
	}

	effect, err := s.repo.ByID(ctx, userID, in.ID)
	if err != nil {
		return nil, err
	}

	med, err := s.applySideEffect(ctx, userID, effect, in)
	if err != nil {
		return nil, err
	}

	err = s.repo.Update(ctx, effect)
	if err != nil {
		return nil, fmt.Errorf("failed to update side effect: %w", err)
	}

	effect.MedicationName = med.Name
	return effect, nil
}

func (s *SideEffectService) Delete(ctx context.Context, userID, effectID string) error {
	if effectID == "" {
		return &ValidationError{Field: "id", Message: "id is required"}
	}
	return s.repo.Delete(ctx, userID, effectID)
}

func (s *SideEffectService) applySideEffect(ctx context.Context, userID string, effect *model.SideEffect, in SideEffectInput) (*model.Medication, error) {
	if in.MedicationID == "" {
		return nil, &ValidationError{Field: "medicationId", Message: "medicationId is required"}
	}
	if err := validation.ValidateRequired("symptom", in.Symptom, maxNameLength); err != nil {
		return nil, invalid("symptom", err)
	}
	if err := validation.ValidateRating("severity", in.Severity); err != nil {
		return nil, invalid("severity", err)
	}
	if err := validation.ValidateChoice("timeOfDay", in.TimeOfDay, model.TimesOfDay, true); err != nil {
		return nil, invalid("timeOfDay", err)
	}
	if err := validation.ValidateOptional("notes", in.Notes, maxNotesLength); err != nil {
		return nil, invalid("notes", err)
	}
	date, err := requiredDate("date", in.Date)
	if err != nil {
		return nil, err
	}

	med, err := s.medsRepo.ByID(ctx, userID, in.MedicationID)
	if err != nil {
		return nil, err
	}

	effect.MedicationID = in.MedicationID
	effect.Symptom = in.Symptom
	effect.Severity = in.Severity
	effect.TimeOfDay = in.TimeOfDay
	effect.Date = date
	effect.Notes = in.Notes
	return med, nil
}

// CheckinInput is the create/update payload. ID is ignored on create.
type CheckinInput struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	OverallRating int    `json:"overallRating"`
	SleepQuality  int    `json:"sleepQuality"`
	EnergyLevel   int    `json:"energyLevel"`
	Mood          string `json:"mood"`
	Notes         string `json:"notes"`
}

type CheckinService struct {
	repo repository.CheckinRepository
}

func NewCheckinService(repo repository.CheckinRepository) *CheckinService {
	return &CheckinService{repo: repo}
}

func (s *CheckinService) List(ctx context.Context, userID string) ([]*model.DailyCheckin, error) {
	checkins, err := s.repo.Checkins(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return checkins, nil
}

func (s *CheckinService) ByDate(ctx context.Context, userID, raw string) (*model.DailyCheckin, error) {
	date, err := requiredDate("date", raw)
	if err != nil {
		return nil, err
	}
	return s.repo.ByDate(ctx, userID, date)
}

// Create returns a *ConflictError holding the existing row when the
// user already checked in on that date.
func (s *CheckinService) Create(ctx context.Context, userID string, in CheckinInput) (*model.DailyCheckin, error) {
	now := time.Now().UTC()
	checkin := &model.DailyCheckin{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := applyCheckin(checkin, in)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ByDate(ctx, userID, checkin.Date)
	if err == nil {
		return nil, &ConflictError{Existing: existing}
	}
	if !errors.Is(err, repository.ErrCheckinNotFound) {
		return nil, fmt.Errorf("failed to look up check-in: %w", err)
	}

	err = s.repo.Create(ctx, checkin)
	if errors.Is(err, repository.ErrCheckinExists) {
		// Lost a race with a concurrent create for the same date.
		return nil, s.conflict(ctx, userID, checkin.Date, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create check-in: %w", err)
	}

	return checkin, nil
}

func (s *CheckinService) Update(ctx context.Context, userID string, in CheckinInput) (*model.DailyCheckin, error) {
	if in.ID == "" {
		return nil, &ValidationError{Field: "id", Message: "id is required"}
	}

	checkin, err := s.repo.ByID(ctx, userID, in.ID)
	if err != nil {
		return nil, err
	}

	err = applyCheckin(checkin, in)
	if err != nil {
		return nil, err
	}

	err = s.repo.Update(ctx, checkin)
	if errors.Is(err, repository.ErrCheckinExists) {
		return nil, s.conflict(ctx, userID, checkin.Date, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update check-in: %w", err)
	}

	return checkin, nil
}

func (s *CheckinService) Delete(ctx context.Context, userID, checkinID string) error {
	if checkinID == "" {
		return &ValidationError{Field: "id", Message: "id is required"}
	}
	return s.repo.Delete(ctx, userID, checkinID)
}

func (s *CheckinService) conflict(ctx context.Context, userID, date string, cause error) error {
	existing, err := s.repo.ByDate(ctx, userID, date)
	if err != nil {
		return fmt.Errorf("failed to load conflicting check-in: %w", errors.Join(cause, err))
	}
	return &ConflictError{Existing: existing}
}

func applyCheckin(checkin *model.DailyCheckin, in CheckinInput) error {
	date, err := requiredDate("date", in.Date)
	if err != nil {
		return err
	}
	ratings := []struct {
		field string
		value int
	}{
		{"overallRating", in.OverallRating},
		{"sleepQuality", in.SleepQuality},
		{"energyLevel", in.EnergyLevel},
	}
	for _, r := range ratings {
		if err := validation.ValidateRating(r.field, r.value); err != nil {
			return invalid(r.field, err)
		}
	}
	if err := validation.ValidateChoice("mood", in.Mood, model.Moods, true); err != nil {
		return invalid("mood", err)
	}
	if err := validation.ValidateOptional("notes", in.Notes, maxNotesLength); err != nil {
		return invalid("notes", err)
	}

	checkin.Date = date
	checkin.OverallRating = in.OverallRating
	checkin.SleepQuality = in.SleepQuality
	checkin.EnergyLevel = in.EnergyLevel
	checkin.Mood = in.Mood
	checkin.Notes = in.Notes
	return nil
}
