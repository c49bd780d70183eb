package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/numsafe"
	"github.com/templui/medtrack/internal/observability"
	"github.com/templui/medtrack/internal/repository"
	"github.com/templui/medtrack/internal/storage"
	"github.com/templui/medtrack/internal/validation"
)

// ReportInput is the create payload.
type ReportInput struct {
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// ArtifactPublisher stores rendered copies of reports.
type ArtifactPublisher interface {
	Publish(ctx context.Context, data *model.ReportData) (string, error)
	URL(ctx context.Context, path string) (string, error)
	Remove(ctx context.Context, path string) error
}

// ReportNotifier tells a user their report is ready.
type ReportNotifier interface {
	SendReportReady(ctx context.Context, to string, report *model.Report) error
}

type ReportService struct {
	repo      repository.ReportRepository
	medsRepo  repository.MedicationRepository
	effects   repository.SideEffectRepository
	checkins  repository.CheckinRepository
	usage     *UsageService
	artifacts ArtifactPublisher
	notifier  ReportNotifier
}

func NewReportService(
	repo repository.ReportRepository,
	medsRepo repository.MedicationRepository,
	effects repository.SideEffectRepository,
	checkins repository.CheckinRepository,
	usage *UsageService,
	artifacts ArtifactPublisher,
	notifier ReportNotifier,
) *ReportService {
	return &ReportService{
		repo:      repo,
		medsRepo:  medsRepo,
		effects:   effects,
		checkins:  checkins,
		usage:     usage,
		artifacts: artifacts,
		notifier:  notifier,
	}
}

// Create stores a report if the user's quota allows it. A *QuotaError
// carries the status when it does not.
func (s *ReportService) Create(ctx context.Context, user *model.User, in ReportInput) (*model.Report, model.SubscriptionStatus, error) {
	if err := validation.ValidateRequired("title", in.Title, maxNameLength); err != nil {
		return nil, model.SubscriptionStatus{}, invalid("title", err)
	}
	start, err := requiredDate("startDate", in.StartDate)
	if err != nil {
		return nil, model.SubscriptionStatus{}, err
	}
	end, err := requiredDate("endDate", in.EndDate)
	if err != nil {
		return nil, model.SubscriptionStatus{}, err
	}
	if err := validation.ValidateDateRange(start, end); err != nil {
		return nil, model.SubscriptionStatus{}, invalid("endDate", err)
	}

	status := s.usage.Check(ctx, user.ID, user.Email)
	if !status.CanCreateReport {
		observability.RecordQuotaDenied()
		return nil, status, &QuotaError{Status: status}
	}

	report := &model.Report{
		ID:        numsafe.NewID(),
		UserID:    user.ID,
		Title:     in.Title,
		StartDate: start,
		EndDate:   end,
		CreatedAt: time.Now().UTC(),
	}

	err = s.repo.Create(ctx, report)
	if err != nil {
		return nil, status, fmt.Errorf("failed to create report: %w", err)
	}

	total, err := s.usage.Increment(ctx, user.ID)
	if err != nil {
		// Rollback: an uncounted report would bypass the free limit
		if delErr := s.repo.Delete(ctx, user.ID, report.ID); delErr != nil {
			slog.Error("failed to rollback report", "error", delErr, "report_id", report.ID)
		}
		return nil, status, err
	}

	observability.RecordReportCreated()
	s.publish(ctx, user, report)

	return report, s.usage.After(status, total), nil
}

// publish renders, uploads and announces the report. Failures are logged only.
func (s *ReportService) publish(ctx context.Context, user *model.User, report *model.Report) {
	if s.artifacts != nil {
		path, err := s.storeArtifact(ctx, report)
		switch {
		case errors.Is(err, storage.ErrDisabled):
		case err != nil:
			observability.RecordArtifactFailure("upload")
			slog.Error("failed to store report artifact", "error", err, "report_id", report.ID, "user_id", user.ID)
		default:
			report.ArtifactPath = &path
			if url, err := s.artifacts.URL(ctx, path); err == nil {
				report.ArtifactURL = url
			}
		}
	}

	if s.notifier != nil {
		err := s.notifier.SendReportReady(ctx, user.Email, report)
		if err != nil {
			observability.RecordArtifactFailure("notify")
			slog.Error("failed to send report ready email", "error", err, "report_id", report.ID, "user_id", user.ID)
		}
	}
}

func (s *ReportService) storeArtifact(ctx context.Context, report *model.Report) (string, error) {
	data, err := s.assemble(ctx, report)
	if err != nil {
		return "", err
	}

	path, err := s.artifacts.Publish(ctx, data)
	if err != nil {
		return "", err
	}

	err = s.repo.SetArtifactPath(ctx, report.UserID, report.ID, path)
	if err != nil {
		return "", fmt.Errorf("failed to save artifact path: %w", err)
	}
	return path, nil
}

// List returns the user's reports, newest first, with a fresh quota snapshot.
func (s *ReportService) List(ctx context.Context, user *model.User) ([]*model.Report, model.SubscriptionStatus, error) {
	reports, err := s.repo.Reports(ctx, user.ID)
	if err != nil {
		return nil, model.SubscriptionStatus{}, fmt.Errorf("failed to list reports: %w", err)
	}

	return reports, s.usage.Check(ctx, user.ID, user.Email), nil
}

// ByID loads one report. rawID comes straight from the query string.
func (s *ReportService) ByID(ctx context.Context, userID, rawID string) (*model.Report, error) {
	report, err := s.load(ctx, userID, rawID)
	if err != nil {
		return nil, err
	}

	if report.ArtifactPath != nil && s.artifacts != nil {
		url, err := s.artifacts.URL(ctx, *report.ArtifactPath)
		if err != nil {
			slog.Warn("failed to presign report artifact", "error", err, "report_id", report.ID)
		} else {
			report.ArtifactURL = url
		}
	}

	return report, nil
}

// Full loads a report together with the records inside its window.
func (s *ReportService) Full(ctx context.Context, userID, rawID string) (*model.ReportData, error) {
	report, err := s.ByID(ctx, userID, rawID)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, report)
}

func (s *ReportService) assemble(ctx context.Context, report *model.Report) (*model.ReportData, error) {
	meds, err := s.medsRepo.Medications(ctx, report.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}

	active := make([]*model.Medication, 0, len(meds))
	for _, m := range meds {
		if m.ActiveDuring(report.StartDate, report.EndDate) {
			active = append(active, m)
		}
	}

	effects, err := s.effects.Between(ctx, report.UserID, report.StartDate, report.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load side effects: %w", err)
	}

	checkins, err := s.checkins.Between(ctx, report.UserID, report.StartDate, report.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load check-ins: %w", err)
	}

	return &model.ReportData{
		Report:      report,
		Medications: active,
		SideEffects: effects,
		Checkins:    checkins,
	}, nil
}

// Delete removes the report. The usage counter is not decremented.
func (s *ReportService) Delete(ctx context.Context, userID, rawID string) error {
	report, err := s.load(ctx, userID, rawID)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, userID, report.ID)
	if err != nil {
		return err
	}

	if report.ArtifactPath != nil && s.artifacts != nil {
		if err := s.artifacts.Remove(ctx, *report.ArtifactPath); err != nil {
			slog.Warn("failed to remove report artifact", "error", err, "report_id", report.ID)
		}
	}
	return nil
}

func (s *ReportService) load(ctx context.Context, userID, rawID string) (*model.Report, error) {
	id, err := numsafe.ParseID(rawID)
	if err != nil {
		return nil, &ValidationError{Field: "id", Message: "id must be a report id"}
	}

	report, err := s.repo.ByID(ctx, userID, id)
	if errors.Is(err, repository.ErrReportNotFound) {
		s.logNotFound(ctx, userID, id)
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return report, nil
}

// logNotFound separates foreign reports from missing ones in the logs.
// Callers see the same not-found either way.
func (s *ReportService) logNotFound(ctx context.Context, userID string, id numsafe.ID) {
	foreign, err := s.repo.ExistsForOtherUser(ctx, userID, id)
	switch {
	case err != nil:
		slog.Warn("report not found", "report_id", id, "user_id", userID, "error", err)
	case foreign:
		slog.Warn("report owned by another user", "report_id", id, "user_id", userID)
	default:
		slog.Info("report does not exist", "report_id", id, "user_id", userID)
	}
}
