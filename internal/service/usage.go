package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/observability"
	"github.com/templui/medtrack/internal/repository"
)

// BillingLookup reports a customer's live subscription state.
type BillingLookup interface {
	Status(ctx context.Context, email string) (*model.BillingStatus, error)
}

// UsageService decides whether a user may create another report.
type UsageService struct {
	repo    repository.UsageRepository
	billing BillingLookup
	limit   int
}

func NewUsageService(repo repository.UsageRepository, billing BillingLookup) *UsageService {
	return &UsageService{
		repo:    repo,
		billing: billing,
		limit:   model.FreeReportLimit,
	}
}

// Check never returns an error. When the payment provider or the counter
// cannot be read the user is denied (CanCreateReport=false).
func (s *UsageService) Check(ctx context.Context, userID, email string) model.SubscriptionStatus {
	billing, err := s.billing.Status(ctx, email)
	if err != nil {
		observability.RecordBillingLookupFailure()
		slog.Error("failed to look up subscription, denying report creation", "error", err, "user_id", userID)

		status := model.SubscriptionStatus{Limit: s.limit}
		if counter, cerr := s.repo.ByUserID(ctx, userID); cerr == nil {
			status.ReportsCreated = counter.ReportsCreated
		}
		return status
	}

	return s.FromBilling(ctx, userID, billing)
}

// FromBilling builds the snapshot from a billing status the caller already
// fetched, so the provider is not asked twice.
func (s *UsageService) FromBilling(ctx context.Context, userID string, billing *model.BillingStatus) model.SubscriptionStatus {
	status := model.SubscriptionStatus{Limit: s.limit}

	if billing != nil && billing.HasActiveSubscription {
		status.HasActiveSubscription = true
		status.CanCreateReport = true
		return status
	}

	counter, err := s.repo.ByUserID(ctx, userID)
	if err != nil {
		slog.Error("failed to read usage counter, denying report creation", "error", err, "user_id", userID)
		return status
	}

	status.ReportsCreated = counter.ReportsCreated
	status.CanCreateReport = counter.ReportsCreated < s.limit
	return status
}

// Increment records one more report and returns the new total.
func (s *UsageService) Increment(ctx context.Context, userID string) (int, error) {
	total, err := s.repo.Increment(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to increment usage: %w", err)
	}
	return total, nil
}

// After returns the status following a successful increment without a second provider call.
func (s *UsageService) After(before model.SubscriptionStatus, total int) model.SubscriptionStatus {
	if before.HasActiveSubscription {
		return before
	}
	before.ReportsCreated = total
	before.CanCreateReport = total < s.limit
	return before
}
