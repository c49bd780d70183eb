package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/service/payment"
)

// SubscriptionService backs the subscription endpoints. The payment provider is the
// source of truth; nothing about subscriptions is stored locally.
type SubscriptionService struct {
	provider payment.Provider
}

func NewSubscriptionService(provider payment.Provider) *SubscriptionService {
	return &SubscriptionService{provider: provider}
}

func (s *SubscriptionService) Status(ctx context.Context, user *model.User) (*model.BillingStatus, error) {
	status, err := s.provider.Status(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription status: %w", err)
	}
	return status, nil
}

// CheckoutURL returns the hosted checkout page for currency.
func (s *SubscriptionService) CheckoutURL(ctx context.Context, user *model.User, currency string) (string, error) {
	url, err := s.provider.CheckoutURL(ctx, user, currency)
	if errors.Is(err, payment.ErrUnsupportedCurrency) {
		return "", ErrUnsupportedCurrency
	}
	if err != nil {
		return "", fmt.Errorf("failed to create checkout: %w", err)
	}
	return url, nil
}

func (s *SubscriptionService) PortalURL(ctx context.Context, user *model.User) (string, error) {
	url, err := s.provider.PortalURL(ctx, user.Email)
	if errors.Is(err, payment.ErrNoCustomer) {
		slog.Info("billing portal requested without customer", "user_id", user.ID)
		return "", ErrNoBillingCustomer
	}
	if err != nil {
		return "", fmt.Errorf("failed to create billing portal session: %w", err)
	}
	return url, nil
}
