package payment

import (
	"context"
	"log/slog"

	"github.com/templui/medtrack/internal/config"
	"github.com/templui/medtrack/internal/model"
)

const (
	ProviderStripe = "stripe"
	ProviderNone   = "none"
)

// NewProvider creates a payment provider based on configuration.
// Without a Stripe key (development only) every user is on the free tier.
func NewProvider(cfg *config.Config) Provider {
	if cfg.StripeSecretKey == "" {
		slog.Warn("STRIPE_SECRET_KEY not set, billing disabled")
		return noProvider{}
	}

	slog.Info("initializing payment provider", "provider", ProviderStripe, "currencies", len(cfg.StripePriceIDs))
	return NewStripeProvider(StripeConfig{
		SecretKey: cfg.StripeSecretKey,
		PriceIDs:  cfg.StripePriceIDs,
		AppURL:    cfg.AppURL,
	})
}

type noProvider struct{}

func (noProvider) Name() string { return ProviderNone }

func (noProvider) Status(ctx context.Context, email string) (*model.BillingStatus, error) {
	return &model.BillingStatus{}, nil
}

func (noProvider) CheckoutURL(ctx context.Context, user *model.User, currency string) (string, error) {
	return "", ErrNotConfigured
}

func (noProvider) PortalURL(ctx context.Context, email string) (string, error) {
	return "", ErrNotConfigured
}
