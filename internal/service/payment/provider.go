package payment

import (
	"context"
	"errors"

	"github.com/templui/medtrack/internal/model"
)

var (
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrNoCustomer          = errors.New("no billing customer for this email")
	ErrNotConfigured       = errors.New("billing is not configured")
)

// Provider defines the interface that all payment providers must implement
type Provider interface {
	// Status looks the customer up by email and reports whether they hold an active subscription
	Status(ctx context.Context, email string) (*model.BillingStatus, error)

	// CheckoutURL creates a hosted checkout session for the currency's price and returns its URL
	CheckoutURL(ctx context.Context, user *model.User, currency string) (string, error)

	// PortalURL creates a billing portal session for the customer with this email
	PortalURL(ctx context.Context, email string) (string, error)

	// Name returns the provider name (e.g., "stripe")
	Name() string
}
