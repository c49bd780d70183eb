package payment

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/templui/medtrack/internal/model"
)

// maxCustomersChecked bounds how many customers sharing one email are inspected.
const maxCustomersChecked = 5

type StripeConfig struct {
	SecretKey string
	// PriceIDs maps a lowercase currency code to its subscription price.
	PriceIDs map[string]string
	AppURL   string
	// BaseURL overrides the API endpoint (tests).
	BaseURL    string
	HTTPClient *http.Client
}

type StripeProvider struct {
	api      *client.API
	priceIDs map[string]string
	appURL   string
}

func NewStripeProvider(cfg StripeConfig) *StripeProvider {
	api := &client.API{}

	if cfg.BaseURL == "" && cfg.HTTPClient == nil {
		api.Init(cfg.SecretKey, nil)
	} else {
		backendCfg := &stripe.BackendConfig{
			HTTPClient:        cfg.HTTPClient,
			MaxNetworkRetries: stripe.Int64(0),
		}
		if cfg.BaseURL != "" {
			backendCfg.URL = stripe.String(cfg.BaseURL)
		}
		backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)
		api.Init(cfg.SecretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})
	}

	slog.Info("stripe provider initialized")

	return &StripeProvider{
		api:      api,
		priceIDs: cfg.PriceIDs,
		appURL:   strings.TrimSuffix(cfg.AppURL, "/"),
	}
}

func (s *StripeProvider) Name() string {
	return ProviderStripe
}

func (s *StripeProvider) Status(ctx context.Context, email string) (*model.BillingStatus, error) {
	status := &model.BillingStatus{}

	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(maxCustomersChecked)

	checked := 0
	iter := s.api.Customers.List(params)
	for checked < maxCustomersChecked && iter.Next() {
		checked++
		cust := iter.Customer()
		if status.CustomerID == "" {
			status.CustomerID = cust.ID
		}

		sub, err := s.activeSubscription(ctx, cust.ID)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			status.CustomerID = cust.ID
			status.HasActiveSubscription = true
			status.Status = string(sub.Status)
			status.CancelAtPeriodEnd = sub.CancelAtPeriodEnd
			if sub.CurrentPeriodEnd > 0 {
				end := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
				status.CurrentPeriodEnd = &end
			}
			return status, nil
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list stripe customers: %w", err)
	}

	return status, nil
}

func (s *StripeProvider) activeSubscription(ctx context.Context, customerID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(1)

	iter := s.api.Subscriptions.List(params)
	if iter.Next() {
		return iter.Subscription(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list stripe subscriptions: %w", err)
	}
	return nil, nil
}

func (s *StripeProvider) CheckoutURL(ctx context.Context, user *model.User, currency string) (string, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	priceID, ok := s.priceIDs[currency]
	if !ok || priceID == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}

	successURL := fmt.Sprintf("%s/reports?checkout=success&session_id={CHECKOUT_SESSION_ID}", s.appURL)
	cancelURL := fmt.Sprintf("%s/reports?checkout=cancelled", s.appURL)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"user_id":  user.ID,
			"currency": currency,
		},
		AllowPromotionCodes: stripe.Bool(true),
	}
	params.Context = ctx

	// Reuse the existing customer so subscriptions stay attached to one record.
	existing, err := s.Status(ctx, user.Email)
	if err != nil {
		return "", err
	}
	if existing.CustomerID != "" {
		params.Customer = stripe.String(existing.CustomerID)
	} else {
		params.CustomerEmail = stripe.String(user.Email)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	slog.Info("stripe checkout created", "user_id", user.ID, "currency", currency, "session_id", sess.ID)
	return sess.URL, nil
}

func (s *StripeProvider) PortalURL(ctx context.Context, email string) (string, error) {
	status, err := s.Status(ctx, email)
	if err != nil {
		return "", err
	}
	if status.CustomerID == "" {
		return "", ErrNoCustomer
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(status.CustomerID),
		ReturnURL: stripe.String(s.appURL + "/reports"),
	}
	params.Context = ctx

	portalSession, err := s.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer portal session: %w", err)
	}

	slog.Info("stripe customer portal session created", "customer_id", status.CustomerID)
	return portalSession.URL, nil
}
