package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/service/payment"
)

type stubProvider struct {
	stubBilling
	checkoutErr error
	portalErr   error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) CheckoutURL(ctx context.Context, user *model.User, currency string) (string, error) {
	if s.checkoutErr != nil {
		return "", s.checkoutErr
	}
	return "https://checkout.example/" + currency, nil
}

func (s *stubProvider) PortalURL(ctx context.Context, email string) (string, error) {
	if s.portalErr != nil {
		return "", s.portalErr
	}
	return "https://portal.example/", nil
}

func TestSubscriptionService(t *testing.T) {
	ctx := context.Background()

	svc := NewSubscriptionService(&stubProvider{})
	url, err := svc.CheckoutURL(ctx, alice, "usd")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/usd", url)

	svc = NewSubscriptionService(&stubProvider{checkoutErr: payment.ErrUnsupportedCurrency})
	_, err = svc.CheckoutURL(ctx, alice, "gbp")
	assert.ErrorIs(t, err, ErrUnsupportedCurrency)

	svc = NewSubscriptionService(&stubProvider{portalErr: payment.ErrNoCustomer})
	_, err = svc.PortalURL(ctx, alice)
	assert.ErrorIs(t, err, ErrNoBillingCustomer)

	svc = NewSubscriptionService(&stubProvider{stubBilling: stubBilling{status: &model.BillingStatus{HasActiveSubscription: true}}})
	status, err := svc.Status(ctx, alice)
	require.NoError(t, err)
	assert.True(t, status.HasActiveSubscription)
}
