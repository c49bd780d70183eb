package service

import (
	"errors"
	"fmt"

	"github.com/templui/medtrack/internal/model"
)

var (
	ErrQuotaExceeded       = errors.New("free report limit reached")
	ErrEmailMismatch       = errors.New("email does not match the signed-in user")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrNoBillingCustomer   = errors.New("no billing customer for this user")
	ErrSupportDisabled     = errors.New("support chat is not configured")
)

// ValidationError is a rejected field; handlers turn it into a 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Message: err.Error()}
}

// ConflictError carries the check-in that already occupies the requested date.
type ConflictError struct {
	Existing *model.DailyCheckin
}

func (e *ConflictError) Error() string {
	return "a check-in already exists for " + e.Existing.Date
}

// QuotaError wraps ErrQuotaExceeded with the status that caused it.
type QuotaError struct {
	Status model.SubscriptionStatus
}

func (e *QuotaError) Error() string {
	return ErrQuotaExceeded.Error()
}

func (e *QuotaError) Unwrap() error {
	return ErrQuotaExceeded
}
