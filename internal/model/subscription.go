package model

import (
	"time"
)

// FreeReportLimit is the number of reports a user without an active
// subscription may create.
const FreeReportLimit = 2

// UsageCounter is the per-user count of reports ever created.
type UsageCounter struct {
	UserID         string    `db:"user_id"`
	ReportsCreated int       `db:"reports_created"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// SubscriptionStatus is the quota snapshot sent to clients with report responses.
type SubscriptionStatus struct {
	CanCreateReport       bool `json:"canCreateReport"`
	HasActiveSubscription bool `json:"hasActiveSubscription"`
	ReportsCreated        int  `json:"reportsCreated"`
	Limit                 int  `json:"limit"`
}

// BillingStatus is what the payment provider knows about a customer.
type BillingStatus struct {
	CustomerID            string     `json:"customerId,omitempty"`
	HasActiveSubscription bool       `json:"hasActiveSubscription"`
	Status                string     `json:"status,omitempty"`
	CurrentPeriodEnd      *time.Time `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd     bool       `json:"cancelAtPeriodEnd"`
}
