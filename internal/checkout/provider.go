// Package checkout talks to the hosted payment page provider.
package checkout

import "context"

// PaymentStatusPaid is the session payment status of a completed charge.
const PaymentStatusPaid = "paid"

// SessionRequest describes a single-item hosted checkout.
type SessionRequest struct {
	// AmountMinor is the unit price in the currency's minor unit (cents).
	AmountMinor   int64
	Currency      string
	ProductName   string
	CustomerEmail string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

// Session is the provider's view of a checkout.
type Session struct {
	ID string
	// URL is the hosted page the customer is redirected to.
	URL string
	// PaymentIntentID identifies the charge; empty until one exists.
	PaymentIntentID string
	PaymentStatus   string
	// AmountTotal is in minor units.
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
}

// Provider creates and retrieves hosted checkout sessions.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
}
