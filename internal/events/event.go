// Package events publishes domain events to the message broker.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// ParcelPaidQueue receives an event per reconciled payment.
	ParcelPaidQueue = "parcel.paid"
	// RiderStatusQueue receives an event per rider review decision.
	RiderStatusQueue = "rider.status"
)

// Event is a payload bound for a queue.
type Event interface {
	Queue() string
}

// ParcelPaid is published once a checkout is reconciled into a payment record.
type ParcelPaid struct {
	ParcelID      string          `json:"parcelId"`
	PaymentID     string          `json:"paymentId"`
	TransactionID string          `json:"transactionId"`
	TrackingID    string          `json:"trackingId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CustomerEmail string          `json:"customerEmail"`
	PaidAt        time.Time       `json:"paidAt"`
}

func (ParcelPaid) Queue() string { return ParcelPaidQueue }

// RiderStatusChanged is published when an admin reviews a rider application.
type RiderStatusChanged struct {
	RiderID    string    `json:"riderId"`
	RiderEmail string    `json:"riderEmail"`
	Status     string    `json:"status"`
	WorkStatus string    `json:"workStatus,omitempty"`
	UserRole   string    `json:"userRole,omitempty"`
	ChangedAt  time.Time `json:"changedAt"`
}

func (RiderStatusChanged) Queue() string { return RiderStatusQueue }
