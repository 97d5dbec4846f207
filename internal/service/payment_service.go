package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"zapshift/internal/checkout"
	apperrors "zapshift/internal/errors"
	"zapshift/internal/events"
	"zapshift/internal/model"
	"zapshift/internal/repository"
)

// CheckoutRequest is what the client sends to start paying for a parcel.
type CheckoutRequest struct {
	ParcelID    string
	ParcelName  string
	SenderEmail string
	Cost        decimal.Decimal
}

// Confirmation is the outcome of reconciling a checkout session.
type Confirmation struct {
	// AlreadyProcessed is set when the charge was reconciled earlier.
	AlreadyProcessed bool
	Success          bool
	TransactionID    string
	TrackingID       string
	ParcelID         string
	PaymentID        string
}

// PaymentSettings configures checkout redirects and records.
type PaymentSettings struct {
	SiteDomain     string
	Currency       string
	TrackingPrefix string
}

// PaymentService handles checkout and payment reconciliation.
type PaymentService interface {
	// CreateCheckoutSession returns the hosted page URL. Legacy sessions
	// redirect without the session id placeholder.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest, legacy bool) (string, error)
	// ConfirmPayment reconciles a completed session into a payment record
	// exactly once per charge.
	ConfirmPayment(ctx context.Context, sessionID string) (*Confirmation, error)
	// List returns payment history. A non-empty email must match the
	// caller; without one admins see everything and others see their own.
	List(ctx context.Context, callerEmail, email string) ([]model.Payment, error)
	Delete(ctx context.Context, id string) error
}

type paymentService struct {
	store     *repository.Store
	provider  checkout.Provider
	roles     RoleLookup
	publisher events.Publisher
	settings  PaymentSettings
	logger    *log.Logger
	now       func() time.Time
	// per-session locking; entries are dropped on unlock
	sessionLocks keyedMutex
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	store *repository.Store,
	provider checkout.Provider,
	roles RoleLookup,
	publisher events.Publisher,
	settings PaymentSettings,
	logger *log.Logger,
) PaymentService {
	if settings.Currency == "" {
		settings.Currency = "usd"
	}
	if settings.TrackingPrefix == "" {
		settings.TrackingPrefix = "ZAP"
	}
	return &paymentService{
		store:     store,
		provider:  provider,
		roles:     roles,
		publisher: orNopPublisher(publisher),
		settings:  settings,
		logger:    orDefaultLogger(logger),
		now:       time.Now,
	}
}

func (s *paymentService) CreateCheckoutSession(ctx context.Context, req CheckoutRequest, legacy bool) (string, error) {
	if req.ParcelID == "" || req.SenderEmail == "" {
		return "", apperrors.Invalid("parcelId and senderEmail are required")
	}
	if !req.Cost.IsPositive() {
		return "", apperrors.Invalid("cost must be greater than zero")
	}

	successURL := s.settings.SiteDomain + "/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}"
	if legacy {
		successURL = s.settings.SiteDomain + "/dashboard/payment-success"
	}
	cancelURL := s.settings.SiteDomain + "/dashboard/payment-cancelled"

	name := req.ParcelName
	if name == "" {
		name = "Parcel delivery"
	}
	session, err := s.provider.CreateSession(ctx, checkout.SessionRequest{
		// Round to the nearest cent; truncation under-charged fractional costs.
		AmountMinor:   req.Cost.Shift(2).Round(0).IntPart(),
		Currency:      s.settings.Currency,
		ProductName:   name,
		CustomerEmail: normalizeEmail(req.SenderEmail),
		Metadata: map[string]string{
			"parcelId":   req.ParcelID,
			"parcelName": req.ParcelName,
		},
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	})
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("checkout session %s returned no url", session.ID)
	}
	return session.URL, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, sessionID string) (*Confirmation, error) {
	if sessionID == "" {
		return nil, apperrors.Invalid("session_id is required")
	}

	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()

	session, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}

	transactionID := session.PaymentIntentID
	if transactionID != "" {
		existing, err := s.store.Payments.FindByTransactionID(ctx, transactionID)
		if err == nil {
			return alreadyProcessed(existing), nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	parcelID := session.Metadata["parcelId"]
	if session.PaymentStatus != checkout.PaymentStatusPaid || parcelID == "" || transactionID == "" {
		s.logger.Infoj(log.JSON{"msg": "checkout session not payable", "session": sessionID, "status": session.PaymentStatus})
		return &Confirmation{Success: false, TransactionID: transactionID}, nil
	}

	paidAt := s.now().UTC()
	var payment *model.Payment
	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		parcel, err := s.store.Parcels.FindByID(ctx, parcelID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrParcelNotFound
			}
			return err
		}

		trackingID := parcel.TrackingID
		if trackingID == "" {
			if trackingID, err = NewTrackingID(s.settings.TrackingPrefix, paidAt); err != nil {
				return err
			}
		}
		if err := s.store.Parcels.MarkPaid(ctx, parcelID, trackingID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.ErrParcelNotFound
			}
			return fmt.Errorf("mark parcel paid: %w", err)
		}

		parcelName := session.Metadata["parcelName"]
		if parcelName == "" {
			parcelName = parcel.ParcelName
		}
		currency := session.Currency
		if currency == "" {
			currency = s.settings.Currency
		}
		payment = &model.Payment{
			TransactionID: transactionID,
			ParcelID:      parcelID,
			ParcelName:    parcelName,
			Amount:        decimal.New(session.AmountTotal, -2),
			Currency:      currency,
			CustomerEmail: normalizeEmail(session.CustomerEmail),
			PaymentStatus: model.PaymentStatusPaid,
			TrackingID:    trackingID,
			PaidAt:        paidAt,
		}
		return s.store.Payments.Create(ctx, payment)
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// another instance recorded the same charge first
		existing, ferr := s.store.Payments.FindByTransactionID(ctx, transactionID)
		if ferr != nil {
			return nil, ferr
		}
		return alreadyProcessed(existing), nil
	}
	if err != nil {
		if !s.store.Transactional() && !errors.Is(err, apperrors.ErrParcelNotFound) {
			s.logger.Errorj(log.JSON{"msg": "payment reconcile partially applied, retry the request", "session": sessionID, "error": err.Error()})
		}
		return nil, err
	}

	s.publisher.Publish(events.ParcelPaid{
		ParcelID:      payment.ParcelID,
		PaymentID:     payment.ID,
		TransactionID: payment.TransactionID,
		TrackingID:    payment.TrackingID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		CustomerEmail: payment.CustomerEmail,
		PaidAt:        payment.PaidAt,
	})
	s.logger.Infoj(log.JSON{"msg": "payment recorded", "parcel": parcelID, "transaction": transactionID, "tracking": payment.TrackingID})

	return &Confirmation{
		Success:       true,
		TransactionID: payment.TransactionID,
		TrackingID:    payment.TrackingID,
		ParcelID:      payment.ParcelID,
		PaymentID:     payment.ID,
	}, nil
}

func alreadyProcessed(p *model.Payment) *Confirmation {
	return &Confirmation{
		AlreadyProcessed: true,
		TransactionID:    p.TransactionID,
		TrackingID:       p.TrackingID,
		ParcelID:         p.ParcelID,
		PaymentID:        p.ID,
	}
}

func (s *paymentService) List(ctx context.Context, callerEmail, email string) ([]model.Payment, error) {
	caller := normalizeEmail(callerEmail)
	if caller == "" {
		return nil, apperrors.ErrUnauthorized
	}
	email = normalizeEmail(email)

	filter := repository.PaymentFilter{CustomerEmail: email}
	if email != "" {
		if email != caller {
			return nil, apperrors.ErrForbidden
		}
	} else {
		role, err := s.roles.GetRole(ctx, caller)
		if err != nil {
			return nil, err
		}
		if role != model.RoleAdmin {
			filter.CustomerEmail = caller
		}
	}
	return s.store.Payments.List(ctx, filter)
}

func (s *paymentService) Delete(ctx context.Context, id string) error {
	if err := s.store.Payments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrPaymentNotFound
		}
		return err
	}
	return nil
}
