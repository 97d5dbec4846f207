package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zapshift/internal/checkout"
	apperrors "zapshift/internal/errors"
	"zapshift/internal/events"
	"zapshift/internal/model"
	"zapshift/internal/repository"
)

var testSettings = PaymentSettings{SiteDomain: "https://zap.example", Currency: "usd", TrackingPrefix: "ZAP"}

func paidSession() *checkout.Session {
	return &checkout.Session{
		ID:              "cs_1",
		PaymentIntentID: "pi_123",
		PaymentStatus:   checkout.PaymentStatusPaid,
		AmountTotal:     15050,
		Currency:        "usd",
		CustomerEmail:   "amina@zap.example",
		Metadata:        map[string]string{"parcelId": "p1", "parcelName": "Books"},
	}
}

func TestPaymentService_CreateCheckoutSession(t *testing.T) {
	ms := newMockStore()
	provider := new(MockProvider)
	svc := NewPaymentService(ms.store, provider, staticRoles{}, nil, testSettings, quietLogger())

	provider.On("CreateSession", mock.Anything, mock.MatchedBy(func(req checkout.SessionRequest) bool {
		return req.AmountMinor == 1999 &&
			req.Currency == "usd" &&
			req.ProductName == "Books" &&
			req.CustomerEmail == "amina@zap.example" &&
			req.Metadata["parcelId"] == "p1" &&
			req.SuccessURL == "https://zap.example/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}" &&
			req.CancelURL == "https://zap.example/dashboard/payment-cancelled"
	})).Return(&checkout.Session{ID: "cs_1", URL: "https://pay.example/cs_1"}, nil)

	url, err := svc.CreateCheckoutSession(context.Background(), CheckoutRequest{
		ParcelID: "p1", ParcelName: "Books", SenderEmail: "Amina@zap.example", Cost: decimal.RequireFromString("19.99"),
	}, false)

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_1", url)
	provider.AssertExpectations(t)
}

func TestPaymentService_LegacyCheckoutOmitsSessionID(t *testing.T) {
	ms := newMockStore()
	provider := new(MockProvider)
	svc := NewPaymentService(ms.store, provider, staticRoles{}, nil, testSettings, quietLogger())

	provider.On("CreateSession", mock.Anything, mock.MatchedBy(func(req checkout.SessionRequest) bool {
		return req.SuccessURL == "https://zap.example/dashboard/payment-success"
	})).Return(&checkout.Session{ID: "cs_2", URL: "https://pay.example/cs_2"}, nil)

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutRequest{
		ParcelID: "p1", SenderEmail: "amina@zap.example", Cost: decimal.NewFromInt(10),
	}, true)

	require.NoError(t, err)
}

func TestPaymentService_CreateCheckoutSessionValidates(t *testing.T) {
	svc := NewPaymentService(newMockStore().store, new(MockProvider), staticRoles{}, nil, testSettings, quietLogger())

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutRequest{ParcelID: "p1", SenderEmail: "a@zap.example"}, false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateCheckoutSession(context.Background(), CheckoutRequest{Cost: decimal.NewFromInt(5)}, false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPaymentService_ConfirmRecordsPaymentOnce(t *testing.T) {
	ms := newMockStore()
	provider := new(MockProvider)
	pub := &recordingPublisher{}
	svc := NewPaymentService(ms.store, provider, staticRoles{}, pub, testSettings, quietLogger())

	provider.On("RetrieveSession", mock.Anything, "cs_1").Return(paidSession(), nil)
	ms.payments.On("FindByTransactionID", mock.Anything, "pi_123").Return(nil, repository.ErrNotFound).Once()
	ms.parcels.On("FindByID", mock.Anything, "p1").Return(&model.Parcel{ID: "p1", ParcelName: "Books"}, nil)
	ms.parcels.On("MarkPaid", mock.Anything, "p1", mock.AnythingOfType("string")).Return(nil)
	ms.payments.On("Create", mock.Anything, mock.AnythingOfType("*model.Payment")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Payment).ID = "pay1"
	}).Return(nil)

	conf, err := svc.ConfirmPayment(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.True(t, conf.Success)
	assert.False(t, conf.AlreadyProcessed)
	assert.Equal(t, "pi_123", conf.TransactionID)
	assert.Equal(t, "pay1", conf.PaymentID)
	assert.Regexp(t, regexp.MustCompile(`^ZAP-\d{8}-[0-9A-F]{8}$`), conf.TrackingID)
	assert.Equal(t, 1, ms.tx.calls)

	created := ms.payments.Calls[1].Arguments.Get(1).(*model.Payment)
	assert.True(t, decimal.RequireFromString("150.50").Equal(created.Amount))
	assert.Equal(t, model.PaymentStatusPaid, created.PaymentStatus)
	assert.Equal(t, conf.TrackingID, created.TrackingID)
	ms.parcels.AssertCalled(t, "MarkPaid", mock.Anything, "p1", conf.TrackingID)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, "pi_123", published[0].(events.ParcelPaid).TransactionID)

	// second confirmation of the same session sees the stored record
	ms.payments.On("FindByTransactionID", mock.Anything, "pi_123").Return(&model.Payment{
		ID: "pay1", TransactionID: "pi_123", TrackingID: conf.TrackingID, ParcelID: "p1",
	}, nil)

	again, err := svc.ConfirmPayment(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.True(t, again.AlreadyProcessed)
	assert.Equal(t, conf.TrackingID, again.TrackingID)
	ms.payments.AssertNumberOfCalls(t, "Create", 1)
	assert.Len(t, pub.published(), 1)
}

func TestPaymentService_ConfirmReusesExistingTrackingID(t *testing.T) {
	ms := newMockStore()
	provider := new(MockProvider)
	svc := NewPaymentService(ms.store, provider, staticRoles{}, nil, testSettings, quietLogger())

	provider.On("RetrieveSession", mock.Anything, "cs_1").Return(paidSession(), nil)
	ms.payments.On("FindByTransactionID", mock.Anything, "pi_123").Return(nil, repository.ErrNotFound)
	ms.parcels.On("FindByID", mock.Anything, "p1").Return(&model.Parcel{ID: "p1", TrackingID: "ZAP-20250101-DEADBEEF"}, nil)
	ms.parcels.On("MarkPaid", mock.Anything, "p1", "ZAP-20250101-DEADBEEF").Return(nil)
	ms.payments.On("Create", mock.Anything, mock.Anything).Return(nil)

	conf, err := svc.ConfirmPayment(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.Equal(t, "ZAP-20250101-DEADBEEF", conf.TrackingID)
}

func TestPaymentService_ConfirmUnpaidSessionWritesNothing(t *testing.T) {
	ms := newMockStore()
	provider := new(MockProvider)
	svc := NewPaymentService(ms.store, provider, staticRoles{}, nil, testSettings, quietLogger())

	session := paidSession()
	session.PaymentStatus = "unpaid"
	provider.On("RetrieveSession", mock.Anything, "cs_1").Return(session, nil)
	ms.payments.On("FindByTransactionID", mock.Anything, "pi_123").Return(nil, repository.ErrNotFound)

	conf, err := svc.ConfirmPayment(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.False(t, conf.Success)
	assert.Zero(t, ms.tx.calls)
	ms.parcels.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentService_ConfirmMissingParcelID(t *testing.T) {
	ms := newMockStore()
	provider := new(MockProvider)
	svc := NewPaymentService(ms.store, provider, staticRoles{}, nil, testSettings, quietLogger())

	session := paidSession()
	session.Metadata = map[string]string{}
	provider.On("RetrieveSession", mock.Anything, "cs_1").Return(session, nil)
	ms.payments.On("FindByTransactionID", mock.Anything, "pi_123").Return(nil, repository.ErrNotFound)

	conf, err := svc.ConfirmPayment(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.False(t, conf.Success)
}

func TestPaymentService_ConfirmDuplicateInsertIsAlreadyProcessed(t *testing.T) {
	ms := newMockStore()
	provider := new(MockProvider)
	pub := &recordingPublisher{}
	svc := NewPaymentService(ms.store, provider, staticRoles{}, pub, testSettings, quietLogger())

	provider.On("RetrieveSession", mock.Anything, "cs_1").Return(paidSession(), nil)
	ms.payments.On("FindByTransactionID", mock.Anything, "pi_123").Return(nil, repository.ErrNotFound).Once()
	ms.parcels.On("FindByID", mock.Anything, "p1").Return(&model.Parcel{ID: "p1"}, nil)
	ms.parcels.On("MarkPaid", mock.Anything, "p1", mock.Anything).Return(nil)
	ms.payments.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
	ms.payments.On("FindByTransactionID", mock.Anything, "pi_123").Return(&model.Payment{
		ID: "pay0", TransactionID: "pi_123", TrackingID: "ZAP-20250101-00000001",
	}, nil)

	conf, err := svc.ConfirmPayment(context.Background(), "cs_1")

	require.NoError(t, err)
	assert.True(t, conf.AlreadyProcessed)
	assert.Equal(t, "ZAP-20250101-00000001", conf.TrackingID)
	assert.Empty(t, pub.published())
}

func TestPaymentService_ConfirmFailures(t *testing.T) {
	ms := newMockStore()
	provider := new(MockProvider)
	svc := NewPaymentService(ms.store, provider, staticRoles{}, nil, testSettings, quietLogger())
	ctx := context.Background()

	provider.On("RetrieveSession", mock.Anything, "cs_bad").Return(nil, errors.New("no such checkout.session"))
	provider.On("RetrieveSession", mock.Anything, "cs_1").Return(paidSession(), nil)
	ms.payments.On("FindByTransactionID", mock.Anything, "pi_123").Return(nil, repository.ErrNotFound)
	ms.parcels.On("FindByID", mock.Anything, "p1").Return(nil, repository.ErrNotFound)

	_, err := svc.ConfirmPayment(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.ConfirmPayment(ctx, "cs_bad")
	assert.EqualError(t, err, "retrieve checkout session: no such checkout.session")

	_, err = svc.ConfirmPayment(ctx, "cs_1")
	assert.ErrorIs(t, err, apperrors.ErrParcelNotFound)
	ms.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentService_ListScopesToCaller(t *testing.T) {
	ms := newMockStore()
	svc := NewPaymentService(ms.store, new(MockProvider), staticRoles{"admin@zap.example": model.RoleAdmin}, nil, testSettings, quietLogger())
	ctx := context.Background()

	ms.payments.On("List", mock.Anything, repository.PaymentFilter{CustomerEmail: "amina@zap.example"}).Return([]model.Payment{{ID: "pay1"}}, nil)
	ms.payments.On("List", mock.Anything, repository.PaymentFilter{}).Return([]model.Payment{{ID: "pay1"}, {ID: "pay2"}}, nil)

	mine, err := svc.List(ctx, "amina@zap.example", "Amina@zap.example")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	mine, err = svc.List(ctx, "amina@zap.example", "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(ctx, "admin@zap.example", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(ctx, "amina@zap.example", "someone@zap.example")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestPaymentService_Delete(t *testing.T) {
	ms := newMockStore()
	svc := NewPaymentService(ms.store, new(MockProvider), staticRoles{}, nil, testSettings, quietLogger())

	ms.payments.On("Delete", mock.Anything, "gone").Return(repository.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), "gone"), apperrors.ErrPaymentNotFound)
}

func TestPaymentService_ConfirmFailedLookupsLeaveNoLocks(t *testing.T) {
	ms := newMockStore()
	provider := new(MockProvider)
	svc := NewPaymentService(ms.store, provider, staticRoles{}, nil, testSettings, quietLogger())

	provider.On("RetrieveSession", mock.Anything, mock.Anything).Return(nil, errors.New("no such checkout.session"))

	for i := 0; i < 1000; i++ {
		_, err := svc.ConfirmPayment(context.Background(), fmt.Sprintf("cs_bogus_%d", i))
		require.Error(t, err)
	}

	assert.Zero(t, svc.(*paymentService).sessionLocks.held())
}
