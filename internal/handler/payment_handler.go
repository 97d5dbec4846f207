package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"zapshift/internal/middleware"
	"zapshift/internal/service"
)

// PaymentHandler handles checkout and payment history endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CheckoutSessionRequest starts a hosted checkout for a parcel.
type CheckoutSessionRequest struct {
	ParcelID    string          `json:"parcelId" validate:"required"`
	ParcelName  string          `json:"parcelName"`
	SenderEmail string          `json:"senderEmail" validate:"required,email"`
	Cost        decimal.Decimal `json:"cost" swaggertype:"number"`
}

// CheckoutSessionResponse carries the hosted page to redirect to.
type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

// PaymentSuccessResponse is the reconcile outcome. Message is set to
// "already exists" when the charge had been recorded before.
type PaymentSuccessResponse struct {
	Message       string `json:"message,omitempty"`
	Success       *bool  `json:"success,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	TrackingID    string `json:"trackingId,omitempty"`
	ParcelID      string `json:"parcelId,omitempty"`
	PaymentID     string `json:"paymentId,omitempty"`
}

// CreatePaymentCheckoutSession godoc
// @Summary Create a hosted checkout session
// @Tags payments
// @Accept json
// @Produce json
// @Param request body CheckoutSessionRequest true "Parcel to pay for"
// @Success 200 {object} CheckoutSessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /payment-checkout-session [post]
func (h *PaymentHandler) CreatePaymentCheckoutSession(c echo.Context) error {
	return h.createSession(c, false)
}

// CreateCheckoutSession godoc
// @Summary Create a hosted checkout session (legacy redirect)
// @Description The success redirect carries no session id.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body CheckoutSessionRequest true "Parcel to pay for"
// @Success 200 {object} CheckoutSessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /create-checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(c echo.Context) error {
	return h.createSession(c, true)
}

func (h *PaymentHandler) createSession(c echo.Context, legacy bool) error {
	var req CheckoutSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	url, err := h.paymentService.CreateCheckoutSession(c.Request().Context(), service.CheckoutRequest{
		ParcelID:    req.ParcelID,
		ParcelName:  req.ParcelName,
		SenderEmail: req.SenderEmail,
		Cost:        req.Cost,
	}, legacy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, CheckoutSessionResponse{URL: url})
}

// ConfirmPayment godoc
// @Summary Reconcile a completed checkout
// @Description Safe to repeat; a charge is recorded once.
// @Tags payments
// @Produce json
// @Param session_id query string true "Checkout session id"
// @Success 200 {object} PaymentSuccessResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /payment-success [patch]
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	conf, err := h.paymentService.ConfirmPayment(c.Request().Context(), c.QueryParam("session_id"))
	if err != nil {
		return respondError(c, err)
	}
	if conf.AlreadyProcessed {
		return c.JSON(http.StatusOK, PaymentSuccessResponse{
			Message:       "already exists",
			TransactionID: conf.TransactionID,
			TrackingID:    conf.TrackingID,
		})
	}
	success := conf.Success
	if !success {
		return c.JSON(http.StatusOK, PaymentSuccessResponse{Success: &success})
	}
	return c.JSON(http.StatusOK, PaymentSuccessResponse{
		Success:       &success,
		TransactionID: conf.TransactionID,
		TrackingID:    conf.TrackingID,
		ParcelID:      conf.ParcelID,
		PaymentID:     conf.PaymentID,
	})
}

// ListPayments godoc
// @Summary Payment history
// @Description email must be the caller's own; without it admins see every payment.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param email query string false "Customer email"
// @Success 200 {array} model.Payment
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /payments [get]
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	var caller string
	if identity := middleware.CurrentIdentity(c); identity != nil {
		caller = identity.Email
	}
	payments, err := h.paymentService.List(c.Request().Context(), caller, c.QueryParam("email"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}

// DeletePayment godoc
// @Summary Delete a payment record
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} DeleteResult
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c echo.Context) error {
	if err := h.paymentService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, deletedOne)
}
