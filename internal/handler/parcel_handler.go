package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"zapshift/internal/middleware"
	"zapshift/internal/model"
	"zapshift/internal/repository"
	"zapshift/internal/service"
)

// ParcelHandler serves the parcel registry.
type ParcelHandler struct {
	svc service.ParcelService
}

// NewParcelHandler creates a new parcel handler.
func NewParcelHandler(svc service.ParcelService) *ParcelHandler {
	return &ParcelHandler{svc: svc}
}

// AssignRiderRequest names the rider taking a parcel. Name and email
// default to the rider application's.
type AssignRiderRequest struct {
	RiderID    string `json:"riderId" validate:"required"`
	RiderName  string `json:"riderName"`
	RiderEmail string `json:"riderEmail" validate:"omitempty,email"`
}

// DeliveryStatusRequest sets the delivery stage of a parcel.
type DeliveryStatusRequest struct {
	DeliveryStatus string `json:"deliveryStatus" validate:"required"`
}

// ListParcels godoc
// @Summary List parcels
// @Description role=rider requires riderEmail. email is kept as an alias of senderEmail.
// @Tags parcels
// @Produce json
// @Param senderEmail query string false "Sender email"
// @Param email query string false "Sender email (alias)"
// @Param riderEmail query string false "Rider email"
// @Param deliveryStatus query string false "Delivery status"
// @Param role query string false "user or rider"
// @Success 200 {array} model.Parcel
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /parcels [get]
func (h *ParcelHandler) ListParcels(c echo.Context) error {
	sender := c.QueryParam("senderEmail")
	if sender == "" {
		sender = c.QueryParam("email")
	}
	parcels, err := h.svc.List(c.Request().Context(), service.ParcelQuery{
		SenderEmail:    sender,
		RiderEmail:     c.QueryParam("riderEmail"),
		DeliveryStatus: model.DeliveryStatus(c.QueryParam("deliveryStatus")),
		Role:           c.QueryParam("role"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, parcels)
}

// GetParcel godoc
// @Summary Get parcel by id
// @Tags parcels
// @Produce json
// @Param id path string true "Parcel ID"
// @Success 200 {object} model.Parcel
// @Failure 404 {object} errors.ErrorResponse
// @Router /parcels/{id} [get]
func (h *ParcelHandler) GetParcel(c echo.Context) error {
	parcel, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, parcel)
}

// CreateParcel godoc
// @Summary Create parcel
// @Tags parcels
// @Accept json
// @Produce json
// @Param parcel body model.Parcel true "Parcel"
// @Success 201 {object} InsertResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /parcels [post]
func (h *ParcelHandler) CreateParcel(c echo.Context) error {
	var parcel model.Parcel
	if err := bind(c, &parcel); err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), &parcel)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, InsertResult{Acknowledged: true, InsertedID: created.ID})
}

// AssignRider godoc
// @Summary Assign a rider to a parcel
// @Tags parcels
// @Accept json
// @Produce json
// @Param id path string true "Parcel ID"
// @Param assignment body AssignRiderRequest true "Rider"
// @Success 200 {object} UpdateResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /parcels/{id} [patch]
func (h *ParcelHandler) AssignRider(c echo.Context) error {
	var req AssignRiderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	_, err := h.svc.AssignRider(c.Request().Context(), c.Param("id"), repository.RiderAssignment{
		RiderID:    req.RiderID,
		RiderName:  req.RiderName,
		RiderEmail: req.RiderEmail,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updatedOne)
}

// UpdateDeliveryStatus godoc
// @Summary Set delivery status
// @Description Any non-empty value is stored.
// @Tags parcels
// @Accept json
// @Produce json
// @Param id path string true "Parcel ID"
// @Param status body DeliveryStatusRequest true "Status"
// @Success 200 {object} UpdateResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /parcels/{id}/status [patch]
func (h *ParcelHandler) UpdateDeliveryStatus(c echo.Context) error {
	var req DeliveryStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.svc.UpdateDeliveryStatus(c.Request().Context(), c.Param("id"), model.DeliveryStatus(req.DeliveryStatus)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updatedOne)
}

// DeleteParcel godoc
// @Summary Delete a parcel
// @Description Allowed for the sender and for admins.
// @Tags parcels
// @Produce json
// @Security BearerAuth
// @Param id path string true "Parcel ID"
// @Success 200 {object} DeleteResult
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /parcels/{id} [delete]
func (h *ParcelHandler) DeleteParcel(c echo.Context) error {
	var caller string
	if identity := middleware.CurrentIdentity(c); identity != nil {
		caller = identity.Email
	}
	if err := h.svc.Delete(c.Request().Context(), c.Param("id"), caller); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, deletedOne)
}
