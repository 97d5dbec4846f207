package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"zapshift/internal/model"
	"zapshift/internal/repository"
	"zapshift/internal/service"
)

// RiderHandler serves rider applications.
type RiderHandler struct {
	svc service.RiderService
}

// NewRiderHandler creates a new rider handler.
func NewRiderHandler(svc service.RiderService) *RiderHandler {
	return &RiderHandler{svc: svc}
}

// RiderStatusRequest is an admin review decision. Email names the user
// account whose role follows the decision.
type RiderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
}

// ListRiders godoc
// @Summary List rider applications
// @Tags riders
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Param district query string false "District, case-insensitive"
// @Param workStatus query string false "available or in-process"
// @Success 200 {array} model.Rider
// @Failure 500 {object} errors.ErrorResponse
// @Router /riders [get]
func (h *RiderHandler) ListRiders(c echo.Context) error {
	riders, err := h.svc.List(c.Request().Context(), repository.RiderFilter{
		Status:     model.RiderStatus(c.QueryParam("status")),
		District:   c.QueryParam("district"),
		WorkStatus: model.WorkStatus(c.QueryParam("workStatus")),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, riders)
}

// ApplyRider godoc
// @Summary Submit a rider application
// @Tags riders
// @Accept json
// @Produce json
// @Param rider body model.Rider true "Application"
// @Success 201 {object} InsertResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /riders [post]
func (h *RiderHandler) ApplyRider(c echo.Context) error {
	var rider model.Rider
	if err := bindAndValidate(c, &rider); err != nil {
		return err
	}
	created, err := h.svc.Apply(c.Request().Context(), &rider)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, InsertResult{Acknowledged: true, InsertedID: created.ID})
}

// UpdateRiderStatus godoc
// @Summary Approve or reject a rider
// @Description Approval makes the account a rider; rejection returns it to user.
// @Description Admin only: a valid identity token alone is not enough.
// @Tags riders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rider ID"
// @Param decision body RiderStatusRequest true "Decision"
// @Success 200 {object} UpdateResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /riders/{id}/role [patch]
func (h *RiderHandler) UpdateRiderStatus(c echo.Context) error {
	var req RiderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), model.RiderStatus(req.Status), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updatedOne)
}

// DeleteRider godoc
// @Summary Delete a rider application
// @Tags riders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Rider ID"
// @Success 200 {object} DeleteResult
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /riders/{id} [delete]
func (h *RiderHandler) DeleteRider(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, deletedOne)
}
