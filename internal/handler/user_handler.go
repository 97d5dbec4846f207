package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"zapshift/internal/model"
	"zapshift/internal/repository"
	"zapshift/internal/service"
)

// UserHandler serves the user directory.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// RegisterUserRequest is the first sign-in payload.
type RegisterUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required"`
	PhotoURL    string `json:"photoURL"`
	Region      string `json:"region" validate:"required"`
	District    string `json:"district" validate:"required"`
}

// UpdateProfileRequest sets the location of a social-login account.
type UpdateProfileRequest struct {
	Region   string `json:"region"`
	District string `json:"district"`
}

// UpdateRoleRequest names the new role. roleInfo.role is accepted for
// older clients.
type UpdateRoleRequest struct {
	Role     string `json:"role"`
	RoleInfo *struct {
		Role string `json:"role"`
	} `json:"roleInfo,omitempty"`
}

// RoleResponse reports the role held by an email.
type RoleResponse struct {
	Role model.Role `json:"role"`
}

// ListUsers godoc
// @Summary List users
// @Description Owner first, then admins, then everyone else newest first.
// @Tags users
// @Produce json
// @Param email query string false "Exact email"
// @Param search query string false "Substring over name, email, role, region and district"
// @Success 200 {array} model.User
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context(), repository.UserFilter{
		Email:  c.QueryParam("email"),
		Search: c.QueryParam("search"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUserRole godoc
// @Summary Get the role of an email
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} RoleResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{email}/role [get]
func (h *UserHandler) GetUserRole(c echo.Context) error {
	role, err := h.svc.GetRole(c.Request().Context(), c.Param("email"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, RoleResponse{Role: role})
}

// RegisterUser godoc
// @Summary Register user
// @Description Registering an email twice returns "user already exists" with 200.
// @Tags users
// @Accept json
// @Produce json
// @Param user body RegisterUserRequest true "User payload"
// @Success 201 {object} InsertResult
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) RegisterUser(c echo.Context) error {
	var req RegisterUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, created, err := h.svc.Register(c.Request().Context(), &model.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Region:      req.Region,
		District:    req.District,
	})
	if err != nil {
		return respondError(c, err)
	}
	if !created {
		return c.JSON(http.StatusOK, MessageResponse{Message: "user already exists"})
	}
	return c.JSON(http.StatusCreated, InsertResult{Acknowledged: true, InsertedID: user.ID})
}

// UpdateProfile godoc
// @Summary Update region and district
// @Tags users
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Param profile body UpdateProfileRequest true "Location"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{email} [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.svc.UpdateProfile(c.Request().Context(), c.Param("email"), req.Region, req.District); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "User profile updated successfully"})
}

// UpdateUserRole godoc
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param role body UpdateRoleRequest true "New role"
// @Success 200 {object} UpdateResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/role [patch]
func (h *UserHandler) UpdateUserRole(c echo.Context) error {
	var req UpdateRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	role := req.Role
	if role == "" && req.RoleInfo != nil {
		role = req.RoleInfo.Role
	}
	if err := h.svc.UpdateRole(c.Request().Context(), c.Param("id"), model.Role(role)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updatedOne)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} DeleteResult
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, deletedOne)
}
