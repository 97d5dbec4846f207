package router

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	"zapshift/internal/auth"
	"zapshift/internal/config"
	"zapshift/internal/handler"
	appmiddleware "zapshift/internal/middleware"
	"zapshift/internal/service"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Users    *handler.UserHandler
	Riders   *handler.RiderHandler
	Parcels  *handler.ParcelHandler
	Payments *handler.PaymentHandler
	Health   *handler.HealthHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	h Handlers,
	verifier auth.Verifier,
	roles service.RoleLookup,
	logger *log.Logger,
) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", h.Health.Root)
	e.GET("/healthz", h.Health.Healthz)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	identity := appmiddleware.Identity(verifier)
	admin := appmiddleware.RequireAdmin(roles, logger)

	// Users
	e.GET("/users", h.Users.ListUsers)
	e.GET("/users/:email/role", h.Users.GetUserRole)
	e.POST("/users", h.Users.RegisterUser)
	e.PATCH("/users/:email", h.Users.UpdateProfile)
	e.PATCH("/users/:id/role", h.Users.UpdateUserRole, identity, admin)
	e.DELETE("/users/:id", h.Users.DeleteUser, identity, admin)

	// Riders
	e.GET("/riders", h.Riders.ListRiders)
	e.POST("/riders", h.Riders.ApplyRider)
	e.PATCH("/riders/:id/role", h.Riders.UpdateRiderStatus, identity, admin)
	e.DELETE("/riders/:id", h.Riders.DeleteRider, identity, admin)

	// Parcels
	e.GET("/parcels", h.Parcels.ListParcels)
	e.GET("/parcels/:id", h.Parcels.GetParcel)
	e.POST("/parcels", h.Parcels.CreateParcel)
	e.PATCH("/parcels/:id", h.Parcels.AssignRider)
	e.PATCH("/parcels/:id/status", h.Parcels.UpdateDeliveryStatus)
	e.DELETE("/parcels/:id", h.Parcels.DeleteParcel, identity)

	// Payments
	e.POST("/payment-checkout-session", h.Payments.CreatePaymentCheckoutSession)
	e.POST("/create-checkout-session", h.Payments.CreateCheckoutSession)
	e.PATCH("/payment-success", h.Payments.ConfirmPayment)
	e.GET("/payments", h.Payments.ListPayments, identity)
	e.DELETE("/payments/:id", h.Payments.DeletePayment, identity, admin)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
