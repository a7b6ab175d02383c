package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"passvault/internal/auth"
	"passvault/internal/handler"
	"passvault/internal/logging"
	"passvault/internal/telemetry"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	log logging.Logger,
	verifier auth.TokenVerifier,
	authHandler *handler.AuthHandler,
	entryHandler *handler.EntryHandler,
	passwordHandler *handler.PasswordHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(telemetry.Middleware())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.GET("/generate-password", passwordHandler.Generate)
	api.POST("/check-password", passwordHandler.Check)

	// Secured routes (require bearer token)
	secured := api.Group("", auth.Middleware(verifier))
	secured.POST("/passwords", entryHandler.AddEntry)
	secured.GET("/passwords", entryHandler.ListEntries)
	secured.DELETE("/passwords/:id", entryHandler.DeleteEntry)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
