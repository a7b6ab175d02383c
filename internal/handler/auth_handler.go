package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"passvault/internal/errors"
	"passvault/internal/logging"
	"passvault/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	log         logging.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.authService.Register(ctx, req.Email, req.Password); err != nil {
		return failure(ctx, h.log, "register", err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "User created successfully"})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	ctx := c.Request().Context()
	token, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		// unknown email and wrong secret both answer 400 on this route
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "User not found",
				Code:  "USER_NOT_FOUND",
			})
		}
		if stderrors.Is(err, errors.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "Invalid password",
				Code:  "INVALID_CREDENTIALS",
			})
		}
		return failure(ctx, h.log, "login", err)
	}

	return c.JSON(http.StatusOK, LoginResponse{Token: token})
}
