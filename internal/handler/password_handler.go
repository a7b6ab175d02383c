package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"passvault/internal/logging"
	"passvault/internal/service"
)

// PasswordHandler serves the unauthenticated generator and breach check.
type PasswordHandler struct {
	passwordService service.PasswordService
	log             logging.Logger
}

// NewPasswordHandler creates a new password handler.
func NewPasswordHandler(passwordService service.PasswordService, log logging.Logger) *PasswordHandler {
	return &PasswordHandler{passwordService: passwordService, log: log}
}

// GenerateResponse carries a generated password.
type GenerateResponse struct {
	Password string `json:"password"`
}

// CheckRequest carries the candidate to look up.
type CheckRequest struct {
	Password string `json:"password" validate:"required"`
}

// Generate godoc
// @Summary Generate a random password
// @Tags passwords
// @Produce json
// @Param length query int false "Length (default 16)"
// @Success 200 {object} GenerateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /generate-password [get]
func (h *PasswordHandler) Generate(c echo.Context) error {
	length, ok := leadingInt(c.QueryParam("length"))
	if !ok || length <= 0 {
		length = service.DefaultLength
	}

	password, err := h.passwordService.Generate(length)
	if err != nil {
		return failure(c.Request().Context(), h.log, "generate password", err)
	}
	return c.JSON(http.StatusOK, GenerateResponse{Password: password})
}

// Check godoc
// @Summary Check a password against the breach database
// @Description Only a split SHA-1 digest of the password leaves the server.
// @Tags passwords
// @Accept json
// @Produce json
// @Param request body CheckRequest true "Candidate"
// @Success 200 {object} service.CheckResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /check-password [post]
func (h *PasswordHandler) Check(c echo.Context) error {
	var req CheckRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error())
	}

	ctx := c.Request().Context()
	res, err := h.passwordService.Check(ctx, req.Password)
	if err != nil {
		return failure(ctx, h.log, "check password", err)
	}
	return c.JSON(http.StatusOK, res)
}

// leadingInt reads an optionally signed integer from the start of s, after
// leading spaces, ignoring whatever follows it ("20abc" is 20). Values past
// service.MaxLength saturate just above it so they stay rejectable.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for ; digits < len(s) && s[digits] >= '0' && s[digits] <= '9'; digits++ {
		if n <= service.MaxLength {
			n = n*10 + int(s[digits]-'0')
		}
	}
	if digits == 0 {
		return 0, false
	}
	if n > service.MaxLength {
		n = service.MaxLength + 1
	}
	if neg {
		n = -n
	}
	return n, true
}
