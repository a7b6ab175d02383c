package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"passvault/internal/auth"
	"passvault/internal/errors"
	"passvault/internal/logging"
	"passvault/internal/model"
	"passvault/internal/service"
)

// EntryHandler serves the authenticated password-entry endpoints.
type EntryHandler struct {
	entryService service.EntryService
	log          logging.Logger
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(entryService service.EntryService, log logging.Logger) *EntryHandler {
	return &EntryHandler{entryService: entryService, log: log}
}

// AddEntryRequest represents a new saved credential.
type AddEntryRequest struct {
	AppName  string `json:"appName" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Category string `json:"category"`
}

// AddEntryResponse echoes the stored entry.
type AddEntryResponse struct {
	Message string              `json:"message"`
	Entry   model.PasswordEntry `json:"entry"`
}

// AddEntry godoc
// @Summary Save a password entry
// @Tags passwords
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddEntryRequest true "Entry"
// @Success 201 {object} AddEntryResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /passwords [post]
func (h *EntryHandler) AddEntry(c echo.Context) error {
	userID, ok := auth.UserID(c)
	if !ok {
		return failure(c.Request().Context(), h.log, "add entry", errors.ErrUnauthenticated)
	}

	var req AddEntryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest("Missing required fields")
	}

	ctx := c.Request().Context()
	entry, err := h.entryService.AddEntry(ctx, userID, req.AppName, req.Username, req.Password, req.Category)
	if err != nil {
		return failure(ctx, h.log, "add entry", err)
	}

	return c.JSON(http.StatusCreated, AddEntryResponse{
		Message: "Password saved successfully",
		Entry:   *entry,
	})
}

// ListEntries godoc
// @Summary List saved password entries
// @Tags passwords
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.PasswordEntry
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /passwords [get]
func (h *EntryHandler) ListEntries(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserID(c)
	if !ok {
		return failure(ctx, h.log, "list entries", errors.ErrUnauthenticated)
	}

	entries, err := h.entryService.ListEntries(ctx, userID)
	if err != nil {
		return failure(ctx, h.log, "list entries", err)
	}
	return c.JSON(http.StatusOK, entries)
}

// DeleteEntry godoc
// @Summary Delete a saved password entry
// @Description Deleting an id that does not exist succeeds without changes.
// @Tags passwords
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /passwords/{id} [delete]
func (h *EntryHandler) DeleteEntry(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := auth.UserID(c)
	if !ok {
		return failure(ctx, h.log, "delete entry", errors.ErrUnauthenticated)
	}

	if err := h.entryService.DeleteEntry(ctx, userID, c.Param("id")); err != nil {
		return failure(ctx, h.log, "delete entry", err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password deleted successfully"})
}
