package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "passvault/internal/errors"
	"passvault/internal/logging"
	"passvault/internal/model"
)

// MockEntryService is a mock implementation of service.EntryService
type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) AddEntry(ctx context.Context, userID uuid.UUID, appName, username, password, category string) (*model.PasswordEntry, error) {
	args := m.Called(ctx, userID, appName, username, password, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordEntry), args.Error(1)
}

func (m *MockEntryService) ListEntries(ctx context.Context, userID uuid.UUID) ([]model.PasswordEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PasswordEntry), args.Error(1)
}

func (m *MockEntryService) DeleteEntry(ctx context.Context, userID uuid.UUID, entryID string) error {
	args := m.Called(ctx, userID, entryID)
	return args.Error(0)
}

type structValidator struct{ v *validator.Validate }

func (s structValidator) Validate(i interface{}) error { return s.v.Struct(i) }

func newContext(method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = structValidator{v: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != uuid.Nil {
		c.Set("userID", userID)
	}
	return c, rec
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected echo.HTTPError, got %v", err)
	return he.Code
}

func TestEntryHandler_AddEntry(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockEntryService)
		wantStatus int
	}{
		{
			name: "created",
			body: `{"appName":"github","username":"octo","password":"pw"}`,
			setupMock: func(m *MockEntryService) {
				entry := model.NewPasswordEntry("github", "octo", "pw", "")
				m.On("AddEntry", mock.Anything, userID, "github", "octo", "pw", "").
					Return(&entry, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing username",
			body:       `{"appName":"github","password":"pw"}`,
			setupMock:  func(m *MockEntryService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "user gone",
			body: `{"appName":"github","username":"octo","password":"pw"}`,
			setupMock: func(m *MockEntryService) {
				m.On("AddEntry", mock.Anything, userID, "github", "octo", "pw", "").
					Return(nil, apperrors.ErrUserNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockEntryService)
			tt.setupMock(svc)
			h := NewEntryHandler(svc, logging.Discard())

			c, rec := newContext(http.MethodPost, "/api/passwords", tt.body, userID)
			err := h.AddEntry(c)

			if tt.wantStatus == http.StatusCreated {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, rec.Code)
				assert.Contains(t, rec.Body.String(), "Password saved successfully")
			} else {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestEntryHandler_InternalErrorIsLoggedAndHidden(t *testing.T) {
	userID := uuid.New()
	svc := new(MockEntryService)
	svc.On("ListEntries", mock.Anything, userID).Return(nil, errors.New("dial tcp: connection refused"))

	var buf bytes.Buffer
	h := NewEntryHandler(svc, logging.New(&buf, "debug"))

	c, _ := newContext(http.MethodGet, "/api/passwords", "", userID)
	err := h.ListEntries(c)

	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.Equal(t, "internal server error", he.Message.(apperrors.ErrorResponse).Error)
	assert.Contains(t, buf.String(), "list entries failed")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestEntryHandler_RequiresUserInContext(t *testing.T) {
	svc := new(MockEntryService)
	h := NewEntryHandler(svc, logging.Discard())

	c, _ := newContext(http.MethodDelete, "/api/passwords/x", "", uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, h.DeleteEntry(c)))
	svc.AssertNotCalled(t, "DeleteEntry", mock.Anything, mock.Anything, mock.Anything)
}
