package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/user-accounts/internal/lib/apperr"
	"github.com/magabrotheeeer/user-accounts/internal/models"
)

type UsersMock struct {
	mock.Mock
}

func (m *UsersMock) RegisterUser(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	created := &models.User{
		ID:           "0b0f6f8e-4d5f-4a8e-9a55-2b9c7c2d1a10",
		Email:        "john@example.com",
		PasswordHash: "$2a$10$hash",
		Role:         models.DefaultRole,
		Status:       models.StatusActive,
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		requestBody    any
		mockUser       *models.User
		mockErr        error
		callsService   bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid registration",
			requestBody:    Request{Email: "john@example.com", Password: "Passw0rd!"},
			mockUser:       created,
			callsService:   true,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "empty body",
			requestBody:    "",
			wantStatusCode: http.StatusBadRequest,
			wantError:      `"email" is required`,
		},
		{
			name:           "invalid email",
			requestBody:    Request{Email: "john", Password: "Passw0rd!"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      `"email" must be a valid email`,
		},
		{
			name:           "weak password",
			requestBody:    Request{Email: "john@example.com", Password: "password1!"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Password must contain at least 1 uppercase letter",
		},
		{
			name:           "email already exists",
			requestBody:    Request{Email: "john@example.com", Password: "Passw0rd!"},
			mockErr:        apperr.AlreadyExists("User with email john@example.com already exists"),
			callsService:   true,
			wantStatusCode: http.StatusConflict,
			wantError:      "User with email john@example.com already exists",
		},
		{
			name:           "internal error",
			requestBody:    Request{Email: "john@example.com", Password: "Passw0rd!"},
			mockErr:        errors.New("db connection lost"),
			callsService:   true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usersMock := new(UsersMock)
			handler := New(newNoopLogger(), usersMock)

			if tt.callsService {
				usersMock.On("RegisterUser", mock.Anything, "john@example.com", "Passw0rd!").
					Return(tt.mockUser, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))

			if tt.wantError != "" {
				assert.Equal(t, map[string]any{"error": tt.wantError}, got)
			} else {
				assert.Equal(t, created.ID, got["id"])
				assert.Equal(t, created.Email, got["email"])
				assert.NotContains(t, got, "passwordHash")
				assert.NotContains(t, got, "error")
			}

			if tt.callsService {
				usersMock.AssertExpectations(t)
			} else {
				usersMock.AssertNotCalled(t, "RegisterUser", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestRegisterHandler_LongMultibytePassword(t *testing.T) {
	// 30 символов, 82 байта.
	pw := "aA1!" + strings.Repeat("漢", 26)

	usersMock := new(UsersMock)
	usersMock.On("RegisterUser", mock.Anything, "john@example.com", pw).
		Return(&models.User{ID: "id-1", Email: "john@example.com"}, nil).Once()

	body, err := json.Marshal(Request{Email: "john@example.com", Password: pw})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	New(newNoopLogger(), usersMock).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	usersMock.AssertExpectations(t)
}
