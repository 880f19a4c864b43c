package userrole

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dailyscope/billing-service/internal/storage/repository"
)

// MockService реализует интерфейс userrole.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetRole(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRoleHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "роль найдена",
			url:  "/users/role?email=ava@x.com",
			setupMock: func(m *MockService) {
				m.On("GetRole", mock.Anything, "ava@x.com").Return("user", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"role":"user"}`,
		},
		{
			name:           "отсутствует параметр email",
			url:            "/users/role",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `email query param is required`,
		},
		{
			name: "пользователь не найден",
			url:  "/users/role?email=ghost@x.com",
			setupMock: func(m *MockService) {
				m.On("GetRole", mock.Anything, "ghost@x.com").
					Return("", repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `user not found`,
		},
		{
			name: "ошибка хранилища",
			url:  "/users/role?email=ava@x.com",
			setupMock: func(m *MockService) {
				m.On("GetRole", mock.Anything, "ava@x.com").
					Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `internal server error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
