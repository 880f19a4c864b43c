package paymentread

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dailyscope/billing-service/internal/models"
)

// MockService реализует интерфейс paymentread.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, id int64) (*models.Payment, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Payment), args.Bool(1), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPaymentReadHandler(t *testing.T) {
	paidAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "платеж найден",
			id:   "5",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(5)).Return(&models.Payment{
					ID: 5, Amount: 999, Currency: "usd", Email: "buyer@example.com",
					TransactionID: "tx_005", PaymentMethod: "card", PaidAt: paidAt,
				}, true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"transactionId":"tx_005"`,
		},
		{
			name: "платеж не найден возвращает null",
			id:   "99",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(99)).Return(nil, false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `null`,
		},
		{
			name:           "некорректный идентификатор",
			id:             "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid payment id`,
		},
		{
			name: "ошибка чтения журнала",
			id:   "5",
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, int64(5)).
					Return(nil, false, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to fetch payment record`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodGet, "/payments/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
