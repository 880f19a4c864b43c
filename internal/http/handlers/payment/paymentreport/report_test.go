package paymentreport

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

	"github.com/dailyscope/billing-service/internal/models"
	"github.com/dailyscope/billing-service/internal/services/entitlement"
)

// MockService реализует интерфейс paymentreport.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Process(ctx context.Context, report models.PaymentReport) (*entitlement.Result, error) {
	args := m.Called(ctx, report)
	if res := args.Get(0); res != nil {
		return res.(*entitlement.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const validBody = `{
	"amount": 500,
	"currency": "usd",
	"email": "ava@x.com",
	"transactionId": "tx1",
	"paymentMethod": "card",
	"paidAt": "2024-01-01T00:00:00Z",
	"subscribe": "monthly",
	"premiumExpiresAt": "2024-02-01T00:00:00Z"
}`

func TestReportHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная запись платежа",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Process", mock.Anything, mock.MatchedBy(func(r models.PaymentReport) bool {
					return r.TransactionID == "tx1" && r.Amount == 500
				})).Return(&entitlement.Result{PaymentID: 7, Updated: true}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"paymentId":7`,
		},
		{
			name: "пользователь с таким email не найден",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Process", mock.Anything, mock.Anything).
					Return(&entitlement.Result{PaymentID: 8, Updated: false}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"updated":false`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"amount": `,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "отчет без email",
			body:           `{"amount":500,"currency":"usd","transactionId":"tx1","paymentMethod":"card","paidAt":"2024-01-01T00:00:00Z"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Email is a required field`,
		},
		{
			name: "отказ записи журнала",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Process", mock.Anything, mock.Anything).
					Return(nil, entitlement.ErrLedgerWrite)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to store payment info`,
		},
		{
			name: "отказ синхронизации после записи журнала",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Process", mock.Anything, mock.Anything).
					Return(nil, &entitlement.SyncError{PaymentID: 42, Err: errors.New("db error")})
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"paymentId":42`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

func TestReportHandler_SyncErrorBodyCarriesLedgerID(t *testing.T) {
	mockService := new(MockService)
	mockService.On("Process", mock.Anything, mock.Anything).
		Return(nil, &entitlement.SyncError{PaymentID: 99, Err: errors.New("db error")})

	handler := New(newNoopLogger(), mockService)

	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(validBody))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"payment recorded but entitlement update failed"`)
	assert.Contains(t, w.Body.String(), `"paymentId":99`)
}
