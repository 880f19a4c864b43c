// Package paymentreport обрабатывает отчеты клиента о завершенных платежах.
//
// Это граница синхронизатора подписки: обработчик валидирует отчет, передает
// его сервису и различает в ответе полный отказ, частичный отказ после записи
// журнала и успех без совпавшего пользователя.
package paymentreport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dailyscope/billing-service/internal/http/response"
	"github.com/dailyscope/billing-service/internal/lib/sl"
	"github.com/dailyscope/billing-service/internal/models"
	"github.com/dailyscope/billing-service/internal/services/entitlement"
)

// Request представляет отчет о завершенном платеже.
type Request struct {
	Amount           int64      `json:"amount" validate:"required,gt=0"`
	Currency         string     `json:"currency" validate:"required"`
	Email            string     `json:"email" validate:"required"`
	TransactionID    string     `json:"transactionId" validate:"required"`
	PaymentMethod    string     `json:"paymentMethod" validate:"required"`
	PaidAt           time.Time  `json:"paidAt" validate:"required"`
	Subscribe        *string    `json:"subscribe"`
	PremiumExpiresAt *time.Time `json:"premiumExpiresAt"`
}

// Response описывает исход обработки отчета.
type Response struct {
	Message   string `json:"message"`
	PaymentID int64  `json:"paymentId"`
	Updated   bool   `json:"updated"`
}

// SyncErrorResponse описывает частичный отказ: платеж записан в журнал,
// но подписка пользователя не обновлена. PaymentID указывает запись журнала.
type SyncErrorResponse struct {
	Error     string `json:"error"`
	PaymentID int64  `json:"paymentId"`
}

// Service описывает интерфейс синхронизатора подписки.
type Service interface {
	Process(ctx context.Context, report models.PaymentReport) (*entitlement.Result, error)
}

// Handler обрабатывает отчеты о завершенных платежах.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Синхронизатор подписки
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сообщить о завершенном платеже
// @Description Записывает платеж в журнал и обновляет подписку пользователя
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Отчет о завершенном платеже"
// @Success 200 {object} Response "Платеж записан"
// @Failure 400 {object} response.ErrorResponse "Некорректный или неполный отчет"
// @Failure 500 {object} SyncErrorResponse "Отказ записи журнала или синхронизации"
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.report"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Process(r.Context(), models.PaymentReport{
		Amount:           req.Amount,
		Currency:         req.Currency,
		Email:            req.Email,
		TransactionID:    req.TransactionID,
		PaymentMethod:    req.PaymentMethod,
		PaidAt:           req.PaidAt,
		Subscribe:        req.Subscribe,
		PremiumExpiresAt: req.PremiumExpiresAt,
	})
	if err != nil {
		var syncErr *entitlement.SyncError
		switch {
		case errors.Is(err, entitlement.ErrInvalidReport):
			log.Error("invalid payment report", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid payment report"))
		case errors.As(err, &syncErr):
			// Платеж уже в журнале, клиент должен видеть его идентификатор.
			log.Error("entitlement sync failed after ledger write", sl.Err(err),
				slog.Int64("payment_id", syncErr.PaymentID))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, SyncErrorResponse{
				Error:     "payment recorded but entitlement update failed",
				PaymentID: syncErr.PaymentID,
			})
		default:
			log.Error("failed to record payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to store payment info"))
		}
		return
	}

	if !result.Updated {
		log.Warn("payment stored for email without matching user",
			slog.String("email", req.Email), slog.Int64("payment_id", result.PaymentID))
	}

	log.Info("payment recorded",
		slog.Int64("payment_id", result.PaymentID),
		slog.Bool("updated", result.Updated),
		slog.Bool("duplicate", result.Duplicate))
	render.JSON(w, r, Response{
		Message:   "payment recorded and entitlement updated",
		PaymentID: result.PaymentID,
		Updated:   result.Updated,
	})
}
