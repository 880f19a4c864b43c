// Package paymentread обрабатывает точечное чтение платежа по идентификатору.
package paymentread

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dailyscope/billing-service/internal/http/response"
	"github.com/dailyscope/billing-service/internal/lib/sl"
	"github.com/dailyscope/billing-service/internal/models"
)

// Service описывает интерфейс чтения журнала платежей.
type Service interface {
	Get(ctx context.Context, id int64) (*models.Payment, bool, error)
}

// Handler обрабатывает запросы чтения платежа.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить платеж
// @Description Возвращает платеж по идентификатору, null если его нет
// @Tags Payments
// @Produce  json
// @Param id path int true "Идентификатор платежа"
// @Success 200 {object} models.Payment "Платеж или null"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения журнала"
// @Router /payments/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payment id"))
		return
	}

	payment, found, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to fetch payment record"))
		return
	}
	if !found {
		// Отсутствие записи не является ошибкой, возвращается null.
		render.JSON(w, r, nil)
		return
	}

	render.JSON(w, r, payment)
}
