// Package paymentlist обрабатывает чтение журнала платежей.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dailyscope/billing-service/internal/http/response"
	"github.com/dailyscope/billing-service/internal/lib/sl"
	"github.com/dailyscope/billing-service/internal/models"
)

// Service описывает интерфейс чтения журнала платежей.
type Service interface {
	List(ctx context.Context, email string) ([]*models.Payment, error)
}

// Handler обрабатывает запросы списка платежей.
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
// @Summary Список платежей
// @Description Возвращает платежи от новых к старым, опционально по одному email
// @Tags Payments
// @Produce  json
// @Param email query string false "Фильтр по email"
// @Success 200 {array} models.Payment "Список платежей"
// @Failure 500 {object} response.ErrorResponse "Ошибка чтения журнала"
// @Router /payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")

	payments, err := h.service.List(r.Context(), email)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to fetch payment records"))
		return
	}
	if payments == nil {
		payments = []*models.Payment{}
	}

	log.Info("payments listed", slog.Int("count", len(payments)))
	render.JSON(w, r, payments)
}
