// Package intentcreate обрабатывает создание платежного намерения у процессора.
package intentcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dailyscope/billing-service/internal/http/response"
	"github.com/dailyscope/billing-service/internal/lib/sl"
)

// Request представляет запрос на создание платежного намерения.
// Сумма задается в минимальных единицах валюты.
type Request struct {
	AmountInCent int64  `json:"amountInCent" validate:"required,gt=0"`
	Currency     string `json:"currency"`
}

// Response содержит client secret для завершения платежа на стороне клиента.
type Response struct {
	ClientSecret string `json:"clientSecret"`
}

// Gateway определяет интерфейс для работы с платежным процессором.
type Gateway interface {
	CreateIntent(ctx context.Context, amountInCent int64, currency string) (string, error)
}

// Handler обрабатывает запросы на создание платежных намерений.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	gateway  Gateway             // Адаптер платежного процессора
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, gateway Gateway) *Handler {
	return &Handler{
		log:      log,
		gateway:  gateway,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платежное намерение
// @Description Создает платежное намерение у процессора и возвращает client secret
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Сумма в минимальных единицах валюты"
// @Success 200 {object} Response "Платежное намерение создано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или сумма"
// @Failure 500 {object} response.ErrorResponse "Ошибка платежного процессора"
// @Router /create-payment-intent [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.intentcreate"
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

	clientSecret, err := h.gateway.CreateIntent(r.Context(), req.AmountInCent, req.Currency)
	if err != nil {
		log.Error("failed to create payment intent", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		// Текст ошибки процессора пробрасывается клиенту.
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	log.Info("payment intent created", slog.Int64("amount", req.AmountInCent))
	render.JSON(w, r, Response{ClientSecret: clientSecret})
}
