// Package userexpire обрабатывает истечение подписки пользователя.
// Операция идемпотентна: отсутствие пользователя не является ошибкой.
package userexpire

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

// Request представляет запрос на истечение подписки.
type Request struct {
	Email string `json:"email" validate:"required"`
}

// Response описывает результат операции.
type Response struct {
	Success  bool  `json:"success"`
	Modified int64 `json:"modified"`
}

// Service описывает интерфейс истечения подписки.
type Service interface {
	ExpireSubscription(ctx context.Context, email string) (int64, error)
}

// Handler обрабатывает запросы истечения подписки.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики пользователей
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
// @Summary Сбросить подписку пользователя
// @Description Обнуляет тарифный план и дату истечения подписки
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body Request true "Email пользователя"
// @Success 200 {object} Response "Результат операции"
// @Failure 400 {object} response.ErrorResponse "Отсутствует email"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /users/expire-subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.expire"
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

	modified, err := h.service.ExpireSubscription(r.Context(), req.Email)
	if err != nil {
		log.Error("failed to expire subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to expire subscription"))
		return
	}

	log.Info("subscription expired", slog.String("email", req.Email), slog.Int64("modified", modified))
	render.JSON(w, r, Response{Success: true, Modified: modified})
}
