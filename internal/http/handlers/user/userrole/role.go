// Package userrole обрабатывает чтение роли пользователя по email.
package userrole

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/dailyscope/billing-service/internal/http/response"
	"github.com/dailyscope/billing-service/internal/lib/sl"
	"github.com/dailyscope/billing-service/internal/storage/repository"
)

// Response содержит роль пользователя.
type Response struct {
	Role string `json:"role"`
}

// Service описывает интерфейс чтения роли.
type Service interface {
	GetRole(ctx context.Context, email string) (string, error)
}

// Handler обрабатывает запросы чтения роли.
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
// @Summary Получить роль пользователя
// @Description Возвращает роль пользователя по email
// @Tags Users
// @Produce  json
// @Param email query string true "Email пользователя"
// @Success 200 {object} Response "Роль пользователя"
// @Failure 400 {object} response.ErrorResponse "Отсутствует параметр email"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /users/role [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.role"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")
	if email == "" {
		log.Error("email query param is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email query param is required"))
		return
	}

	role, err := h.service.GetRole(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("user not found", slog.String("email", email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to fetch role", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	render.JSON(w, r, Response{Role: role})
}
