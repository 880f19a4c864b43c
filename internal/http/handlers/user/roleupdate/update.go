// Package roleupdate обрабатывает назначение и снятие роли администратора.
// Один обработчик обслуживает оба маршрута, целевая роль задается при
// регистрации маршрута.
package roleupdate

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
)

// Response содержит количество обновленных записей.
type Response struct {
	Modified int64 `json:"modified"`
}

// Service описывает интерфейс изменения роли.
type Service interface {
	SetRole(ctx context.Context, id int64, role string) (int64, error)
}

// Handler обрабатывает запросы изменения роли.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service
	role    string // Целевая роль, назначаемая этим маршрутом
}

// New создает новый экземпляр Handler, назначающий роль role.
func New(log *slog.Logger, service Service, role string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		role:    role,
	}
}

// ServeHTTP godoc
// @Summary Изменить роль пользователя
// @Description Устанавливает роль пользователя по идентификатору
// @Tags Users
// @Produce  json
// @Param id path int true "Идентификатор пользователя"
// @Success 200 {object} Response "Количество обновленных записей"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /users/{id}/make-admin [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.roleupdate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("role", h.role),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	modified, err := h.service.SetRole(r.Context(), id, h.role)
	if err != nil {
		log.Error("failed to update role", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("role updated", slog.Int64("id", id), slog.Int64("modified", modified))
	render.JSON(w, r, Response{Modified: modified})
}
