// Package usersearch обрабатывает поиск пользователей по подстроке email.
package usersearch

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

// Service описывает интерфейс поиска пользователей.
type Service interface {
	Search(ctx context.Context, emailSubstring string) ([]*models.User, error)
}

// Handler обрабатывает запросы поиска пользователей.
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
// @Summary Поиск пользователей
// @Description Возвращает до десяти пользователей, чей email содержит подстроку
// @Tags Users
// @Produce  json
// @Param email query string false "Подстрока email"
// @Success 200 {array} models.User "Найденные пользователи"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.search"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	emailQuery := r.URL.Query().Get("email")

	users, err := h.service.Search(r.Context(), emailQuery)
	if err != nil {
		log.Error("failed to search users", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	log.Info("users found", slog.Int("count", len(users)))
	render.JSON(w, r, users)
}
