// Package usercreate реализует HTTP-обработчик создания пользователя
// с семантикой create-or-get: повторный запрос для существующего email
// возвращает существующую запись без изменений со статусом 200.
package usercreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/dailyscope/billing-service/internal/http/response"
	"github.com/dailyscope/billing-service/internal/lib/sl"
	"github.com/dailyscope/billing-service/internal/models"
	userservice "github.com/dailyscope/billing-service/internal/services/user"
)

// Request представляет запрос на создание пользователя.
// Роль и даты необязательны, по умолчанию user и текущее время.
type Request struct {
	Name        string     `json:"name" validate:"required"`
	Email       string     `json:"email" validate:"required"`
	Role        string     `json:"role" validate:"omitempty,oneof=user admin"`
	CreatedAt   *time.Time `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

// Service описывает интерфейс создания пользователя.
type Service interface {
	CreateOrGet(ctx context.Context, req userservice.CreateRequest) (*models.User, bool, error)
}

// Handler обрабатывает запросы на создание пользователей.
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
// @Summary Создать пользователя
// @Description Создает пользователя или возвращает существующего с тем же email
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} models.User "Пользователь создан"
// @Success 200 {object} models.User "Пользователь уже существует"
// @Failure 400 {object} response.ErrorResponse "Отсутствует имя или email"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.create"
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

	user, created, err := h.service.CreateOrGet(r.Context(), userservice.CreateRequest{
		Name:        req.Name,
		Email:       req.Email,
		Role:        req.Role,
		CreatedAt:   req.CreatedAt,
		LastLoginAt: req.LastLoginAt,
	})
	if err != nil {
		log.Error("failed to create user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	if created {
		log.Info("user created", slog.String("email", user.Email))
		w.WriteHeader(http.StatusCreated)
	} else {
		log.Info("user already exists", slog.String("email", user.Email))
	}
	render.JSON(w, r, user)
}
