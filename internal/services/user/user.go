// Package user содержит бизнес-логику работы с пользователями: создание
// с семантикой create-or-get, поиск, операции с ролью и истечение подписки.
// Email приводится к нижнему регистру на этой границе для всех операций,
// чтобы хранение и поиск использовали одно каноническое написание.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dailyscope/billing-service/internal/models"
)

// Репозиторий пользователей в хранилище.
type Repository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SearchUsersByEmail(ctx context.Context, emailSubstring string, limit int) ([]*models.User, error)
	ExpireSubscription(ctx context.Context, email string) (int64, error)
	SetRole(ctx context.Context, id int64, role string) (string, int64, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// CreateRequest описывает данные для создания пользователя.
// Нулевые значения необязательных полей заменяются значениями по умолчанию.
type CreateRequest struct {
	Name        string
	Email       string
	Role        string
	CreatedAt   *time.Time
	LastLoginAt *time.Time
}

const (
	searchLimit  = 10
	roleCacheTTL = 5 * time.Minute
)

// UserService реализует бизнес-логику работы с пользователями.
type UserService struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр UserService.
func New(repo Repository, cache Cache, log *slog.Logger) *UserService {
	return &UserService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func roleCacheKey(email string) string {
	return "role:" + email
}

// CreateOrGet возвращает существующего пользователя с таким email или
// создает нового с ролью user и текущими датами по умолчанию.
// Второй результат true означает, что запись была создана.
func (s *UserService) CreateOrGet(ctx context.Context, req CreateRequest) (*models.User, bool, error) {
	now := time.Now().UTC()
	user := models.User{
		Email:       strings.ToLower(req.Email),
		Name:        req.Name,
		Role:        req.Role,
		CreatedAt:   now,
		LastLoginAt: now,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if req.CreatedAt != nil {
		user.CreatedAt = *req.CreatedAt
	}
	if req.LastLoginAt != nil {
		user.LastLoginAt = *req.LastLoginAt
	}

	created, isNew, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, false, fmt.Errorf("create or get user: %w", err)
	}
	if isNew {
		s.log.Info("created new user",
			slog.String("email", created.Email), slog.Int64("id", created.ID))
	}
	return created, isNew, nil
}

// Search возвращает не более десяти пользователей, чей email содержит
// подстроку, без учета регистра.
func (s *UserService) Search(ctx context.Context, emailSubstring string) ([]*models.User, error) {
	return s.repo.SearchUsersByEmail(ctx, strings.ToLower(emailSubstring), searchLimit)
}

// GetRole возвращает роль пользователя по email, используя кеш.
func (s *UserService) GetRole(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(email)

	var cached string
	found, err := s.cache.Get(roleCacheKey(email), &cached)
	if err != nil {
		s.log.Warn("role cache read failed", slog.String("email", email), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(roleCacheKey(email), u.Role, roleCacheTTL); err != nil {
		s.log.Warn("failed to cache role", slog.String("email", email), slog.Any("err", err))
	}
	return u.Role, nil
}

// ExpireSubscription сбрасывает подписку пользователя. Операция идемпотентна:
// отсутствие пользователя с таким email не является ошибкой, возвращается ноль.
func (s *UserService) ExpireSubscription(ctx context.Context, email string) (int64, error) {
	modified, err := s.repo.ExpireSubscription(ctx, strings.ToLower(email))
	if err != nil {
		return 0, fmt.Errorf("expire subscription: %w", err)
	}
	s.log.Info("subscription expired",
		slog.String("email", email), slog.Int64("modified", modified))
	return modified, nil
}

// SetRole устанавливает роль пользователя по идентификатору
// и инвалидирует кеш роли для его email.
func (s *UserService) SetRole(ctx context.Context, id int64, role string) (int64, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return 0, fmt.Errorf("unknown role: %s", role)
	}

	email, modified, err := s.repo.SetRole(ctx, id, role)
	if err != nil {
		return 0, fmt.Errorf("set role: %w", err)
	}
	if modified > 0 {
		if err := s.cache.Invalidate(roleCacheKey(email)); err != nil {
			s.log.Warn("failed to invalidate role cache",
				slog.String("email", email), slog.Any("err", err))
		}
	}
	return modified, nil
}
