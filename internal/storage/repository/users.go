package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dailyscope/billing-service/internal/models"
)

const userColumns = `id, email, name, role, created_at, last_login_at, subscribe, premium_expires_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var subscribe sql.NullString
	var premiumExpiresAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt,
		&u.LastLoginAt, &subscribe, &premiumExpiresAt); err != nil {
		return nil, err
	}
	if subscribe.Valid {
		u.Subscribe = &subscribe.String
	}
	if premiumExpiresAt.Valid {
		u.PremiumExpiresAt = &premiumExpiresAt.Time
	}
	return u, nil
}

// CreateUser вставляет нового пользователя или возвращает уже существующего
// с тем же email. Конфликт по уникальному индексу email не считается ошибкой:
// в этом случае возвращается существующая запись без изменений и false.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, bool, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, name, role, created_at, last_login_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (email) DO NOTHING
			  RETURNING ` + userColumns
	created, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.Email, user.Name, user.Role, user.CreatedAt, user.LastLoginAt))
	if err == nil {
		return created, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	// Вставка проиграла конфликт, запись уже есть.
	existing, err := s.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return existing, false, nil
}

// GetUserByEmail возвращает пользователя по точному совпадению email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SearchUsersByEmail возвращает пользователей, чей email содержит подстроку,
// без учета регистра, не более limit записей.
func (s *Storage) SearchUsersByEmail(ctx context.Context, emailSubstring string, limit int) ([]*models.User, error) {
	const op = "storage.SearchUsersByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users
			  WHERE email ILIKE '%' || $1 || '%'
			  ORDER BY id
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, emailSubstring, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateEntitlement устанавливает тарифный план и дату истечения подписки
// пользователя. Возвращает количество обновленных записей: ноль означает,
// что пользователь с таким email не найден.
func (s *Storage) UpdateEntitlement(ctx context.Context, email string, subscribe *string, premiumExpiresAt *time.Time) (int64, error) {
	const op = "storage.UpdateEntitlement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscribe = $1,
			      premium_expires_at = $2
			  WHERE email = $3`
	res, err := s.DB.ExecContext(ctx, query, subscribe, premiumExpiresAt, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	modified, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return modified, nil
}

// ExpireSubscription сбрасывает тарифный план и дату истечения подписки
// в NULL. Отсутствие совпадений не является ошибкой, возвращается ноль.
func (s *Storage) ExpireSubscription(ctx context.Context, email string) (int64, error) {
	const op = "storage.ExpireSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscribe = NULL,
			      premium_expires_at = NULL
			  WHERE email = $1`
	res, err := s.DB.ExecContext(ctx, query, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	modified, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return modified, nil
}

// SetRole устанавливает роль пользователя по его идентификатору.
// Возвращает email обновленного пользователя для инвалидации кеша
// и количество обновленных записей.
func (s *Storage) SetRole(ctx context.Context, id int64, role string) (string, int64, error) {
	const op = "storage.SetRole"
	select {
	case <-ctx.Done():
		return "", 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET role = $1 WHERE id = $2 RETURNING email`
	var email string
	err := s.DB.QueryRowContext(ctx, query, role, id).Scan(&email)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", 0, nil
		}
		return "", 0, fmt.Errorf("%s: %w", op, err)
	}
	return email, 1, nil
}
