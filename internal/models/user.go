// Package models содержит доменные структуры сервиса биллинга:
// пользователя с его статусом подписки и запись о платеже.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователя. Других значений в системе не существует.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет пользователя системы вместе с его статусом подписки.
// Поля Subscribe и PremiumExpiresAt равны nil, когда подписка отсутствует,
// и заполняются только синхронизатором подписки или операцией истечения.
type User struct {
	ID               int64      `json:"id"`               // Идентификатор, назначается хранилищем
	Email            string     `json:"email"`            // Электронная почта, уникальная, хранится в нижнем регистре
	Name             string     `json:"name"`             // Имя пользователя
	Role             string     `json:"role"`             // Роль пользователя, admin или user
	CreatedAt        time.Time  `json:"createdAt"`        // Дата регистрации
	LastLoginAt      time.Time  `json:"lastLoginAt"`      // Дата последнего входа
	Subscribe        *string    `json:"subscribe"`        // Тарифный план подписки
	PremiumExpiresAt *time.Time `json:"premiumExpiresAt"` // Дата истечения оплаченной подписки
}
