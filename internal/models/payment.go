package models

import "time"

// Payment представляет неизменяемую запись о завершенном платеже.
// После вставки запись никогда не модифицируется, за исключением флага
// EntitlementSynced, который отмечает, что подписка пользователя была
// успешно обновлена по этому платежу.
type Payment struct {
	ID                int64     `json:"id"`                // Идентификатор, назначается хранилищем
	Amount            int64     `json:"amount"`            // Сумма в минимальных единицах валюты
	Currency          string    `json:"currency"`          // Валюта платежа
	Email             string    `json:"email"`             // Почта плательщика
	TransactionID     string    `json:"transactionId"`     // Идентификатор транзакции от процессора, уникальный
	PaymentMethod     string    `json:"paymentMethod"`     // Способ оплаты
	PaidAt            time.Time `json:"paidAt"`            // Время завершения платежа
	EntitlementSynced bool      `json:"entitlementSynced"` // Подписка обновлена по этому платежу
}

// PaymentReport описывает отчет клиента о завершенном платеже,
// поступающий на вход синхронизатора подписки.
type PaymentReport struct {
	Amount           int64      // Сумма в минимальных единицах валюты
	Currency         string     // Валюта платежа
	Email            string     // Почта плательщика
	TransactionID    string     // Идентификатор транзакции от процессора
	PaymentMethod    string     // Способ оплаты
	PaidAt           time.Time  // Время завершения платежа
	Subscribe        *string    // Назначаемый тарифный план
	PremiumExpiresAt *time.Time // Назначаемая дата истечения подписки
}
