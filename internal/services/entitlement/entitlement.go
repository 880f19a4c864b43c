// Package entitlement реализует синхронизатор подписки: по отчету клиента
// о завершенном платеже он записывает платеж в журнал и обновляет подписку
// пользователя. Это две отдельные записи в два отдельных набора данных без
// общей транзакции, поэтому порядок фиксирован: сначала журнал, затем
// подписка. Запись журнала является точкой фиксации факта платежа;
// несинхронизированная подписка восстановима по журналу, обратный порядок
// привел бы к невидимой потере выручки.
package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dailyscope/billing-service/internal/models"
)

// Repository определяет методы хранилища, нужные синхронизатору.
type Repository interface {
	// RecordPayment идемпотентно записывает платеж, false при повторе.
	RecordPayment(ctx context.Context, payment models.Payment) (int64, bool, error)
	// UpdateEntitlement обновляет подписку, ноль если email не найден.
	UpdateEntitlement(ctx context.Context, email string, subscribe *string, premiumExpiresAt *time.Time) (int64, error)
	// MarkEntitlementSynced отмечает журнал после успешного обновления.
	MarkEntitlementSynced(ctx context.Context, id int64) error
}

// Publisher публикует события для фонового согласования.
type Publisher interface {
	PublishPendingSync(event any) error
}

// PendingSyncEvent описывает платеж, по которому подписка пользователя
// еще не обновлена. EventID позволяет консьюмеру отбрасывать повторные
// доставки при at-least-once семантике брокера.
type PendingSyncEvent struct {
	EventID          string     `json:"event_id"`
	PaymentID        int64      `json:"payment_id"`
	Email            string     `json:"email"`
	Subscribe        *string    `json:"subscribe"`
	PremiumExpiresAt *time.Time `json:"premium_expires_at"`
}

// Result описывает исход обработки отчета о платеже.
type Result struct {
	PaymentID int64 // Идентификатор записи журнала
	Updated   bool  // Подписка пользователя была обновлена
	Duplicate bool  // Отчет оказался повтором уже записанной транзакции
}

// Service реализует синхронизатор подписки.
type Service struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// Process обрабатывает отчет о завершенном платеже.
//
// Порядок шагов обязателен: запись журнала строго раньше обновления подписки.
// Если журнал записать не удалось, возвращается ErrLedgerWrite и подписка
// не изменяется. Если обновление подписки не прошло после успешной записи
// журнала, возвращается *SyncError с идентификатором записи и публикуется
// событие согласования. Result.Updated равен false, когда email не совпал
// ни с одним пользователем: запись журнала при этом существует, и вызывающая
// сторона обязана уметь различать этот случай.
func (s *Service) Process(ctx context.Context, report models.PaymentReport) (*Result, error) {
	if report.Email == "" || report.TransactionID == "" || report.Amount <= 0 {
		return nil, ErrInvalidReport
	}
	email := strings.ToLower(report.Email)

	payment := models.Payment{
		Amount:        report.Amount,
		Currency:      report.Currency,
		Email:         email,
		TransactionID: report.TransactionID,
		PaymentMethod: report.PaymentMethod,
		PaidAt:        report.PaidAt,
	}

	paymentID, inserted, err := s.repo.RecordPayment(ctx, payment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	if !inserted {
		s.log.Info("duplicate payment report, reusing ledger entry",
			slog.String("transaction_id", report.TransactionID),
			slog.Int64("payment_id", paymentID))
	}

	modified, err := s.repo.UpdateEntitlement(ctx, email, report.Subscribe, report.PremiumExpiresAt)
	if err != nil {
		s.publishPendingSync(PendingSyncEvent{
			PaymentID:        paymentID,
			Email:            email,
			Subscribe:        report.Subscribe,
			PremiumExpiresAt: report.PremiumExpiresAt,
		})
		return nil, &SyncError{PaymentID: paymentID, Err: err}
	}

	if modified == 0 {
		s.log.Warn("payment recorded for unknown email",
			slog.String("email", email), slog.Int64("payment_id", paymentID))
	} else {
		if err := s.repo.MarkEntitlementSynced(ctx, paymentID); err != nil {
			s.log.Warn("failed to mark ledger entry as synced",
				slog.Int64("payment_id", paymentID), slog.Any("err", err))
		}
	}

	return &Result{
		PaymentID: paymentID,
		Updated:   modified > 0,
		Duplicate: !inserted,
	}, nil
}

func (s *Service) publishPendingSync(event PendingSyncEvent) {
	event.EventID = uuid.NewString()
	if err := s.publisher.PublishPendingSync(event); err != nil {
		// Ошибка HTTP-ответа уже несет идентификатор записи журнала,
		// поэтому отказ публикации только логируется.
		s.log.Error("failed to publish pending sync event",
			slog.Int64("payment_id", event.PaymentID), slog.Any("err", err))
	}
}
