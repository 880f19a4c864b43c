// Package payment содержит бизнес-логику чтения журнала платежей.
package payment

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dailyscope/billing-service/internal/models"
)

// Repository определяет методы чтения журнала платежей в хранилище.
type Repository interface {
	// ListPayments возвращает платежи от новых к старым,
	// пустой email означает отсутствие фильтра.
	ListPayments(ctx context.Context, email string) ([]*models.Payment, error)
	// GetPayment возвращает платеж по идентификатору, false если его нет.
	GetPayment(ctx context.Context, id int64) (*models.Payment, bool, error)
}

// PaymentService реализует чтение журнала платежей.
type PaymentService struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр PaymentService.
func New(repo Repository, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo: repo,
		log:  log,
	}
}

// List возвращает записи журнала, при необходимости ограниченные одним email.
func (s *PaymentService) List(ctx context.Context, email string) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, strings.ToLower(email))
}

// Get возвращает запись журнала по идентификатору, false если ее нет.
func (s *PaymentService) Get(ctx context.Context, id int64) (*models.Payment, bool, error) {
	return s.repo.GetPayment(ctx, id)
}
