package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dailyscope/billing-service/internal/models"
)

const paymentColumns = `id, amount, currency, email, transaction_id, payment_method, paid_at, entitlement_synced`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	p := &models.Payment{}
	if err := row.Scan(&p.ID, &p.Amount, &p.Currency, &p.Email,
		&p.TransactionID, &p.PaymentMethod, &p.PaidAt, &p.EntitlementSynced); err != nil {
		return nil, err
	}
	return p, nil
}

// RecordPayment сохраняет запись о завершенном платеже. Вставка идемпотентна
// по transaction_id: повторный отчет о той же транзакции не создает дубликат,
// вместо этого возвращается идентификатор существующей записи и false.
func (s *Storage) RecordPayment(ctx context.Context, payment models.Payment) (int64, bool, error) {
	const op = "storage.RecordPayment"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (amount, currency, email, transaction_id, payment_method, paid_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (transaction_id) DO NOTHING
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		payment.Amount, payment.Currency, payment.Email,
		payment.TransactionID, payment.PaymentMethod, payment.PaidAt).Scan(&newID)
	if err == nil {
		return newID, true, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}

	// Транзакция уже записана, возвращаем существующий идентификатор.
	query = `SELECT id FROM payments WHERE transaction_id = $1`
	var existingID int64
	if err := s.DB.QueryRowContext(ctx, query, payment.TransactionID).Scan(&existingID); err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return existingID, false, nil
}

// MarkEntitlementSynced отмечает, что подписка пользователя обновлена
// по платежу с данным идентификатором.
func (s *Storage) MarkEntitlementSynced(ctx context.Context, id int64) error {
	const op = "storage.MarkEntitlementSynced"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments SET entitlement_synced = TRUE WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPayments возвращает записи о платежах, отсортированные по времени
// оплаты от новых к старым. Пустой email означает отсутствие фильтра.
func (s *Storage) ListPayments(ctx context.Context, email string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + ` FROM payments
			  WHERE $1 = '' OR email = $1
			  ORDER BY paid_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPayment возвращает запись о платеже по идентификатору.
// Отсутствие записи не считается ошибкой, возвращается false.
func (s *Storage) GetPayment(ctx context.Context, id int64) (*models.Payment, bool, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return p, true, nil
}
