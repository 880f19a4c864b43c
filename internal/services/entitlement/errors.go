package entitlement

import (
	"errors"
	"fmt"
)

// ErrInvalidReport возвращается, когда отчет о платеже структурно неполон.
var ErrInvalidReport = errors.New("invalid payment report")

// ErrLedgerWrite возвращается, когда запись в журнал платежей не удалась.
// Подписка пользователя при этом гарантированно не изменялась.
var ErrLedgerWrite = errors.New("ledger write failed")

// SyncError сообщает о частичном отказе: платеж записан в журнал,
// но обновление подписки пользователя не прошло. PaymentID позволяет
// оператору найти запись журнала и довести синхронизацию до конца.
type SyncError struct {
	PaymentID int64
	Err       error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("payment %d recorded but entitlement update failed: %v", e.PaymentID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
