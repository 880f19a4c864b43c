// Package paymentgateway реализует адаптер к платежному процессору Stripe.
// Сервис создает платежное намерение и отдает клиенту client secret;
// подтверждение платежа происходит на стороне клиента, сервис о нем
// узнает только из последующего отчета на POST /payments.
package paymentgateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// DefaultCurrency используется, когда клиент не указал валюту.
const DefaultCurrency = "usd"

// Client обертывает клиент Stripe для создания платежных намерений.
type Client struct {
	secretKey string
}

// New настраивает глобальный ключ Stripe и возвращает клиент.
func New(secretKey string) *Client {
	stripe.Key = secretKey
	return &Client{secretKey: secretKey}
}

// CreateIntent создает платежное намерение на сумму в минимальных единицах
// валюты, ограниченное картами, и возвращает client secret для завершения
// платежа на стороне клиента.
func (c *Client) CreateIntent(ctx context.Context, amountInCent int64, currency string) (string, error) {
	const op = "paymentgateway.CreateIntent"

	if currency == "" {
		currency = DefaultCurrency
	}

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:             stripe.Int64(amountInCent),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return pi.ClientSecret, nil
}
