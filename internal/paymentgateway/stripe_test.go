package paymentgateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v76"
)

func TestNew_SetsGlobalKey(t *testing.T) {
	client := New("sk_test_123")

	assert.NotNil(t, client)
	assert.Equal(t, "sk_test_123", client.secretKey)
	assert.Equal(t, "sk_test_123", stripe.Key)
}
