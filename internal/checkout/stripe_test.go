package checkout

import (
	"testing"

	"github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/assert"
)

func TestFromStripe(t *testing.T) {
	sess := &stripe.CheckoutSession{
		ID:            "cs_test_1",
		URL:           "https://checkout.stripe.com/c/pay/cs_test_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal:   14950,
		Currency:      stripe.CurrencyUSD,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_123"},
		Metadata:      map[string]string{"parcelId": "p1"},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Email: "sender@x.com",
		},
	}

	out := fromStripe(sess)

	assert.Equal(t, "cs_test_1", out.ID)
	assert.Equal(t, PaymentStatusPaid, out.PaymentStatus)
	assert.Equal(t, "pi_123", out.PaymentIntentID)
	assert.Equal(t, int64(14950), out.AmountTotal)
	assert.Equal(t, "usd", out.Currency)
	assert.Equal(t, "sender@x.com", out.CustomerEmail)
	assert.Equal(t, "p1", out.Metadata["parcelId"])
}

func TestFromStripe_Unpaid(t *testing.T) {
	out := fromStripe(&stripe.CheckoutSession{
		ID:            "cs_test_2",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
		CustomerEmail: "sender@x.com",
	})

	assert.Empty(t, out.PaymentIntentID)
	assert.Equal(t, "unpaid", out.PaymentStatus)
	assert.Equal(t, "sender@x.com", out.CustomerEmail)
}
