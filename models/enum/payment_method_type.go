package enum

type PaymentMethodType string

const (
	PaymentMethodTypeBankTransfer PaymentMethodType = "bank_transfer"
	PaymentMethodTypeCard         PaymentMethodType = "card"
	PaymentMethodTypeGateway      PaymentMethodType = "gateway"
)

// Redirects reports whether the method completes through a browser redirect to a payment URL.
func (t PaymentMethodType) Redirects() bool {
	return t == PaymentMethodTypeCard || t == PaymentMethodTypeGateway
}
