package models

import "github.com/Jaysins/ohship-tenant-sub001/models/enum"

// PaymentMethod 代表平台支援的支付方式定義
// PaymentMethod is a platform payment method definition.
type PaymentMethod struct {
	ID   string                 `json:"id"`
	Name string                 `json:"name"`
	Code string                 `json:"code"`
	Type enum.PaymentMethodType `json:"type"`
}

// TenantPaymentMethod wraps a method definition with the tenant's enablement and provider.
type TenantPaymentMethod struct {
	ID        string        `json:"id"`
	IsEnabled bool          `json:"is_enabled"`
	Provider  string        `json:"provider"`
	Method    PaymentMethod `json:"payment_method"`
}

// Payer is who the payment is initiated for.
type Payer struct {
	Name  string `json:"payer_name"`
	Email string `json:"payer_email"`
	Phone string `json:"payer_phone"`
}
