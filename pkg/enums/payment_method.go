package enums

import "fmt"

// PaymentMethod describes the checkout rails a customer can pay through.
type PaymentMethod string

const (
	PaymentMethodAuto     PaymentMethod = "auto"
	PaymentMethodBank     PaymentMethod = "bank"
	PaymentMethodPaystack PaymentMethod = "paystack"
	PaymentMethodPayPal   PaymentMethod = "paypal"
	PaymentMethodStripe   PaymentMethod = "stripe"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodAuto,
	PaymentMethodBank,
	PaymentMethodPaystack,
	PaymentMethodPayPal,
	PaymentMethodStripe,
}

// IsValid reports whether the value matches the canonical payment method enum.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsResolved reports whether the method names a concrete provider rather
// than the auto-routing placeholder.
func (m PaymentMethod) IsResolved() bool {
	return m.IsValid() && m != PaymentMethodAuto
}

// ParsePaymentMethod converts the raw string to PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	for _, candidate := range validPaymentMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
