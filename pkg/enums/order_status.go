package enums

import "fmt"

// OrderStatus describes the allowed values for the orders.status column.
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	// OrderStatusPaymentVerified marks orders whose payment proof landed and
	// that now wait on shipping. Orders never move backwards from here.
	OrderStatusPaymentVerified OrderStatus = "payment_verified_pending_shipping"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPendingPayment,
	OrderStatusPaymentVerified,
}

// IsValid reports whether the value matches the canonical order status enum.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo enforces the monotonic pending -> verified state machine.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return s == OrderStatusPendingPayment && next == OrderStatusPaymentVerified
}

// ParseOrderStatus converts the raw string to OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
