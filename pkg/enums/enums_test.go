package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	if !OrderStatusPendingPayment.CanTransitionTo(OrderStatusPaymentVerified) {
		t.Fatal("pending -> verified must be allowed")
	}
	if OrderStatusPaymentVerified.CanTransitionTo(OrderStatusPendingPayment) {
		t.Fatal("verified orders must never regress to pending")
	}
	if OrderStatusPaymentVerified.CanTransitionTo(OrderStatusPaymentVerified) {
		t.Fatal("re-verifying is not a transition")
	}
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("pending_payment")
	if err != nil || got != OrderStatusPendingPayment {
		t.Fatalf("unexpected parse result %v %v", got, err)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestPaymentMethodResolution(t *testing.T) {
	if PaymentMethodAuto.IsResolved() {
		t.Fatal("auto is a placeholder, not a resolved method")
	}
	for _, m := range []PaymentMethod{PaymentMethodBank, PaymentMethodPaystack, PaymentMethodPayPal, PaymentMethodStripe} {
		if !m.IsResolved() {
			t.Fatalf("%s should be resolved", m)
		}
	}
	if _, err := ParsePaymentMethod("bitcoin"); err == nil {
		t.Fatal("expected error for unknown method")
	}
}
