package extraction

import (
	"testing"

	"github.com/wisetee/orderline-backend/internal/conversation"
	"github.com/wisetee/orderline-backend/pkg/enums"
)

func history(utterances ...string) []conversation.Exchange {
	out := make([]conversation.Exchange, 0, len(utterances))
	for _, u := range utterances {
		out = append(out, conversation.Exchange{User: u, Assistant: "noted"})
	}
	return out
}

func TestExtractPhoneNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "local format", text: "call me on 08012345678 please", want: "08012345678"},
		{name: "international with plus", text: "my number is +234 801 2345678", want: "+234 801 2345678"},
		{name: "dotted separators", text: "reach me at 234.801.23456", want: "234.801.23456"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(history(tt.text))
			if got.PhoneNumber == nil {
				t.Fatalf("expected phone %q, got nil", tt.want)
			}
			if *got.PhoneNumber != tt.want {
				t.Fatalf("expected phone %q, got %q", tt.want, *got.PhoneNumber)
			}
		})
	}
}

func TestExtractPhoneNumberAbsent(t *testing.T) {
	got := Extract(history("no digits here at all"))
	if got.PhoneNumber != nil {
		t.Fatalf("expected nil phone, got %q", *got.PhoneNumber)
	}
}

func TestExtractPriceFirstMatchWins(t *testing.T) {
	got := Extract(history("the pizza costs $25.50 or maybe 30"))
	if got.Price == nil || *got.Price != 25.50 {
		t.Fatalf("expected first price 25.50, got %v", got.Price)
	}
}

func TestExtractAddressTakesLastTrigger(t *testing.T) {
	got := Extract(history(
		"deliver to 1 Old Lane somewhere",
		"actually deliver to 12 Broad St please",
	))
	if got.Address == nil {
		t.Fatal("expected an address")
	}
	if *got.Address != "12 broad st" {
		t.Fatalf("expected three tokens after the last trigger, got %q", *got.Address)
	}
}

func TestExtractAddressAlternateTrigger(t *testing.T) {
	got := Extract(history("my address is 4 Marina Road Lagos"))
	if got.Address == nil || *got.Address != "4 marina road" {
		t.Fatalf("unexpected address %v", got.Address)
	}
}

func TestExtractEmail(t *testing.T) {
	got := Extract(history("reach me at Asha.Bello@example.com thanks"))
	if got.Email == nil || *got.Email != "asha.bello@example.com" {
		t.Fatalf("unexpected email %v", got.Email)
	}
}

func TestExtractPaymentMethodPrecedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want enums.PaymentMethod
	}{
		{name: "bank beats paystack", text: "I want paystack but bank transfer works too", want: enums.PaymentMethodBank},
		{name: "bank keyword alone", text: "I'll do a transfer", want: enums.PaymentMethodBank},
		{name: "bank name keyword", text: "pay from my fidelity account", want: enums.PaymentMethodBank},
		{name: "paystack", text: "use paystack", want: enums.PaymentMethodPaystack},
		{name: "paypal", text: "use paypal", want: enums.PaymentMethodPayPal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(history(tt.text))
			if got.PaymentMethod == nil {
				t.Fatalf("expected method %s, got nil", tt.want)
			}
			if *got.PaymentMethod != tt.want {
				t.Fatalf("expected method %s, got %s", tt.want, *got.PaymentMethod)
			}
		})
	}
}

func TestExtractPaymentMethodAbsent(t *testing.T) {
	got := Extract(history("I'd like to order a pizza"))
	if got.PaymentMethod != nil {
		t.Fatalf("expected nil method, got %s", *got.PaymentMethod)
	}
}

func TestExtractItemVocabulary(t *testing.T) {
	got := Extract(history("one pizza please"))
	if got.Item == nil || *got.Item != "Pizza" {
		t.Fatalf("unexpected item %v", got.Item)
	}

	got = Extract(history("I need a new laptop"))
	if got.Item == nil || *got.Item != "Laptop" {
		t.Fatalf("unexpected item %v", got.Item)
	}

	got = Extract(history("a premium widget please"))
	if got.Item == nil || *got.Item != "premium widget" {
		t.Fatalf("unexpected item %v", got.Item)
	}

	got = Extract(history("a bag of sand"))
	if got.Item != nil {
		t.Fatalf("items outside the vocabulary must be absent, got %q", *got.Item)
	}
}

func TestExtractNeverDerivesCustomerName(t *testing.T) {
	got := Extract(history("my name is Asha and I want pizza"))
	if got.CustomerName != nil {
		t.Fatalf("customer name must not be derived, got %q", *got.CustomerName)
	}
}

func TestExtractDeterministic(t *testing.T) {
	h := history("deliver to 12 Broad St", "pizza and bank transfer", "call 08012345678")
	first := Extract(h)
	second := Extract(h)

	if *first.Item != *second.Item || *first.Address != *second.Address ||
		*first.PhoneNumber != *second.PhoneNumber || *first.PaymentMethod != *second.PaymentMethod {
		t.Fatal("identical history must extract identical entities")
	}
}
