package payments

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wisetee/orderline-backend/pkg/config"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{amount: "150", want: 15000},
		{amount: "99", want: 9900},
		{amount: "25.50", want: 2550},
		{amount: "0.01", want: 1},
		{amount: "10.005", want: 1001},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			if err != nil {
				t.Fatal(err)
			}
			if got := MinorUnits(amount); got != tt.want {
				t.Fatalf("expected %d minor units, got %d", tt.want, got)
			}
		})
	}
}

func TestBankProviderRendersInstructions(t *testing.T) {
	provider := NewBankProvider(config.BankConfig{
		BankName:      "Fidelity",
		AccountName:   "WiseTee Ltd",
		AccountNumber: "0123456789",
	})

	block, err := provider.IssueCheckout(context.Background(), CheckoutRequest{OrderNumber: "1234567890"})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Fidelity", "WiseTee Ltd", "0123456789", "Bank Transfer"} {
		if !strings.Contains(block, want) {
			t.Fatalf("instruction block missing %q: %s", want, block)
		}
	}
}

func TestBankProviderUnconfiguredNeverErrors(t *testing.T) {
	provider := NewBankProvider(config.BankConfig{})

	block, err := provider.IssueCheckout(context.Background(), CheckoutRequest{OrderNumber: "1234567890"})
	if err != nil {
		t.Fatalf("bank provider must not error, got %v", err)
	}
	if block != bankNotConfigured {
		t.Fatalf("expected the not-configured sentinel, got %q", block)
	}
}
