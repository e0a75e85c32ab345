// Package payments resolves the payment method for an order and issues the
// provider-specific checkout reference the customer pays through.
package payments

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wisetee/orderline-backend/pkg/enums"
)

// CheckoutRequest carries everything a provider needs to issue a checkout
// reference. OrderNumber doubles as the idempotent provider reference.
type CheckoutRequest struct {
	OrderNumber string
	Amount      decimal.Decimal
	Email       string
}

// Provider issues a checkout reference for one payment rail: a URL for the
// hosted providers, an instruction block for bank transfer.
type Provider interface {
	Method() enums.PaymentMethod
	IssueCheckout(ctx context.Context, req CheckoutRequest) (string, error)
}

// MinorUnits converts a decimal amount to the provider's smallest currency
// unit (cents, kobo).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
