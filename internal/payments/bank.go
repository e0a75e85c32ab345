package payments

import (
	"context"
	"fmt"

	"github.com/wisetee/orderline-backend/pkg/config"
	"github.com/wisetee/orderline-backend/pkg/enums"
)

// bankNotConfigured is shown instead of account details when the bank
// config is absent. Bank transfer degrades, it never errors.
const bankNotConfigured = "Bank transfer details are not configured yet. Please contact us directly to complete payment."

// BankProvider renders a static transfer-instruction block from config.
type BankProvider struct {
	cfg config.BankConfig
}

// NewBankProvider builds the bank provider. Missing configuration is
// allowed; the provider degrades to a sentinel message.
func NewBankProvider(cfg config.BankConfig) *BankProvider {
	return &BankProvider{cfg: cfg}
}

func (p *BankProvider) Method() enums.PaymentMethod {
	return enums.PaymentMethodBank
}

func (p *BankProvider) IssueCheckout(_ context.Context, _ CheckoutRequest) (string, error) {
	if !p.cfg.Enabled() {
		return bankNotConfigured, nil
	}
	return fmt.Sprintf("Pay via Bank Transfer:\nBank: %s\nAccount Name: %s\nAccount Number: %s",
		p.cfg.BankName, p.cfg.AccountName, p.cfg.AccountNumber), nil
}
