package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	checkoutsession "github.com/stripe/stripe-go/v84/checkout/session"

	"github.com/wisetee/orderline-backend/pkg/config"
	"github.com/wisetee/orderline-backend/pkg/enums"
)

type checkoutSessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeSessionAPI struct{}

func (stripeSessionAPI) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return checkoutsession.New(params)
}

// StripeProvider creates one-line-item checkout sessions tagged with the
// order number for later reconciliation.
type StripeProvider struct {
	sessions   checkoutSessionCreator
	configured bool
	successURL string
	cancelURL  string
}

// NewStripeProvider builds the Stripe provider. The global key is set by
// the caller at startup; an empty key leaves the provider degraded.
func NewStripeProvider(cfg config.StripeConfig) *StripeProvider {
	if cfg.Enabled() {
		stripe.Key = cfg.APIKey
	}
	return &StripeProvider{
		sessions:   stripeSessionAPI{},
		configured: cfg.Enabled(),
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

func (p *StripeProvider) Method() enums.PaymentMethod {
	return enums.PaymentMethodStripe
}

func (p *StripeProvider) IssueCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	if !p.configured {
		return "", fmt.Errorf("stripe not configured")
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(p.successURL),
		CancelURL:          stripe.String(p.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(MinorUnits(req.Amount)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Order %s", req.OrderNumber)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("order_number", req.OrderNumber)

	session, err := p.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe checkout session: %w", err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("stripe session has no url")
	}
	return session.URL, nil
}
