package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wisetee/orderline-backend/pkg/enums"
	"github.com/wisetee/orderline-backend/pkg/logger"
	"github.com/wisetee/orderline-backend/pkg/metrics"
)

// defaultRegionMarkers flag source websites whose customers pay through
// Paystack. Matched case-insensitively as substrings.
var defaultRegionMarkers = []string{"ng", "nigeria", "lagos", "abuja"}

// Router resolves the method for an order and delegates checkout issuance
// to the matching provider.
type Router struct {
	providers map[enums.PaymentMethod]Provider
	markers   []string
	log       *logger.Logger
	metrics   *metrics.AgentMetrics
}

// NewRouter indexes the given providers by method.
func NewRouter(log *logger.Logger, agentMetrics *metrics.AgentMetrics, providers ...Provider) (*Router, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	indexed := make(map[enums.PaymentMethod]Provider, len(providers))
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		if _, ok := indexed[provider.Method()]; ok {
			return nil, fmt.Errorf("duplicate provider for method %s", provider.Method())
		}
		indexed[provider.Method()] = provider
	}
	return &Router{
		providers: indexed,
		markers:   defaultRegionMarkers,
		log:       log,
		metrics:   agentMetrics,
	}, nil
}

// Resolve picks the payment method for an order. Explicit methods pass
// through untouched; "auto" (or anything unrecognized) runs the heuristic:
// a regional source website or a provider-branded email selects Paystack,
// a requested string mentioning PayPal selects PayPal, everything else
// lands on Stripe.
func (r *Router) Resolve(requested, sourceWebsite, email string) enums.PaymentMethod {
	normalized := strings.ToLower(strings.TrimSpace(requested))
	if method, err := enums.ParsePaymentMethod(normalized); err == nil && method.IsResolved() {
		return method
	}

	site := strings.ToLower(sourceWebsite)
	for _, marker := range r.markers {
		if strings.Contains(site, marker) {
			return enums.PaymentMethodPaystack
		}
	}
	if strings.Contains(strings.ToLower(email), "paystack") {
		return enums.PaymentMethodPaystack
	}
	if strings.Contains(normalized, "paypal") {
		return enums.PaymentMethodPayPal
	}
	return enums.PaymentMethodStripe
}

// Route resolves the method and issues the checkout reference. Provider
// failures are non-fatal: the resolved method comes back with an empty
// reference and the caller degrades the customer-facing reply.
func (r *Router) Route(ctx context.Context, orderNumber string, amount decimal.Decimal, email, sourceWebsite, requested string) (enums.PaymentMethod, string) {
	method := r.Resolve(requested, sourceWebsite, email)

	provider, ok := r.providers[method]
	if !ok {
		r.log.Warn(ctx, fmt.Sprintf("no provider registered for method %s", method))
		return method, ""
	}

	reference, err := provider.IssueCheckout(ctx, CheckoutRequest{
		OrderNumber: orderNumber,
		Amount:      amount,
		Email:       email,
	})
	if err != nil {
		r.metrics.IncProviderFailure(string(method))
		r.log.Error(ctx, fmt.Sprintf("checkout issuance failed for %s", method), err)
		return method, ""
	}
	return method, reference
}
