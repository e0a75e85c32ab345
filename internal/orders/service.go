// Package orders owns the order ledger: slot validation, pricing, the
// pending → verified state machine, and the payment-instruction reply
// handed back to the customer at placement time.
package orders

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wisetee/orderline-backend/pkg/db/models"
	"github.com/wisetee/orderline-backend/pkg/enums"
	pkgerrors "github.com/wisetee/orderline-backend/pkg/errors"
	"github.com/wisetee/orderline-backend/pkg/logger"
	"github.com/wisetee/orderline-backend/pkg/metrics"
)

// Clarification prompts returned verbatim to the customer when a mandatory
// slot is missing. Nothing is persisted in that case.
const (
	promptMissingItem    = "I need to know what you would like to order before I can proceed."
	promptMissingAddress = "To finalize your order, I need your name and delivery address."
	promptMissingPhone   = "Please provide a valid phone number for delivery."
)

const (
	placeholderValue     = "N/A"
	defaultSourceWebsite = "Unknown"
)

// Pricing and delivery estimation when the conversation never settled on a
// number.
var (
	premiumPrice  = decimal.NewFromInt(150)
	standardPrice = decimal.NewFromInt(99)
)

const (
	urgentDelivery   = "2 hours"
	standardDelivery = "tomorrow 10 AM"
)

// PlaceInput carries the slots recovered from a conversation (or supplied
// directly by the intake API). Nil pointers mean the slot is absent.
type PlaceInput struct {
	Item            *string
	CustomerName    *string
	Address         *string
	Email           *string
	PhoneNumber     *string
	PriceOverride   *float64
	RequestedMethod string
	SourceWebsite   string
	OrderNumber     string
}

// Placement is the outcome of a successful order placement: the persisted
// record plus the payment-instruction reply for the customer.
type Placement struct {
	Order *models.Order
	Reply string
}

type checkoutRouter interface {
	Resolve(requested, sourceWebsite, email string) enums.PaymentMethod
	Route(ctx context.Context, orderNumber string, amount decimal.Decimal, email, sourceWebsite, requested string) (enums.PaymentMethod, string)
}

// Service is the order ledger.
type Service interface {
	Place(ctx context.Context, input PlaceInput) (*Placement, error)
	Finalize(ctx context.Context, orderNumber, proofURL string) error
	Get(ctx context.Context, orderNumber string) (*models.Order, error)
}

type service struct {
	repo    Repository
	router  checkoutRouter
	log     *logger.Logger
	metrics *metrics.AgentMetrics
}

// NewService builds the order ledger service.
func NewService(repo Repository, router checkoutRouter, log *logger.Logger, agentMetrics *metrics.AgentMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if router == nil {
		return nil, fmt.Errorf("payment router required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		router:  router,
		log:     log,
		metrics: agentMetrics,
	}, nil
}

// NewOrderNumber derives a 10-digit customer-facing order number from a
// random UUID.
func NewOrderNumber() string {
	id := uuid.New()
	digits := new(big.Int).SetBytes(id[:]).String()
	if len(digits) > 10 {
		digits = digits[:10]
	}
	return fmt.Sprintf("%010s", digits)
}

// Place validates the mandatory slots, prices the order, persists it as
// pending_payment, and renders payment instructions for the resolved
// method. The record is durable before any provider call is attempted, so
// a provider outage degrades the reply without losing the order.
func (s *service) Place(ctx context.Context, input PlaceInput) (*Placement, error) {
	item := deref(input.Item)
	if item == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, promptMissingItem)
	}
	address := deref(input.Address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, promptMissingAddress)
	}
	phone := deref(input.PhoneNumber)
	if phone == "" || phone == placeholderValue {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, promptMissingPhone)
	}

	price := estimatePrice(item)
	if input.PriceOverride != nil {
		price = decimal.NewFromFloat(*input.PriceOverride)
	}

	email := deref(input.Email)
	if email == "" {
		email = placeholderValue
	}
	customer := deref(input.CustomerName)
	if customer == "" {
		customer = placeholderValue
	}
	source := strings.TrimSpace(input.SourceWebsite)
	if source == "" {
		source = defaultSourceWebsite
	}

	orderNumber := strings.TrimSpace(input.OrderNumber)
	if orderNumber == "" {
		orderNumber = NewOrderNumber()
	}

	method := s.router.Resolve(input.RequestedMethod, source, email)

	order := &models.Order{
		OrderNumber:   orderNumber,
		Item:          item,
		CustomerName:  customer,
		Email:         email,
		PhoneNumber:   phone,
		Address:       address,
		Price:         price,
		DeliveryTime:  estimateDelivery(item),
		Status:        enums.OrderStatusPendingPayment,
		PaymentMethod: method,
		SourceWebsite: source,
	}
	if err := s.repo.Insert(ctx, order); err != nil {
		return nil, err
	}
	s.metrics.IncOrderCreated()

	ctx = s.log.WithOrderNumber(ctx, orderNumber)
	s.log.Info(ctx, fmt.Sprintf("order placed via %s", method))

	_, reference := s.router.Route(ctx, orderNumber, price, email, source, string(method))
	return &Placement{
		Order: order,
		Reply: renderInstructions(order, reference),
	}, nil
}

// Finalize moves an order from pending_payment to verified and records the
// proof URL. Safe under retry: a second call with the same proof is a
// no-op, and the status never regresses.
func (s *service) Finalize(ctx context.Context, orderNumber, proofURL string) error {
	transitioned, err := s.repo.MarkVerified(ctx, orderNumber, proofURL)
	if err != nil {
		return err
	}
	if !transitioned {
		record, err := s.repo.FindByOrderNumber(ctx, orderNumber)
		if err != nil {
			return err
		}
		// Already verified: duplicate proof, nothing more to do.
		if record.Status == enums.OrderStatusPaymentVerified {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}
	s.metrics.IncOrderFinalized()
	s.log.Info(s.log.WithOrderNumber(ctx, orderNumber), "order finalized")
	return nil
}

func (s *service) Get(ctx context.Context, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	return s.repo.FindByOrderNumber(ctx, orderNumber)
}

func estimatePrice(item string) decimal.Decimal {
	if strings.Contains(strings.ToLower(item), "premium") {
		return premiumPrice
	}
	return standardPrice
}

func estimateDelivery(item string) string {
	if strings.Contains(strings.ToLower(item), "urgent") {
		return urgentDelivery
	}
	return standardDelivery
}

// renderInstructions builds the customer-facing payment reply for a placed
// order. A missing checkout reference renders the "Error" placeholder so a
// provider outage never hides the order confirmation.
func renderInstructions(order *models.Order, reference string) string {
	switch order.PaymentMethod {
	case enums.PaymentMethodBank:
		return fmt.Sprintf(`ORDER PLACED!
Order Number: %s
Item: %s
Price: $%s
Delivery: %s
Phone: %s

%s

Please use the upload button below to send your payment proof.`,
			order.OrderNumber, order.Item, order.Price.String(), order.DeliveryTime, order.PhoneNumber, reference)
	case enums.PaymentMethodPaystack:
		return fmt.Sprintf("Pay with Paystack (Card/Bank/Mobile): %s. Please upload proof after paying.", orPlaceholder(reference))
	case enums.PaymentMethodPayPal:
		return fmt.Sprintf("Pay with PayPal: %s. Please upload proof after paying.", orPlaceholder(reference))
	default:
		return fmt.Sprintf("Pay with Card (Global): %s. Please upload proof after paying.", orPlaceholder(reference))
	}
}

func orPlaceholder(reference string) string {
	if reference == "" {
		return "Error"
	}
	return reference
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
