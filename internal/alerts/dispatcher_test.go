package alerts

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"

	"github.com/wisetee/orderline-backend/pkg/config"
	"github.com/wisetee/orderline-backend/pkg/db/models"
	"github.com/wisetee/orderline-backend/pkg/enums"
	"github.com/wisetee/orderline-backend/pkg/logger"
)

type stubSender struct {
	sent []*mail.SGMailV3
	resp *rest.Response
	err  error
}

func (s *stubSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	s.sent = append(s.sent, email)
	return s.resp, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func verifiedOrder() *models.Order {
	return &models.Order{
		OrderNumber:   "1234567890",
		Item:          "Pizza",
		CustomerName:  "N/A",
		Email:         "asha@example.com",
		PhoneNumber:   "08012345678",
		Address:       "12 broad st",
		Price:         decimal.NewFromInt(99),
		DeliveryTime:  "tomorrow 10 AM",
		Status:        enums.OrderStatusPaymentVerified,
		PaymentMethod: enums.PaymentMethodBank,
		SourceWebsite: "Direct",
	}
}

func newTestDispatcher(sender mailSender) *dispatcher {
	return &dispatcher{
		sender: sender,
		from:   "agent@wisetee.example",
		owner:  "owner@wisetee.example",
		log:    testLogger(),
	}
}

func TestOrderConfirmedSubjectAndBody(t *testing.T) {
	sender := &stubSender{resp: &rest.Response{StatusCode: 202}}
	d := newTestDispatcher(sender)

	d.OrderConfirmed(context.Background(), verifiedOrder(), "/static/uploads/proof.png")

	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	email := sender.sent[0]
	if email.Subject != "Order CONFIRMED: 1234567890 from Direct" {
		t.Fatalf("unexpected subject %q", email.Subject)
	}

	var html string
	for _, content := range email.Content {
		if content.Type == "text/html" {
			html = content.Value
		}
	}
	for _, want := range []string{"1234567890", "Pizza", "08012345678", "$99", "Bank", "/static/uploads/proof.png"} {
		if !strings.Contains(html, want) {
			t.Fatalf("email body missing %q: %s", want, html)
		}
	}
}

func TestOrderPlacedSubject(t *testing.T) {
	sender := &stubSender{resp: &rest.Response{StatusCode: 202}}
	d := newTestDispatcher(sender)

	d.OrderPlaced(context.Background(), verifiedOrder())

	if len(sender.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(sender.sent))
	}
	if got := sender.sent[0].Subject; got != "New PENDING Order: 1234567890 from Direct" {
		t.Fatalf("unexpected subject %q", got)
	}
}

func TestDispatchFailureNeverPanicsOrPropagates(t *testing.T) {
	d := newTestDispatcher(&stubSender{err: errors.New("sendgrid down")})

	// Must not panic; there is no error to observe by design.
	d.OrderConfirmed(context.Background(), verifiedOrder(), "/proof.png")
}

func TestNewDispatcherUnconfiguredIsNoop(t *testing.T) {
	d := NewDispatcher(config.SendgridConfig{}, testLogger(), nil)
	if _, ok := d.(noopDispatcher); !ok {
		t.Fatalf("expected noop dispatcher, got %T", d)
	}
	d.OrderConfirmed(context.Background(), verifiedOrder(), "/proof.png")
}
