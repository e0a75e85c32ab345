// Package alerts notifies the business owner about order activity over
// email. Delivery is fire and forget: failures are logged and counted but
// never surfaced to the customer conversation.
package alerts

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sendgrid/rest"
	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wisetee/orderline-backend/pkg/config"
	"github.com/wisetee/orderline-backend/pkg/db/models"
	"github.com/wisetee/orderline-backend/pkg/logger"
	"github.com/wisetee/orderline-backend/pkg/metrics"
)

// Dispatcher sends owner alerts for placed and confirmed orders.
type Dispatcher interface {
	OrderPlaced(ctx context.Context, order *models.Order)
	OrderConfirmed(ctx context.Context, order *models.Order, proofURL string)
}

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type dispatcher struct {
	sender  mailSender
	from    string
	owner   string
	log     *logger.Logger
	metrics *metrics.AgentMetrics
}

type noopDispatcher struct{}

func (noopDispatcher) OrderPlaced(context.Context, *models.Order) {}

func (noopDispatcher) OrderConfirmed(context.Context, *models.Order, string) {}

// NewDispatcher builds the email dispatcher. When SendGrid is not
// configured a no-op dispatcher is returned and alerts are skipped.
func NewDispatcher(cfg config.SendgridConfig, log *logger.Logger, agentMetrics *metrics.AgentMetrics) Dispatcher {
	if !cfg.Enabled() {
		if log != nil {
			log.Warn(context.Background(), "sendgrid not configured, owner alerts disabled")
		}
		return noopDispatcher{}
	}
	return &dispatcher{
		sender:  sendgrid.NewSendClient(cfg.APIKey),
		from:    cfg.FromEmail,
		owner:   cfg.OwnerEmail,
		log:     log,
		metrics: agentMetrics,
	}
}

func (d *dispatcher) OrderPlaced(ctx context.Context, order *models.Order) {
	subject := fmt.Sprintf("New PENDING Order: %s from %s", order.OrderNumber, order.SourceWebsite)
	d.send(ctx, subject, orderSummaryHTML(order, ""))
}

func (d *dispatcher) OrderConfirmed(ctx context.Context, order *models.Order, proofURL string) {
	subject := fmt.Sprintf("Order CONFIRMED: %s from %s", order.OrderNumber, order.SourceWebsite)
	d.send(ctx, subject, orderSummaryHTML(order, proofURL))
}

func (d *dispatcher) send(ctx context.Context, subject, html string) {
	message := mail.NewSingleEmail(
		mail.NewEmail("", d.from),
		subject,
		mail.NewEmail("", d.owner),
		"",
		html,
	)

	resp, err := d.sender.SendWithContext(ctx, message)
	if err != nil {
		d.metrics.IncAlertFailure()
		d.log.Error(ctx, "owner alert failed", err)
		return
	}
	if resp != nil && resp.StatusCode >= http.StatusBadRequest {
		d.metrics.IncAlertFailure()
		d.log.Error(ctx, fmt.Sprintf("owner alert rejected with status %d", resp.StatusCode), nil)
	}
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func orderSummaryHTML(order *models.Order, proofURL string) string {
	var sb strings.Builder
	sb.WriteString("<h3>New Order!</h3>")
	sb.WriteString(fmt.Sprintf("<p><strong>Order Number:</strong> %s</p>", order.OrderNumber))
	sb.WriteString(fmt.Sprintf("<p><strong>Item:</strong> %s</p>", order.Item))
	sb.WriteString(fmt.Sprintf("<p><strong>Customer:</strong> %s</p>", order.CustomerName))
	sb.WriteString(fmt.Sprintf("<p><strong>Phone:</strong> %s</p>", order.PhoneNumber))
	sb.WriteString(fmt.Sprintf("<p><strong>Email:</strong> %s</p>", order.Email))
	sb.WriteString(fmt.Sprintf("<p><strong>Price:</strong> $%s</p>", order.Price.String()))
	sb.WriteString(fmt.Sprintf("<p><strong>Delivery:</strong> %s</p>", order.DeliveryTime))
	sb.WriteString(fmt.Sprintf("<p><strong>Payment:</strong> %s</p>", titleCase(string(order.PaymentMethod))))
	sb.WriteString(fmt.Sprintf("<p><strong>Source:</strong> %s</p>", order.SourceWebsite))
	if proofURL != "" {
		sb.WriteString(fmt.Sprintf(`<p><strong>Payment Proof:</strong> <a href="%s">View Proof Image</a></p>`, proofURL))
	}
	return sb.String()
}
