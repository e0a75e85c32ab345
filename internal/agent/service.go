// Package agent orchestrates one conversational turn: assistant reply,
// transcript bookkeeping, and the proof-triggered order finalization path.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/wisetee/orderline-backend/internal/alerts"
	"github.com/wisetee/orderline-backend/internal/conversation"
	"github.com/wisetee/orderline-backend/internal/extraction"
	"github.com/wisetee/orderline-backend/internal/orders"
	"github.com/wisetee/orderline-backend/pkg/config"
	"github.com/wisetee/orderline-backend/pkg/enums"
	pkgerrors "github.com/wisetee/orderline-backend/pkg/errors"
	"github.com/wisetee/orderline-backend/pkg/logger"
	"github.com/wisetee/orderline-backend/pkg/metrics"
)

const (
	turnKindChat  = "chat"
	turnKindProof = "proof"

	// proofUploadedNote stands in for the assistant half of the proof turn
	// when the extractor scans the transcript.
	proofUploadedNote = "Payment proof uploaded."

	confirmationTemplate = "Thank you! Your payment proof has been received. Your order number is **%s**. The business owner will verify the payment shortly and process your order."
)

// TurnInput is one inbound customer message.
type TurnInput struct {
	ConversationID string
	Content        string
	ImageURL       string
	Source         string
}

// TurnResult carries the reply and, on the proof path, the order number
// that was created.
type TurnResult struct {
	ConversationID string
	Reply          string
	OrderNumber    string
}

type replier interface {
	Reply(ctx context.Context, history []conversation.Exchange, userContent string) string
}

// Service drives conversational turns.
type Service interface {
	Turn(ctx context.Context, input TurnInput) (*TurnResult, error)
}

type service struct {
	responder     replier
	store         conversation.Store
	ledger        orders.Service
	alerts        alerts.Dispatcher
	log           *logger.Logger
	metrics       *metrics.AgentMetrics
	complaintInfo string
}

// NewService wires the turn orchestrator.
func NewService(
	responder replier,
	store conversation.Store,
	ledger orders.Service,
	dispatcher alerts.Dispatcher,
	cfg config.AgentConfig,
	log *logger.Logger,
	agentMetrics *metrics.AgentMetrics,
) (Service, error) {
	if responder == nil {
		return nil, fmt.Errorf("responder required")
	}
	if store == nil {
		return nil, fmt.Errorf("conversation store required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("order ledger required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("alert dispatcher required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		responder:     responder,
		store:         store,
		ledger:        ledger,
		alerts:        dispatcher,
		log:           log,
		metrics:       agentMetrics,
		complaintInfo: cfg.ComplaintInfo,
	}, nil
}

// Turn handles one inbound message. A plain message gets an assistant
// reply; a message carrying a proof image additionally creates and
// finalizes the order extracted from the transcript, replacing the
// assistant reply with the confirmation template.
func (s *service) Turn(ctx context.Context, input TurnInput) (*TurnResult, error) {
	if input.ConversationID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation id required")
	}
	ctx = s.log.WithConversationID(ctx, input.ConversationID)

	kind := turnKindChat
	if input.ImageURL != "" {
		kind = turnKindProof
	}
	start := time.Now()
	defer func() {
		s.metrics.ObserveTurn(kind, time.Since(start))
	}()

	history, err := s.store.History(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}

	reply := s.responder.Reply(ctx, history, input.Content)

	result := &TurnResult{ConversationID: input.ConversationID}
	if input.ImageURL != "" {
		reply, result.OrderNumber, err = s.finalizeFromProof(ctx, history, input)
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.Append(ctx, input.ConversationID, conversation.Exchange{
		User:      input.Content,
		Assistant: reply,
	}); err != nil {
		return nil, err
	}

	result.Reply = reply
	return result, nil
}

// finalizeFromProof runs the proof path: extract slots from the transcript
// plus the current turn, place and finalize the order, alert the owner,
// and build the confirmation reply. A slot-validation failure turns into a
// clarification reply and persists nothing.
func (s *service) finalizeFromProof(ctx context.Context, history []conversation.Exchange, input TurnInput) (string, string, error) {
	scanned := append(append([]conversation.Exchange(nil), history...), conversation.Exchange{
		User:      input.Content,
		Assistant: proofUploadedNote,
	})
	entities := extraction.Extract(scanned)

	requested := string(enums.PaymentMethodAuto)
	if entities.PaymentMethod != nil {
		requested = string(*entities.PaymentMethod)
	}

	placement, err := s.ledger.Place(ctx, orders.PlaceInput{
		Item:            entities.Item,
		CustomerName:    entities.CustomerName,
		Address:         entities.Address,
		Email:           entities.Email,
		PhoneNumber:     entities.PhoneNumber,
		PriceOverride:   entities.Price,
		RequestedMethod: requested,
		SourceWebsite:   input.Source,
		OrderNumber:     orders.NewOrderNumber(),
	})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			return pkgerrors.As(err).Message(), "", nil
		}
		return "", "", err
	}

	orderNumber := placement.Order.OrderNumber
	if err := s.ledger.Finalize(ctx, orderNumber, input.ImageURL); err != nil {
		return "", "", err
	}

	s.alerts.OrderConfirmed(ctx, placement.Order, input.ImageURL)

	reply := fmt.Sprintf(confirmationTemplate, orderNumber)
	if s.complaintInfo != "" {
		reply += "\n\n" + s.complaintInfo
	}
	return reply, orderNumber, nil
}
