package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wisetee/orderline-backend/internal/conversation"
	"github.com/wisetee/orderline-backend/pkg/logger"
	"github.com/wisetee/orderline-backend/pkg/metrics"
)

// ErrBackendUnavailable is returned by a Backend when the failure is worth
// falling back over: rate limiting, auth rejection, or a server-side fault.
// Anything else (a cancelled context, a malformed request) is not retried
// against the secondary.
var ErrBackendUnavailable = errors.New("assistant backend unavailable")

// cannedReply covers the case where every backend is down. The transcript
// still records the turn so the customer can simply resend.
const cannedReply = "Sorry, I am having trouble responding right now. Please send your message again in a moment."

// Backend generates one assistant reply from a chat transcript.
type Backend interface {
	Name() string
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Responder drives the primary backend and falls back to the secondary when
// the primary signals ErrBackendUnavailable.
type Responder struct {
	primary   Backend
	secondary Backend
	log       *logger.Logger
	metrics   *metrics.AgentMetrics
}

// NewResponder wires the two-step backend chain. The secondary may be nil
// when no fallback model is configured.
func NewResponder(primary Backend, secondary Backend, log *logger.Logger, agentMetrics *metrics.AgentMetrics) (*Responder, error) {
	if primary == nil {
		return nil, fmt.Errorf("primary backend required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Responder{
		primary:   primary,
		secondary: secondary,
		log:       log,
		metrics:   agentMetrics,
	}, nil
}

// Reply generates the assistant's next utterance for the conversation.
// When no backend can serve the turn, a canned reply is returned instead of
// an error so the conversation stays alive.
func (r *Responder) Reply(ctx context.Context, history []conversation.Exchange, userContent string) string {
	messages := BuildMessages(history, userContent)

	reply, err := r.primary.Complete(ctx, messages)
	if err == nil {
		return strings.TrimSpace(reply)
	}

	r.metrics.IncProviderFailure(r.primary.Name())
	if !errors.Is(err, ErrBackendUnavailable) || r.secondary == nil {
		r.log.Error(ctx, "assistant reply failed", err)
		return cannedReply
	}

	r.log.Warn(ctx, fmt.Sprintf("%s unavailable, falling back to %s", r.primary.Name(), r.secondary.Name()))
	r.metrics.IncAIFallback()

	reply, err = r.secondary.Complete(ctx, messages)
	if err != nil {
		r.metrics.IncProviderFailure(r.secondary.Name())
		r.log.Error(ctx, "fallback assistant reply failed", err)
		return cannedReply
	}
	return strings.TrimSpace(reply)
}
