package conversation

import "context"

// DefaultCapacity bounds the number of exchanges kept per conversation.
const DefaultCapacity = 10

// Exchange is one user utterance and the assistant reply it produced.
type Exchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Store keeps a bounded transcript per conversation id. When a transcript
// exceeds its capacity the oldest exchange is evicted first.
type Store interface {
	Append(ctx context.Context, conversationID string, exchange Exchange) error
	History(ctx context.Context, conversationID string) ([]Exchange, error)
}
