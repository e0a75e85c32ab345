// Package assistant generates conversational replies for the order agent.
// A primary model backend serves every turn; a secondary backend takes over
// only when the primary reports it is unavailable.
package assistant

import (
	"github.com/wisetee/orderline-backend/internal/conversation"
)

// Message roles follow the chat-completion convention.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn handed to a model backend.
type Message struct {
	Role    string
	Content string
}

// systemPrompt steers the model toward collecting every order slot and
// closing out the turn after payment proof arrives.
const systemPrompt = `You are a professional business assistant taking orders. Collect all details (item, price, address, customer name, email, phone number, and payment method).
Available payment methods are PayPal, Paystack, and Bank Transfer.
Once a method is chosen, provide specific details (e.g., a link or account number; for bank transfer show the business bank details to the customer).
After details are provided, the user will upload a payment proof via the website interface.
CRITICAL RULE: Immediately after the user uploads their proof (which the system handles in the backend), you must provide the final confirmation message with the order number. Do not ask any more questions.`

// BuildMessages assembles the prompt for one turn: the standing system
// instructions, the stored transcript in order, then the new user content.
func BuildMessages(history []conversation.Exchange, userContent string) []Message {
	messages := make([]Message, 0, len(history)*2+2)
	messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	for _, exchange := range history {
		messages = append(messages, Message{Role: RoleUser, Content: exchange.User})
		messages = append(messages, Message{Role: RoleAssistant, Content: exchange.Assistant})
	}
	messages = append(messages, Message{Role: RoleUser, Content: userContent})
	return messages
}
