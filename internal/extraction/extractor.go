// Package extraction pulls order slots out of a conversation transcript.
// Matching is regex/keyword based and deliberately simple: the assistant
// prompt steers customers toward phrasings these rules catch.
package extraction

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wisetee/orderline-backend/internal/conversation"
	"github.com/wisetee/orderline-backend/pkg/enums"
)

// Entities are the order slots recoverable from a transcript. Nil pointers
// mean the slot was not mentioned.
type Entities struct {
	Item          *string
	Price         *float64
	CustomerName  *string
	Address       *string
	Email         *string
	PaymentMethod *enums.PaymentMethod
	PhoneNumber   *string
}

var (
	phoneRe = regexp.MustCompile(`\+?\d{1,3}[-.\s()]*?\d{3,4}[-.\s()]*?\d{4,9}`)
	priceRe = regexp.MustCompile(`[$€]?\s*(\d+(\.\d{1,2})?)`)
	emailRe = regexp.MustCompile(`\b[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}\b`)
)

// addressTriggers are scanned in order; the text after the LAST occurrence
// of the first matching trigger supplies the address tokens.
var addressTriggers = []string{"deliver to", "my address is"}

// bankKeywords force the bank method even when a provider name also appears.
var bankKeywords = []string{"bank", "transfer", "fidelity"}

// itemVocabulary maps transcript keywords to canonical item names. Extend
// here when the catalog grows.
var itemVocabulary = []struct {
	keyword string
	item    string
}{
	{"pizza", "Pizza"},
	{"laptop", "Laptop"},
	{"premium widget", "premium widget"},
	{"widget", "widget"},
}

// Extract scans the transcript and returns every slot it can recover.
// Pure and deterministic: identical history always yields identical output.
// Customer names are never derived here; finalized orders from the automated
// path carry no name until the owner follows up.
func Extract(history []conversation.Exchange) Entities {
	var parts []string
	for _, exchange := range history {
		parts = append(parts, exchange.User, exchange.Assistant)
	}
	fullText := strings.ToLower(strings.Join(parts, " "))

	var out Entities

	if m := phoneRe.FindString(fullText); m != "" {
		phone := strings.TrimSpace(m)
		out.PhoneNumber = &phone
	}

	if m := priceRe.FindStringSubmatch(fullText); m != nil {
		if value, err := strconv.ParseFloat(m[1], 64); err == nil {
			out.Price = &value
		}
	}

	for _, trigger := range addressTriggers {
		if !strings.Contains(fullText, trigger) {
			continue
		}
		segments := strings.Split(fullText, trigger)
		tokens := strings.Fields(segments[len(segments)-1])
		if len(tokens) > 3 {
			tokens = tokens[:3]
		}
		if len(tokens) > 0 {
			address := strings.Join(tokens, " ")
			out.Address = &address
		}
		break
	}

	if m := emailRe.FindString(fullText); m != "" {
		email := m
		out.Email = &email
	}

	if method := matchPaymentMethod(fullText); method != "" {
		out.PaymentMethod = &method
	}

	for _, entry := range itemVocabulary {
		if strings.Contains(fullText, entry.keyword) {
			item := entry.item
			out.Item = &item
			break
		}
	}

	return out
}

func matchPaymentMethod(fullText string) enums.PaymentMethod {
	for _, keyword := range bankKeywords {
		if strings.Contains(fullText, keyword) {
			return enums.PaymentMethodBank
		}
	}
	if strings.Contains(fullText, "paystack") {
		return enums.PaymentMethodPaystack
	}
	if strings.Contains(fullText, "paypal") {
		return enums.PaymentMethodPayPal
	}
	return ""
}
