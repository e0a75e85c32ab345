package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wisetee/orderline-backend/pkg/config"
	"github.com/wisetee/orderline-backend/pkg/enums"
)

const (
	paystackAPIBase = "https://api.paystack.co"
	paystackTimeout = 15 * time.Second

	// Paystack requires an email on every transaction; anonymous chat
	// customers get a placeholder.
	paystackFallbackEmail = "customer@example.com"
)

// PaystackProvider initializes Paystack transactions and returns the hosted
// authorization URL.
type PaystackProvider struct {
	httpClient  *http.Client
	baseURL     string
	secretKey   string
	callbackURL string
}

// NewPaystackProvider builds the Paystack provider. The secret key may be
// absent; IssueCheckout then fails and the caller degrades the reply.
func NewPaystackProvider(cfg config.PaystackConfig) *PaystackProvider {
	return &PaystackProvider{
		httpClient:  &http.Client{Timeout: paystackTimeout},
		baseURL:     paystackAPIBase,
		secretKey:   strings.TrimSpace(cfg.SecretKey),
		callbackURL: cfg.CallbackURL,
	}
}

func (p *PaystackProvider) Method() enums.PaymentMethod {
	return enums.PaymentMethodPaystack
}

type paystackInitRequest struct {
	Amount      int64  `json:"amount"`
	Email       string `json:"email"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url"`
}

type paystackInitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
	} `json:"data"`
}

// IssueCheckout initializes a transaction in kobo, keyed by the order
// number so retries land on the same Paystack reference.
func (p *PaystackProvider) IssueCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	if p.secretKey == "" {
		return "", fmt.Errorf("paystack not configured")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || email == "N/A" {
		email = paystackFallbackEmail
	}

	body, err := json.Marshal(paystackInitRequest{
		Amount:      MinorUnits(req.Amount),
		Email:       email,
		Reference:   req.OrderNumber,
		CallbackURL: p.callbackURL,
	})
	if err != nil {
		return "", fmt.Errorf("marshal paystack request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("paystack request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("paystack http: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("paystack read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paystack status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded paystackInitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode paystack response: %w", err)
	}
	if !decoded.Status || decoded.Data.AuthorizationURL == "" {
		return "", fmt.Errorf("paystack initialize rejected: %s", decoded.Message)
	}
	return decoded.Data.AuthorizationURL, nil
}
