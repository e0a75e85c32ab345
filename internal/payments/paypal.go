package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wisetee/orderline-backend/pkg/config"
	"github.com/wisetee/orderline-backend/pkg/enums"
)

const paypalTimeout = 20 * time.Second

// PayPalProvider creates a single-item PayPal payment and returns the
// customer-facing approval link.
type PayPalProvider struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
	returnURL  string
	cancelURL  string
}

// NewPayPalProvider builds the PayPal provider. Missing credentials are
// allowed; IssueCheckout then fails and the caller degrades the reply.
func NewPayPalProvider(cfg config.PayPalConfig) *PayPalProvider {
	return &PayPalProvider{
		httpClient: &http.Client{Timeout: paypalTimeout},
		baseURL:    cfg.BaseURL(),
		clientID:   strings.TrimSpace(cfg.ClientID),
		secret:     strings.TrimSpace(cfg.Secret),
		returnURL:  cfg.ReturnURL,
		cancelURL:  cfg.CancelURL,
	}
}

func (p *PayPalProvider) Method() enums.PaymentMethod {
	return enums.PaymentMethodPayPal
}

type paypalAmount struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type paypalItem struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
	Quantity int    `json:"quantity"`
}

type paypalPaymentRequest struct {
	Intent string `json:"intent"`
	Payer  struct {
		PaymentMethod string `json:"payment_method"`
	} `json:"payer"`
	RedirectURLs struct {
		ReturnURL string `json:"return_url"`
		CancelURL string `json:"cancel_url"`
	} `json:"redirect_urls"`
	Transactions []paypalTransaction `json:"transactions"`
}

type paypalTransaction struct {
	ItemList struct {
		Items []paypalItem `json:"items"`
	} `json:"item_list"`
	Amount      paypalAmount `json:"amount"`
	Description string       `json:"description"`
}

type paypalPaymentResponse struct {
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// IssueCheckout obtains an OAuth token, creates the payment, and returns
// the first approval link.
func (p *PayPalProvider) IssueCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	if p.clientID == "" || p.secret == "" {
		return "", fmt.Errorf("paypal not configured")
	}

	token, err := p.accessToken(ctx)
	if err != nil {
		return "", err
	}

	amount := req.Amount.StringFixed(2)
	payment := paypalPaymentRequest{Intent: "sale"}
	payment.Payer.PaymentMethod = "paypal"
	payment.RedirectURLs.ReturnURL = p.returnURL
	payment.RedirectURLs.CancelURL = p.cancelURL

	tx := paypalTransaction{
		Amount:      paypalAmount{Total: amount, Currency: "USD"},
		Description: fmt.Sprintf("Order %s", req.OrderNumber),
	}
	tx.ItemList.Items = []paypalItem{{
		Name:     req.OrderNumber,
		Price:    amount,
		Currency: "USD",
		Quantity: 1,
	}}
	payment.Transactions = []paypalTransaction{tx}

	body, err := json.Marshal(payment)
	if err != nil {
		return "", fmt.Errorf("marshal paypal payment: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/payments/payment", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("paypal request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("paypal http: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("paypal read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("paypal status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded paypalPaymentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode paypal response: %w", err)
	}
	for _, link := range decoded.Links {
		if link.Rel == "approval_url" {
			return link.Href, nil
		}
	}
	return "", fmt.Errorf("paypal payment has no approval link")
}

func (p *PayPalProvider) accessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("paypal token request: %w", err)
	}
	httpReq.SetBasicAuth(p.clientID, p.secret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("paypal token http: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("paypal token read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token status %d: %s", resp.StatusCode, string(raw))
	}

	var decoded struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("decode paypal token: %w", err)
	}
	if decoded.AccessToken == "" {
		return "", fmt.Errorf("paypal token missing in response")
	}
	return decoded.AccessToken, nil
}
