package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/wisetee/orderline-backend/internal/orders"
	"github.com/wisetee/orderline-backend/pkg/db/models"
	"github.com/wisetee/orderline-backend/pkg/enums"
	pkgerrors "github.com/wisetee/orderline-backend/pkg/errors"
)

type stubLedger struct {
	placement *orders.Placement
	placeErr  error
	order     *models.Order
	getErr    error
	got       orders.PlaceInput
}

func (s *stubLedger) Place(_ context.Context, input orders.PlaceInput) (*orders.Placement, error) {
	s.got = input
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	return s.placement, nil
}

func (s *stubLedger) Finalize(_ context.Context, _, _ string) error {
	return nil
}

func (s *stubLedger) Get(_ context.Context, _ string) (*models.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

type recordingDispatcher struct {
	placed    []*models.Order
	confirmed []*models.Order
}

func (d *recordingDispatcher) OrderPlaced(_ context.Context, order *models.Order) {
	d.placed = append(d.placed, order)
}

func (d *recordingDispatcher) OrderConfirmed(_ context.Context, order *models.Order, _ string) {
	d.confirmed = append(d.confirmed, order)
}

func TestCreateOrderSuccess(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{placement: &orders.Placement{
		Order: &models.Order{
			OrderNumber:   "0000012345",
			Status:        enums.OrderStatusPendingPayment,
			PaymentMethod: enums.PaymentMethodPaystack,
			Price:         decimal.NewFromInt(150),
		},
		Reply: "Pay with Paystack (Card/Bank/Mobile): https://pay.example. Please upload proof after paying.",
	}}

	dispatcher := &recordingDispatcher{}
	body := `{"item":"Premium Widget","address":"12 Broad St Lagos","phone_number":"08012345678","payment_method":"paystack"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Referer", "https://lagos.shop.example")
	resp := httptest.NewRecorder()
	CreateOrder(ledger, dispatcher, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data createOrderResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if envelope.Data.OrderNumber != "0000012345" {
		t.Fatalf("unexpected order number %q", envelope.Data.OrderNumber)
	}
	if envelope.Data.PaymentMethod != string(enums.PaymentMethodPaystack) {
		t.Fatalf("unexpected method %q", envelope.Data.PaymentMethod)
	}
	if !strings.Contains(envelope.Data.PaymentInstructions, "Paystack") {
		t.Fatalf("expected payment instructions, got %q", envelope.Data.PaymentInstructions)
	}

	if ledger.got.Item == nil || *ledger.got.Item != "Premium Widget" {
		t.Fatalf("expected item forwarded, got %+v", ledger.got.Item)
	}
	if ledger.got.RequestedMethod != "paystack" {
		t.Fatalf("expected requested method forwarded, got %q", ledger.got.RequestedMethod)
	}
	if ledger.got.SourceWebsite != "https://lagos.shop.example" {
		t.Fatalf("expected referer as source, got %q", ledger.got.SourceWebsite)
	}

	if len(dispatcher.placed) != 1 || dispatcher.placed[0].OrderNumber != "0000012345" {
		t.Fatalf("expected one placed-order alert, got %+v", dispatcher.placed)
	}
	if len(dispatcher.confirmed) != 0 {
		t.Fatalf("intake must not send the confirmed alert, got %d", len(dispatcher.confirmed))
	}
}

func TestCreateOrderValidation(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{}
	dispatcher := &recordingDispatcher{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"item":"Pizza"}`))
	resp := httptest.NewRecorder()
	CreateOrder(ledger, dispatcher, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if ledger.got.Item != nil {
		t.Fatalf("ledger should not run on invalid input")
	}
	if len(dispatcher.placed) != 0 {
		t.Fatalf("no alert expected for invalid input, got %d", len(dispatcher.placed))
	}
}

func TestCreateOrderMapsServiceError(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{placeErr: pkgerrors.New(pkgerrors.CodeValidation, "Please provide a valid phone number for delivery.")}
	dispatcher := &recordingDispatcher{}
	body := `{"item":"Pizza","address":"12 Broad St","phone_number":"N/A"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	CreateOrder(ledger, dispatcher, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "valid phone number") {
		t.Fatalf("expected clarification message in body: %s", resp.Body.String())
	}
	if len(dispatcher.placed) != 0 {
		t.Fatalf("no alert expected when placement fails, got %d", len(dispatcher.placed))
	}
}

func orderLookupRequest(orderNumber string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderNumber, nil)
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderNumber", orderNumber)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestGetOrderSuccess(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{order: &models.Order{
		OrderNumber:   "0000012345",
		Item:          "Pizza",
		Status:        enums.OrderStatusPaymentVerified,
		PaymentMethod: enums.PaymentMethodBank,
	}}
	resp := httptest.NewRecorder()
	GetOrder(ledger, nil)(resp, orderLookupRequest("0000012345"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if envelope.Data.OrderNumber != "0000012345" || envelope.Data.Item != "Pizza" {
		t.Fatalf("unexpected order payload: %+v", envelope.Data)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	t.Parallel()

	ledger := &stubLedger{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	resp := httptest.NewRecorder()
	GetOrder(ledger, nil)(resp, orderLookupRequest("9999999999"))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
