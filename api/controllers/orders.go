package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wisetee/orderline-backend/api/responses"
	"github.com/wisetee/orderline-backend/api/validators"
	"github.com/wisetee/orderline-backend/internal/alerts"
	"github.com/wisetee/orderline-backend/internal/orders"
	pkgerrors "github.com/wisetee/orderline-backend/pkg/errors"
	"github.com/wisetee/orderline-backend/pkg/logger"
)

type createOrderRequest struct {
	Item          string   `json:"item" validate:"required,max=200"`
	CustomerName  *string  `json:"customer_name,omitempty" validate:"omitempty,max=200"`
	Address       string   `json:"address" validate:"required,max=500"`
	Email         *string  `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber   string   `json:"phone_number" validate:"required,max=30"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	PaymentMethod string   `json:"payment_method,omitempty" validate:"omitempty,max=30"`
}

type createOrderResponse struct {
	OrderNumber         string `json:"order_number"`
	Status              string `json:"status"`
	PaymentMethod       string `json:"payment_method"`
	PaymentInstructions string `json:"payment_instructions"`
}

// CreateOrder is the direct intake endpoint: storefront checkout forms can
// place an order without going through the conversational flow. The owner
// gets the pending-order alert here; the confirmed alert fires later when
// the proof turn finalizes the order.
func CreateOrder(ledger orders.Service, dispatcher alerts.Dispatcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := validators.SanitizeString(req.Item, 200)
		address := validators.SanitizeString(req.Address, 500)
		phone := validators.SanitizeString(req.PhoneNumber, 30)

		placement, err := ledger.Place(r.Context(), orders.PlaceInput{
			Item:            &item,
			CustomerName:    req.CustomerName,
			Address:         &address,
			Email:           req.Email,
			PhoneNumber:     &phone,
			PriceOverride:   req.Price,
			RequestedMethod: req.PaymentMethod,
			SourceWebsite:   sourceFromRequest(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if dispatcher != nil {
			dispatcher.OrderPlaced(r.Context(), placement.Order)
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createOrderResponse{
			OrderNumber:         placement.Order.OrderNumber,
			Status:              string(placement.Order.Status),
			PaymentMethod:       string(placement.Order.PaymentMethod),
			PaymentInstructions: placement.Reply,
		})
	}
}

// GetOrder returns a single order by its customer-facing number.
func GetOrder(ledger orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderNumber := strings.TrimSpace(chi.URLParam(r, "orderNumber"))
		if orderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number is required"))
			return
		}

		order, err := ledger.Get(r.Context(), orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}
