package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/pizzapos-backend/api/responses"
	"github.com/angelmondragon/pizzapos-backend/api/validators"
	"github.com/angelmondragon/pizzapos-backend/internal/checkout"
	"github.com/angelmondragon/pizzapos-backend/internal/ledger"
	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/internal/terminal"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/logger"
	"github.com/angelmondragon/pizzapos-backend/pkg/types"
	"github.com/shopspring/decimal"
)

type CheckoutService interface {
	BeginCheckout(ctx context.Context) (checkout.View, error)
	Checkout() (checkout.View, error)
	UpdateCheckout(ctx context.Context, in terminal.CheckoutUpdate) (checkout.View, error)
	ApplyPayment(ctx context.Context, method enums.PaymentMethod, amount decimal.Decimal, cashGiven *decimal.Decimal) (ledger.Part, checkout.View, error)
	RemovePayment(ctx context.Context, index int) (checkout.View, error)
	CancelCheckout(ctx context.Context)
	ConfirmCheckout(ctx context.Context) (orders.Order, error)
}

func BeginCheckout(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}
		view, err := svc.BeginCheckout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func GetCheckout(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}
		view, err := svc.Checkout()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type customerPayload struct {
	Name  string `json:"name" validate:"max=120"`
	Phone string `json:"phone" validate:"max=30"`
}

type updateCheckoutRequest struct {
	OrderType    *string          `json:"order_type"`
	Customer     *customerPayload `json:"customer"`
	Address      *types.Address   `json:"address"`
	Neighborhood *string          `json:"neighborhood"`
	CourierID    *string          `json:"courier_id"`
	SplitPeople  *int             `json:"split_people" validate:"omitempty,min=1,max=50"`
}

func (p updateCheckoutRequest) toUpdate() (terminal.CheckoutUpdate, error) {
	orderType, err := parseOrderType(p.OrderType)
	if err != nil {
		return terminal.CheckoutUpdate{}, err
	}
	update := terminal.CheckoutUpdate{
		OrderType:    orderType,
		Address:      p.Address,
		Neighborhood: p.Neighborhood,
		CourierID:    p.CourierID,
		SplitPeople:  p.SplitPeople,
	}
	if p.Customer != nil {
		update.Customer = &checkout.Customer{
			Name:  validators.SanitizeString(p.Customer.Name, 120),
			Phone: validators.SanitizeString(p.Customer.Phone, 30),
		}
	}
	return update, nil
}

// UpdateCheckout edits order type, customer, address, courier or split; omitted fields are kept.
func UpdateCheckout(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}
		var payload updateCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		update, err := payload.toUpdate()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateCheckout(r.Context(), update)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type addPaymentRequest struct {
	Method    string  `json:"method" validate:"required"`
	Amount    string  `json:"amount" validate:"required"`
	CashGiven *string `json:"cash_given"`
}

type paymentResponse struct {
	Part     ledger.Part     `json:"part"`
	Clamped  bool            `json:"clamped"`
	Change   decimal.Decimal `json:"change"`
	Checkout checkout.View   `json:"checkout"`
}

// AddPayment applies one payment part. Amounts arrive as typed text ("30,00").
func AddPayment(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}
		var payload addPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := parsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amount, err := validators.ParseAmount("amount", payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cashGiven, err := validators.ParseOptionalAmount("cash_given", payload.CashGiven)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, view, err := svc.ApplyPayment(r.Context(), method, amount, cashGiven)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, paymentResponse{
			Part:     part,
			Clamped:  part.Clamped(),
			Change:   part.Change(),
			Checkout: view,
		})
	}
}

func RemovePayment(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}
		index, err := validators.ParseIntParam(r, "index")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemovePayment(r.Context(), index)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CancelCheckout(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}
		svc.CancelCheckout(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}
}

func ConfirmCheckout(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}
		order, err := svc.ConfirmCheckout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
