package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/pizzapos-backend/api/responses"
	"github.com/angelmondragon/pizzapos-backend/api/validators"
	"github.com/angelmondragon/pizzapos-backend/internal/customers"
	"github.com/angelmondragon/pizzapos-backend/internal/fiscal"
	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/logger"
	"github.com/angelmondragon/pizzapos-backend/pkg/pagination"
	"github.com/google/uuid"
)

type OrdersService interface {
	Orders(filter orders.Filter) ([]orders.Order, orders.Totals)
	Order(id uuid.UUID) (orders.Order, error)
	Receipt(id uuid.UUID) (string, error)
	SubmitFiscal(ctx context.Context, id uuid.UUID) (orders.Order, fiscal.Result, error)
	FiscalStatus(ctx context.Context) (fiscal.Result, error)
	Customers(term string) []customers.Customer
}

type orderListResponse struct {
	Orders     []orders.Order `json:"orders"`
	Totals     orders.Totals  `json:"totals"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

func orderCursor(o orders.Order) pagination.Cursor {
	return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
}

func buildOrderFilter(r *http.Request) (orders.Filter, error) {
	query := r.URL.Query()
	filter := orders.Filter{Search: validators.SanitizeString(query.Get("search"), 80)}

	if date := strings.TrimSpace(query.Get("date")); date != "" {
		if _, err := time.Parse(orders.DateLayout, date); err != nil {
			return orders.Filter{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "date must be YYYY-MM-DD").
				WithDetails(map[string]any{"field": "date"})
		}
		filter.Date = date
	}
	method, err := parseOptionalMethod(query.Get("method"))
	if err != nil {
		return orders.Filter{}, err
	}
	filter.Method = method
	status, err := parseOptionalStatus(query.Get("status"))
	if err != nil {
		return orders.Filter{}, err
	}
	filter.Status = status
	return filter, nil
}

// ListOrders returns one page of the history filtered by ?date=, ?method=, ?status= and
// ?search=. Totals always cover the whole filter, not just the page.
func ListOrders(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}
		filter, err := buildOrderFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, totals := svc.Orders(filter)
		page, next, err := pagination.Slice(list, pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")}, orderCursor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor").
				WithDetails(map[string]any{"field": "cursor"}))
			return
		}
		responses.WriteSuccess(w, orderListResponse{Orders: page, Totals: totals, NextCursor: next})
	}
}

func GetOrder(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Order(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrderReceipt renders the printable receipt; ?format=text returns it raw for the printer.
func OrderReceipt(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		text, err := svc.Receipt(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if strings.EqualFold(r.URL.Query().Get("format"), "text") {
			responses.WriteText(w, http.StatusOK, text)
			return
		}
		responses.WriteSuccess(w, map[string]string{"receipt": text})
	}
}

type fiscalResponse struct {
	Order  orders.Order  `json:"order"`
	Result fiscal.Result `json:"result"`
}

func SubmitFiscal(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, result, err := svc.SubmitFiscal(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, fiscalResponse{Order: order, Result: result})
	}
}

func FiscalStatus(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}
		result, err := svc.FiscalStatus(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ListCustomers searches the directory with ?search=.
func ListCustomers(svc OrdersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Customers(validators.SanitizeString(r.URL.Query().Get("search"), 80)))
	}
}
