package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/pizzapos-backend/api/responses"
	"github.com/angelmondragon/pizzapos-backend/api/validators"
	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	"github.com/angelmondragon/pizzapos-backend/internal/delivery"
	"github.com/angelmondragon/pizzapos-backend/internal/terminal"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/logger"
	"github.com/google/uuid"
)

// MenuService is the read-only catalog surface.
type MenuService interface {
	Menu(category, query string) []catalog.Product
	DeliveryFees() []delivery.Fee
}

// CartService is the cart surface of the terminal.
type CartService interface {
	Cart() terminal.CartView
	AddItem(ctx context.Context, productID string, flavorIDs []string, size enums.PizzaSize) (terminal.LineView, error)
	ChangeQuantity(ctx context.Context, lineID uuid.UUID, delta int) (terminal.LineView, error)
	RemoveLine(ctx context.Context, lineID uuid.UUID) (terminal.CartView, error)
	ClearCart(ctx context.Context) error
}

// ListProducts filters the menu by ?category= and ?q=.
func ListProducts(svc MenuService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu unavailable"))
			return
		}
		query := r.URL.Query()
		category := validators.SanitizeString(query.Get("category"), 40)
		search := validators.SanitizeString(query.Get("q"), 80)
		responses.WriteSuccess(w, svc.Menu(category, search))
	}
}

func ListDeliveryFees(svc MenuService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.DeliveryFees())
	}
}

func GetCart(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Cart())
	}
}

func ClearCart(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}
		if err := svc.ClearCart(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Cart())
	}
}

type addLineRequest struct {
	ProductID string   `json:"product_id" validate:"required_without=Flavors"`
	Flavors   []string `json:"flavors" validate:"omitempty,min=2,max=3,dive,required"`
	Size      string   `json:"size"`
}

// AddCartLine adds a product, or a split pizza when flavors carries 2 or 3 product ids.
func AddCartLine(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}

		var payload addLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := parseSize(payload.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.AddItem(r.Context(), payload.ProductID, payload.Flavors, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, line)
	}
}

type updateLineRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// UpdateCartLine moves the quantity by delta; it never drops below one.
func UpdateCartLine(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}
		lineID, err := validators.ParseUUIDParam(r, "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		line, err := svc.ChangeQuantity(r.Context(), lineID, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

func RemoveCartLine(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart unavailable"))
			return
		}
		lineID, err := validators.ParseUUIDParam(r, "lineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.RemoveLine(r.Context(), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
