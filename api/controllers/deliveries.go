package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/pizzapos-backend/api/responses"
	"github.com/angelmondragon/pizzapos-backend/api/validators"
	"github.com/angelmondragon/pizzapos-backend/internal/delivery"
	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/internal/terminal"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type DeliveryService interface {
	Deliveries() terminal.DeliveryBoard
	CompleteDelivery(ctx context.Context, id uuid.UUID) (orders.Order, error)
	Couriers() []delivery.Courier
	AddCourier(ctx context.Context, name string) (delivery.Courier, error)
	SetCourierActive(ctx context.Context, id string, active bool) (delivery.Courier, error)
	RemoveCourier(ctx context.Context, id string) error
}

func ListDeliveries(svc DeliveryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Deliveries())
	}
}

func CompleteDelivery(svc DeliveryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.CompleteDelivery(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func ListCouriers(svc DeliveryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Couriers())
	}
}

type createCourierRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

func CreateCourier(svc DeliveryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries unavailable"))
			return
		}
		var payload createCourierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		courier, err := svc.AddCourier(r.Context(), payload.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, courier)
	}
}

type updateCourierRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func UpdateCourier(svc DeliveryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries unavailable"))
			return
		}
		var payload updateCourierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		courier, err := svc.SetCourierActive(r.Context(), chi.URLParam(r, "courierId"), *payload.Active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, courier)
	}
}

func DeleteCourier(svc DeliveryService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "deliveries unavailable"))
			return
		}
		if err := svc.RemoveCourier(r.Context(), chi.URLParam(r, "courierId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
