package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/pizzapos-backend/api/responses"
	"github.com/angelmondragon/pizzapos-backend/api/validators"
	"github.com/angelmondragon/pizzapos-backend/internal/register"
	"github.com/angelmondragon/pizzapos-backend/internal/terminal"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type RegisterService interface {
	RegisterStatus() terminal.RegisterStatus
	OpenRegister(ctx context.Context, initialFloat decimal.Decimal) (register.Session, error)
	CloseRegister(ctx context.Context) (register.Summary, error)
}

func RegisterStatus(svc RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.RegisterStatus())
	}
}

type openRegisterRequest struct {
	InitialFloat string `json:"initial_float"`
}

// OpenRegister starts a cash session; a blank float opens with zero.
func OpenRegister(svc RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register unavailable"))
			return
		}
		var payload openRegisterRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		initialFloat, err := validators.ParseOptionalAmount("initial_float", &payload.InitialFloat)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amount := decimal.Zero
		if initialFloat != nil {
			amount = *initialFloat
		}
		session, err := svc.OpenRegister(r.Context(), amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

func CloseRegister(svc RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register unavailable"))
			return
		}
		summary, err := svc.CloseRegister(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
