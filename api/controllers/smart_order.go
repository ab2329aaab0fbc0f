package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/pizzapos-backend/api/responses"
	"github.com/angelmondragon/pizzapos-backend/api/validators"
	"github.com/angelmondragon/pizzapos-backend/internal/terminal"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/logger"
)

const maxSmartOrderText = 2000

type SmartOrderService interface {
	SmartOrder(ctx context.Context, text string) (terminal.SmartOrderResult, error)
}

type smartOrderRequest struct {
	Text string `json:"text" validate:"required"`
}

// SmartOrder turns a typed or dictated order into cart lines.
func SmartOrder(svc SmartOrderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "smart order unavailable"))
			return
		}
		var payload smartOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.SmartOrder(r.Context(), validators.SanitizeString(payload.Text, maxSmartOrderText))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
