package controllers

import (
	"strings"

	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
)

func normalizeEnum(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// parseSize accepts a blank size; the cart defaults it.
func parseSize(raw string) (enums.PizzaSize, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	size, err := enums.ParsePizzaSize(normalizeEnum(raw))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid size")
	}
	return size, nil
}

func parsePaymentMethod(raw string) (enums.PaymentMethod, error) {
	method, err := enums.ParsePaymentMethod(normalizeEnum(raw))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}
	return method, nil
}

func parseOrderType(raw *string) (*enums.OrderType, error) {
	if raw == nil {
		return nil, nil
	}
	orderType, err := enums.ParseOrderType(normalizeEnum(*raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order type")
	}
	return &orderType, nil
}

func parseOptionalMethod(raw string) (enums.PaymentMethod, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return parsePaymentMethod(raw)
}

func parseOptionalStatus(raw string) (enums.OrderStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	status, err := enums.ParseOrderStatus(normalizeEnum(raw))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}
	return status, nil
}
