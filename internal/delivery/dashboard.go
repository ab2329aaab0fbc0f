package delivery

import (
	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
)

// Pending returns delivery orders still on the road, oldest first.
func Pending(all []orders.Order) []orders.Order {
	out := make([]orders.Order, 0)
	for i := len(all) - 1; i >= 0; i-- {
		o := all[i]
		if o.OrderType == enums.OrderTypeDelivery && o.Status == enums.OrderStatusDelivering {
			out = append(out, o)
		}
	}
	return out
}

// ByCourier groups pending orders by assigned courier id. Unassigned orders use the empty key.
func ByCourier(pending []orders.Order) map[string][]orders.Order {
	out := make(map[string][]orders.Order)
	for _, o := range pending {
		out[o.CourierID] = append(out[o.CourierID], o)
	}
	return out
}
