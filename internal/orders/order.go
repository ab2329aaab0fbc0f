package orders

import (
	"time"

	"github.com/angelmondragon/pizzapos-backend/internal/cart"
	"github.com/angelmondragon/pizzapos-backend/internal/ledger"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/angelmondragon/pizzapos-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the frozen result of a settled checkout. Only Status and FiscalID change after creation.
type Order struct {
	ID            uuid.UUID           `json:"id"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone,omitempty"`
	CustomerID    *uuid.UUID          `json:"customer_id,omitempty"`
	CourierID     string              `json:"courier_id,omitempty"`
	CourierName   string              `json:"courier_name,omitempty"`
	OrderType     enums.OrderType     `json:"order_type"`
	Status        enums.OrderStatus   `json:"status"`
	Lines         []cart.Line         `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Payments      []ledger.Part       `json:"payments"`
	SplitPeople   *int                `json:"split_people,omitempty"`
	ChangeDue     decimal.Decimal     `json:"change_due"`
	Address       *types.Address      `json:"address,omitempty"`
	CreatedAt     time.Time           `json:"date"`
	FiscalID      *string             `json:"fiscal_id,omitempty"`
}

// Clone deep-copies the order.
func (o Order) Clone() Order {
	out := o
	out.Lines = cart.CloneLines(o.Lines)
	out.Payments = ledger.CloneParts(o.Payments)
	out.Address = o.Address.Clone()
	if o.CustomerID != nil {
		id := *o.CustomerID
		out.CustomerID = &id
	}
	if o.SplitPeople != nil {
		n := *o.SplitPeople
		out.SplitPeople = &n
	}
	if o.FiscalID != nil {
		f := *o.FiscalID
		out.FiscalID = &f
	}
	return out
}

func (o Order) IsDelivery() bool {
	return o.OrderType == enums.OrderTypeDelivery
}

// UsesMethod reports whether any payment part used method.
func (o Order) UsesMethod(method enums.PaymentMethod) bool {
	for _, p := range o.Payments {
		if p.Method == method {
			return true
		}
	}
	return false
}

// ItemCount sums line quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}
