package orders

import (
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/pizzapos-backend/internal/cart"
	"github.com/angelmondragon/pizzapos-backend/internal/customers"
	"github.com/angelmondragon/pizzapos-backend/internal/ledger"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrLedgerNotSettled     = errors.New("payment ledger is not settled")
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrTargetMismatch       = errors.New("ledger target does not match order total")
	ErrOverpaid             = errors.New("payments exceed the order total")
)

// CartSource is the live cart being checked out.
type CartSource interface {
	Lines() []cart.Line
	Subtotal() decimal.Decimal
}

// CustomerRecorder receives the customer side effect of a finalized order.
type CustomerRecorder interface {
	Upsert(in customers.UpsertInput) (customers.Customer, bool)
}

// FinalizeInput gathers everything frozen into an Order.
type FinalizeInput struct {
	Cart          CartSource
	OrderType     enums.OrderType
	CustomerName  string
	CustomerPhone string
	CustomerID    *uuid.UUID
	Ledger        *ledger.Ledger
	DeliveryFee   decimal.Decimal
	Address       *types.Address
	CourierID     string
	CourierName   string
	SplitPeople   int
}

// Finalizer turns a settled checkout into an immutable Order.
type Finalizer struct {
	customers CustomerRecorder
	now       func() time.Time
	newID     func() uuid.UUID
}

type FinalizerOption func(*Finalizer)

func WithClock(now func() time.Time) FinalizerOption {
	return func(f *Finalizer) {
		if now != nil {
			f.now = now
		}
	}
}

func WithOrderIDGenerator(fn func() uuid.UUID) FinalizerOption {
	return func(f *Finalizer) {
		if fn != nil {
			f.newID = fn
		}
	}
}

// NewFinalizer wires a finalizer with its customer side effect.
func NewFinalizer(recorder CustomerRecorder, opts ...FinalizerOption) (*Finalizer, error) {
	if recorder == nil {
		return nil, errors.New("customer recorder required")
	}
	f := &Finalizer{customers: recorder, now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Finalize re-checks the guards, snapshots the cart and upserts the customer.
// The caller clears the cart and ledger afterwards.
func (f *Finalizer) Finalize(in FinalizeInput) (Order, error) {
	if in.Cart == nil {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrEmptyCart, "nothing to check out")
	}
	lines := in.Cart.Lines()
	if len(lines) == 0 {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrEmptyCart, "nothing to check out")
	}
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrCustomerNameRequired, "customer name is required")
	}
	if !in.OrderType.IsValid() {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid order type")
	}
	if in.Ledger == nil || !in.Ledger.IsSettled() {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrLedgerNotSettled, "payment is incomplete")
	}
	if in.DeliveryFee.IsNegative() {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee must not be negative")
	}

	fee := in.DeliveryFee
	address := in.Address.Clone()
	courierID, courierName := in.CourierID, in.CourierName
	if in.OrderType != enums.OrderTypeDelivery {
		fee = decimal.Zero
		address = nil
		courierID, courierName = "", ""
	}

	subtotal := in.Cart.Subtotal()
	total := subtotal.Add(fee)
	if !in.Ledger.Target().Equal(total) {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrTargetMismatch, "order total changed during checkout").
			WithDetails(map[string]any{"ledger_target": in.Ledger.Target().StringFixed(2), "order_total": total.StringFixed(2)})
	}
	if in.Ledger.Overpaid() {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrOverpaid, "payments exceed the order total").
			WithDetails(map[string]any{"total_paid": in.Ledger.TotalPaid().StringFixed(2), "order_total": total.StringFixed(2)})
	}

	method, _ := in.Ledger.PrimaryMethod()
	if method == "" {
		method = enums.PaymentMethodCash
	}

	status := enums.OrderStatusCompleted
	if in.OrderType == enums.OrderTypeDelivery {
		status = enums.OrderStatusDelivering
	}

	order := Order{
		ID:            f.newID(),
		CustomerName:  name,
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		CourierID:     courierID,
		CourierName:   courierName,
		OrderType:     in.OrderType,
		Status:        status,
		Lines:         cart.CloneLines(lines),
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         total,
		PaymentMethod: method,
		Payments:      in.Ledger.Parts(),
		ChangeDue:     in.Ledger.Change(),
		Address:       address,
		CreatedAt:     f.now(),
	}
	if in.SplitPeople > 1 {
		people := in.SplitPeople
		order.SplitPeople = &people
	}
	if in.CustomerID != nil {
		id := *in.CustomerID
		order.CustomerID = &id
	}

	if customer, ok := f.customers.Upsert(customers.UpsertInput{
		Name:    name,
		Phone:   order.CustomerPhone,
		Address: order.Address,
		Total:   total,
		At:      order.CreatedAt,
	}); ok {
		id := customer.ID
		order.CustomerID = &id
	}

	return order, nil
}
