package terminal

import (
	"context"
	"strings"

	"github.com/angelmondragon/pizzapos-backend/internal/checkout"
	"github.com/angelmondragon/pizzapos-backend/internal/delivery"
	"github.com/angelmondragon/pizzapos-backend/internal/ledger"
	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/internal/snapshot"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// CheckoutUpdate carries the fields staff changed; nil fields are left alone.
type CheckoutUpdate struct {
	OrderType    *enums.OrderType
	Customer     *checkout.Customer
	Address      *types.Address
	Neighborhood *string
	CourierID    *string
	SplitPeople  *int
}

// BeginCheckout opens the payment step for the current cart. An existing checkout is
// returned as is, rebased on the cart.
func (t *Terminal) BeginCheckout(ctx context.Context) (checkout.View, error) {
	ctx = t.ctx(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cart.IsEmpty() {
		return checkout.View{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, orders.ErrEmptyCart, "cart is empty")
	}
	if !t.register.IsOpen() {
		return checkout.View{}, pkgerrors.New(pkgerrors.CodeStateConflict, "open the register before checking out")
	}
	if t.session != nil {
		if err := t.session.Refresh(t.cart.Subtotal()); err != nil {
			return checkout.View{}, err
		}
		return t.session.View(), nil
	}

	session, err := checkout.Begin(t.cart.Subtotal(), t.fees, t.defaultOrderType, t.ledgerOptions()...)
	if err != nil {
		return checkout.View{}, err
	}
	t.session = session
	t.logg.Info(t.logg.WithFields(ctx, map[string]any{
		"subtotal":   t.cart.Subtotal().StringFixed(2),
		"order_type": session.OrderType(),
	}), "checkout.started")
	return session.View(), nil
}

func (t *Terminal) activeSession() (*checkout.Session, error) {
	if t.session == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStateConflict, errNoCheckout, "no checkout in progress")
	}
	return t.session, nil
}

func (t *Terminal) Checkout() (checkout.View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.activeSession()
	if err != nil {
		return checkout.View{}, err
	}
	return s.View(), nil
}

// UpdateCheckout applies staff edits. A known phone fills the customer's name, id and
// address from the directory when those were left blank.
func (t *Terminal) UpdateCheckout(ctx context.Context, in CheckoutUpdate) (checkout.View, error) {
	ctx = t.ctx(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.activeSession()
	if err != nil {
		return checkout.View{}, err
	}

	if in.OrderType != nil {
		if err := s.SetOrderType(*in.OrderType); err != nil {
			return checkout.View{}, err
		}
	}
	if in.Customer != nil {
		c := *in.Customer
		if known, ok := t.customers.FindByPhone(c.Phone); ok {
			if strings.TrimSpace(c.Name) == "" {
				c.Name = known.Name
			}
			id := known.ID
			c.ID = &id
			if in.Address == nil && s.View().Address == nil && known.Address != nil {
				in.Address = known.Address.Clone()
			}
		}
		s.SetCustomer(c)
	}
	if in.CourierID != nil {
		id := strings.TrimSpace(*in.CourierID)
		if id == "" {
			s.SetCourier(nil)
		} else {
			courier, ok := t.couriers.Find(id)
			if !ok {
				return checkout.View{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, delivery.ErrCourierNotFound, "courier not found")
			}
			s.SetCourier(&courier)
		}
	}
	if in.SplitPeople != nil {
		if *in.SplitPeople < 1 {
			return checkout.View{}, pkgerrors.New(pkgerrors.CodeValidation, "split people must be at least 1")
		}
		s.SetSplitPeople(*in.SplitPeople)
	}

	feeTouched := in.Address != nil || in.Neighborhood != nil || in.OrderType != nil
	if in.Address != nil {
		if _, _, err := s.SetAddress(in.Address); err != nil {
			return checkout.View{}, err
		}
	}
	if in.Neighborhood != nil {
		if _, _, err := s.SetNeighborhood(*in.Neighborhood); err != nil {
			return checkout.View{}, err
		}
	}
	if feeTouched {
		t.observeFee(ctx, s)
	}
	return s.View(), nil
}

// observeFee reports an unmatched delivery neighborhood; the fee stays zero.
func (t *Terminal) observeFee(ctx context.Context, s *checkout.Session) {
	if s.OrderType() != enums.OrderTypeDelivery || strings.TrimSpace(s.Neighborhood()) == "" || s.FeeMatched() {
		return
	}
	t.metrics.DeliveryFeeMiss()
	t.logg.Warn(t.logg.WithField(ctx, "neighborhood", s.Neighborhood()), "delivery_fee.miss")
}

// ApplyPayment adds a payment part. A request above the remaining balance is applied
// only up to the balance; the returned part reports that through Clamped.
func (t *Terminal) ApplyPayment(ctx context.Context, method enums.PaymentMethod, amount decimal.Decimal, cashGiven *decimal.Decimal) (ledger.Part, checkout.View, error) {
	ctx = t.ctx(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.activeSession()
	if err != nil {
		return ledger.Part{}, checkout.View{}, err
	}

	part, err := s.ApplyPayment(method, amount, cashGiven)
	if err != nil {
		return ledger.Part{}, checkout.View{}, err
	}
	t.metrics.PaymentApplied(string(part.Method), part.Clamped())

	view := s.View()
	fields := map[string]any{
		"method":    part.Method,
		"requested": part.Requested.StringFixed(2),
		"amount":    part.Amount.StringFixed(2),
		"remaining": view.Remaining.StringFixed(2),
		"settled":   view.Settled,
	}
	logCtx := t.logg.WithFields(ctx, fields)
	if part.Clamped() {
		t.logg.Warn(logCtx, "checkout.payment_clamped")
	}
	t.logg.Info(logCtx, "checkout.payment_applied")
	return part, view, nil
}

func (t *Terminal) RemovePayment(ctx context.Context, index int) (checkout.View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.activeSession()
	if err != nil {
		return checkout.View{}, err
	}
	part, ok := s.RemovePayment(index)
	if !ok {
		return checkout.View{}, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}
	t.logg.Info(t.logg.WithFields(t.ctx(ctx), map[string]any{
		"index":  index,
		"method": part.Method,
		"amount": part.Amount.StringFixed(2),
	}), "checkout.payment_removed")
	return s.View(), nil
}

// CancelCheckout discards the in-progress checkout. The cart is untouched.
func (t *Terminal) CancelCheckout(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return
	}
	t.session = nil
	t.logg.Info(t.ctx(ctx), "checkout.cancelled")
}

// ConfirmCheckout finalizes the order, records it, clears the cart and ends the checkout.
// With auto fiscal on, the receipt is submitted after the terminal lock is released; a
// failed submission never undoes the sale.
func (t *Terminal) ConfirmCheckout(ctx context.Context) (orders.Order, error) {
	ctx = t.ctx(ctx)
	order, err := t.confirmCheckout(ctx)
	if err != nil || !t.autoFiscal {
		return order, err
	}
	if updated, _, err := t.submitFiscal(t.logg.WithOrderID(ctx, order.ID.String()), order); err == nil {
		order = updated
	}
	return order, nil
}

func (t *Terminal) confirmCheckout(ctx context.Context) (orders.Order, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.activeSession()
	if err != nil {
		return orders.Order{}, err
	}
	if !t.register.IsOpen() {
		return orders.Order{}, pkgerrors.New(pkgerrors.CodeStateConflict, "open the register before checking out")
	}

	order, err := t.finalizer.Finalize(s.FinalizeInput(t.cart))
	if err != nil {
		return orders.Order{}, err
	}
	t.orders.Add(order)
	t.cart.Clear()
	t.session = nil

	ctx = t.logg.WithOrderID(ctx, order.ID.String())
	t.metrics.OrderFinalized(string(order.OrderType), string(order.PaymentMethod), order.Total)
	t.logg.Info(t.logg.WithFields(ctx, map[string]any{
		"order_type":     order.OrderType,
		"status":         order.Status,
		"total":          order.Total.StringFixed(2),
		"payment_method": order.PaymentMethod,
		"parts":          len(order.Payments),
		"change_due":     order.ChangeDue.StringFixed(2),
	}), "checkout.finalized")

	if t.autoFiscal {
		t.fiscalInFlight[order.ID] = struct{}{}
	}
	t.persist(ctx, snapshot.SlotOrders, snapshot.SlotCustomers)
	return order, nil
}
