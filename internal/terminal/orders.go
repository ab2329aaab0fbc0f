package terminal

import (
	"context"
	"strings"

	"github.com/angelmondragon/pizzapos-backend/internal/customers"
	"github.com/angelmondragon/pizzapos-backend/internal/delivery"
	"github.com/angelmondragon/pizzapos-backend/internal/fiscal"
	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/internal/snapshot"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/google/uuid"
)

// DeliveryBoard is the dispatch view: pending deliveries, also grouped by courier.
type DeliveryBoard struct {
	Pending   []orders.Order            `json:"pending"`
	ByCourier map[string][]orders.Order `json:"by_courier"`
	Couriers  []delivery.Courier        `json:"couriers"`
}

// Orders lists the history, newest first.
func (t *Terminal) Orders(filter orders.Filter) ([]orders.Order, orders.Totals) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.orders.List(filter), t.orders.Totals(filter)
}

func (t *Terminal) Order(id uuid.UUID) (orders.Order, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.findOrder(id)
}

func (t *Terminal) findOrder(id uuid.UUID) (orders.Order, error) {
	order, ok := t.orders.Find(id)
	if !ok {
		return orders.Order{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, orders.ErrOrderNotFound, "order not found")
	}
	return order, nil
}

// Receipt renders the printable receipt of a stored order.
func (t *Terminal) Receipt(id uuid.UUID) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	order, err := t.findOrder(id)
	if err != nil {
		return "", err
	}
	text, err := t.receipts.Render(order)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render receipt")
	}
	return text, nil
}

// SubmitFiscal sends a stored order to the fiscal device and records the receipt key.
// The device round-trip runs without holding the terminal lock.
func (t *Terminal) SubmitFiscal(ctx context.Context, id uuid.UUID) (orders.Order, fiscal.Result, error) {
	ctx = t.ctx(ctx)
	t.mu.Lock()
	order, err := t.claimFiscal(id)
	t.mu.Unlock()
	if err != nil {
		return order, fiscal.Result{}, err
	}
	updated, result, err := t.submitFiscal(t.logg.WithOrderID(ctx, order.ID.String()), order)
	if err != nil {
		return order, result, err
	}
	return updated, result, nil
}

// claimFiscal expects t.mu held. It marks the order as in flight until submitFiscal returns.
func (t *Terminal) claimFiscal(id uuid.UUID) (orders.Order, error) {
	order, err := t.findOrder(id)
	if err != nil {
		return orders.Order{}, err
	}
	if order.FiscalID != nil {
		return order, pkgerrors.New(pkgerrors.CodeConflict, "order already has a fiscal receipt").
			WithDetails(map[string]any{"fiscal_id": *order.FiscalID})
	}
	if _, busy := t.fiscalInFlight[id]; busy {
		return order, pkgerrors.New(pkgerrors.CodeConflict, "fiscal submission already in progress")
	}
	t.fiscalInFlight[id] = struct{}{}
	return order, nil
}

// submitFiscal expects t.mu released and the order claimed. It re-locks to attach the
// receipt key and persist the history.
func (t *Terminal) submitFiscal(ctx context.Context, order orders.Order) (orders.Order, fiscal.Result, error) {
	result, err := t.fiscal.Submit(ctx, order)

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.fiscalInFlight, order.ID)

	if err != nil {
		t.metrics.FiscalSubmission("error")
		t.logg.Error(ctx, "fiscal.submission_failed", err)
		return order, result, err
	}
	if !result.Success {
		t.metrics.FiscalSubmission("refused")
		t.logg.Warn(t.logg.WithFields(ctx, map[string]any{
			"code":    result.Code,
			"message": result.Message,
		}), "fiscal.submission_refused")
		return order, result, pkgerrors.New(pkgerrors.CodeDependency, "fiscal device refused the receipt").
			WithDetails(map[string]any{"code": result.Code, "message": result.Message})
	}
	updated, err := t.orders.AttachFiscalID(order.ID, result.ReceiptKey)
	if err != nil {
		return order, result, err
	}
	t.metrics.FiscalSubmission("issued")
	t.logg.Info(t.logg.WithField(ctx, "receipt_key", result.ReceiptKey), "fiscal.submitted")
	t.persist(ctx, snapshot.SlotOrders)
	return updated, result, nil
}

// FiscalStatus asks the device whether it is operational.
func (t *Terminal) FiscalStatus(ctx context.Context) (fiscal.Result, error) {
	return t.fiscal.Status(t.ctx(ctx))
}

func (t *Terminal) Deliveries() DeliveryBoard {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := delivery.Pending(t.orders.All())
	return DeliveryBoard{
		Pending:   pending,
		ByCourier: delivery.ByCourier(pending),
		Couriers:  t.couriers.Active(),
	}
}

// PendingDeliveries lists the orders still out for delivery.
func (t *Terminal) PendingDeliveries() []orders.Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	return delivery.Pending(t.orders.All())
}

func (t *Terminal) CompleteDelivery(ctx context.Context, id uuid.UUID) (orders.Order, error) {
	ctx = t.logg.WithOrderID(t.ctx(ctx), id.String())
	t.mu.Lock()
	defer t.mu.Unlock()
	order, err := t.orders.CompleteDelivery(id)
	if err != nil {
		return orders.Order{}, err
	}
	t.logg.Info(t.logg.WithField(ctx, "courier_id", order.CourierID), "delivery.completed")
	t.persist(ctx, snapshot.SlotOrders)
	return order, nil
}

func (t *Terminal) Couriers() []delivery.Courier {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.couriers.List()
}

func (t *Terminal) AddCourier(ctx context.Context, name string) (delivery.Courier, error) {
	ctx = t.ctx(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	courier, err := t.couriers.Add(name)
	if err != nil {
		return delivery.Courier{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid courier")
	}
	t.logg.Info(t.logg.WithField(ctx, "courier_id", courier.ID), "courier.added")
	t.persist(ctx, snapshot.SlotCouriers)
	return courier, nil
}

func (t *Terminal) SetCourierActive(ctx context.Context, id string, active bool) (delivery.Courier, error) {
	ctx = t.ctx(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	courier, err := t.couriers.SetActive(strings.TrimSpace(id), active)
	if err != nil {
		return delivery.Courier{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "courier not found")
	}
	t.persist(ctx, snapshot.SlotCouriers)
	return courier, nil
}

func (t *Terminal) RemoveCourier(ctx context.Context, id string) error {
	ctx = t.ctx(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.couriers.Remove(strings.TrimSpace(id)) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, delivery.ErrCourierNotFound, "courier not found")
	}
	t.logg.Info(t.logg.WithField(ctx, "courier_id", id), "courier.removed")
	t.persist(ctx, snapshot.SlotCouriers)
	return nil
}

// Customers searches the directory by name or phone; an empty term lists everyone.
func (t *Terminal) Customers(term string) []customers.Customer {
	t.mu.Lock()
	defer t.mu.Unlock()
	if strings.TrimSpace(term) == "" {
		return t.customers.List()
	}
	return t.customers.Search(term)
}
