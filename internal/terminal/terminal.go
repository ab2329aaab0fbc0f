// Package terminal is the application context of one POS terminal. It owns every piece of
// mutable state and serializes access to it; handlers call into it instead of sharing state.
package terminal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/angelmondragon/pizzapos-backend/internal/cart"
	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	"github.com/angelmondragon/pizzapos-backend/internal/checkout"
	"github.com/angelmondragon/pizzapos-backend/internal/customers"
	"github.com/angelmondragon/pizzapos-backend/internal/delivery"
	"github.com/angelmondragon/pizzapos-backend/internal/fiscal"
	"github.com/angelmondragon/pizzapos-backend/internal/ledger"
	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/internal/receipt"
	"github.com/angelmondragon/pizzapos-backend/internal/register"
	"github.com/angelmondragon/pizzapos-backend/internal/smartorder"
	"github.com/angelmondragon/pizzapos-backend/internal/snapshot"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/angelmondragon/pizzapos-backend/pkg/logger"
	"github.com/angelmondragon/pizzapos-backend/pkg/metrics"
	"github.com/angelmondragon/pizzapos-backend/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Terminal holds catalog, cart, checkout, order history, customers, register, couriers and fees.
type Terminal struct {
	mu sync.Mutex

	logg       *logger.Logger
	metrics    *metrics.POSMetrics
	store      snapshot.Store
	terminalID string
	now        func() time.Time

	menu      *catalog.Catalog
	cart      *cart.Cart
	session   *checkout.Session
	orders    *orders.Store
	customers *customers.Directory
	register  *register.Tracker
	couriers  *delivery.Roster
	fees      *delivery.FeeTable
	finalizer *orders.Finalizer

	parser     smartorder.Parser
	fiscal         fiscal.Submitter
	autoFiscal     bool
	fiscalInFlight map[uuid.UUID]struct{}
	receipts       *receipt.Renderer

	tolerance        decimal.Decimal
	defaultOrderType enums.OrderType
}

type Option func(*Terminal)

func WithLogger(logg *logger.Logger) Option {
	return func(t *Terminal) {
		if logg != nil {
			t.logg = logg
		}
	}
}

func WithMetrics(m *metrics.POSMetrics) Option {
	return func(t *Terminal) { t.metrics = m }
}

// WithSnapshotStore enables persistence; without it state lives in memory only.
func WithSnapshotStore(store snapshot.Store) Option {
	return func(t *Terminal) { t.store = store }
}

func WithTerminalID(id string) Option {
	return func(t *Terminal) { t.terminalID = id }
}

func WithClock(now func() time.Time) Option {
	return func(t *Terminal) {
		if now != nil {
			t.now = now
		}
	}
}

func WithMenu(menu *catalog.Catalog) Option {
	return func(t *Terminal) {
		if menu != nil {
			t.menu = menu
		}
	}
}

func WithFeeTable(fees *delivery.FeeTable) Option {
	return func(t *Terminal) {
		if fees != nil {
			t.fees = fees
		}
	}
}

func WithParser(parser smartorder.Parser) Option {
	return func(t *Terminal) {
		if parser != nil {
			t.parser = parser
		}
	}
}

// WithFiscal wires the fiscal device. With auto set, every confirmed order is submitted.
func WithFiscal(submitter fiscal.Submitter, auto bool) Option {
	return func(t *Terminal) {
		if submitter != nil {
			t.fiscal = submitter
			t.autoFiscal = auto
		}
	}
}

func WithReceiptRenderer(r *receipt.Renderer) Option {
	return func(t *Terminal) {
		if r != nil {
			t.receipts = r
		}
	}
}

// WithTolerance overrides the settlement tolerance of new checkouts.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(t *Terminal) {
		if !tolerance.IsNegative() {
			t.tolerance = tolerance
		}
	}
}

func WithDefaultOrderType(orderType enums.OrderType) Option {
	return func(t *Terminal) {
		if orderType.IsValid() {
			t.defaultOrderType = orderType
		}
	}
}

func New(opts ...Option) (*Terminal, error) {
	t := &Terminal{
		logg:             logger.Nop(),
		now:              time.Now,
		menu:             catalog.New(catalog.DefaultMenu()),
		cart:             cart.New(),
		orders:           orders.NewStore(nil),
		customers:        customers.NewDirectory(nil),
		couriers:         delivery.NewRoster(nil),
		fees:             delivery.NewFeeTable(delivery.DefaultFees()),
		parser:           smartorder.Disabled{},
		fiscal:           fiscal.Disabled{},
		fiscalInFlight:   make(map[uuid.UUID]struct{}),
		tolerance:        money.Tolerance,
		defaultOrderType: enums.OrderTypeDelivery,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.register = register.NewTracker(register.WithClock(t.now))

	if t.receipts == nil {
		r, err := receipt.NewRenderer(receipt.Store{}, receipt.Columns80mm)
		if err != nil {
			return nil, err
		}
		t.receipts = r
	}

	finalizer, err := orders.NewFinalizer(t.customers, orders.WithClock(t.now))
	if err != nil {
		return nil, err
	}
	t.finalizer = finalizer
	return t, nil
}

func (t *Terminal) ctx(ctx context.Context) context.Context {
	if t.terminalID == "" {
		return ctx
	}
	return t.logg.WithTerminalID(ctx, t.terminalID)
}

func (t *Terminal) ledgerOptions() []ledger.Option {
	return []ledger.Option{ledger.WithTolerance(t.tolerance)}
}

func (t *Terminal) slotValue(slot string) any {
	switch slot {
	case snapshot.SlotOrders:
		return t.orders.All()
	case snapshot.SlotRegisterSession:
		if s, ok := t.register.Current(); ok {
			return s
		}
		return register.Session{}
	case snapshot.SlotCustomers:
		return t.customers.List()
	case snapshot.SlotCouriers:
		return t.couriers.List()
	case snapshot.SlotDeliveryFees:
		return t.fees.Fees()
	}
	return nil
}

// persist writes the changed slots. A failed save is logged, never returned: the
// in-memory operation already happened and stays authoritative.
func (t *Terminal) persist(ctx context.Context, slots ...string) {
	if t.store == nil || len(slots) == 0 {
		return
	}
	values := make(map[string]any, len(slots))
	for _, slot := range slots {
		values[slot] = t.slotValue(slot)
	}
	if err := t.store.SaveAll(ctx, values); err != nil {
		t.logg.Error(t.logg.WithField(ctx, "slots", slots), "snapshot.save_failed", err)
	}
}

// Restore loads every persisted slot. Missing slots keep their defaults; the fee table
// is seeded into the store on first boot.
func (t *Terminal) Restore(ctx context.Context) error {
	ctx = t.ctx(ctx)
	if t.store == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var history []orders.Order
	if found, err := t.store.Load(ctx, snapshot.SlotOrders, &history); err != nil {
		return err
	} else if found {
		t.orders = orders.NewStore(history)
	}

	var session register.Session
	if found, err := t.store.Load(ctx, snapshot.SlotRegisterSession, &session); err != nil {
		return err
	} else if found {
		t.register.Restore(&session)
	}

	var directory []customers.Customer
	if found, err := t.store.Load(ctx, snapshot.SlotCustomers, &directory); err != nil {
		return err
	} else if found {
		t.customers = customers.NewDirectory(directory)
		finalizer, err := orders.NewFinalizer(t.customers, orders.WithClock(t.now))
		if err != nil {
			return err
		}
		t.finalizer = finalizer
	}

	var roster []delivery.Courier
	if found, err := t.store.Load(ctx, snapshot.SlotCouriers, &roster); err != nil {
		return err
	} else if found {
		t.couriers = delivery.NewRoster(roster)
	}

	var fees []delivery.Fee
	found, err := t.store.Load(ctx, snapshot.SlotDeliveryFees, &fees)
	if err != nil {
		return err
	}
	if found && len(fees) > 0 {
		t.fees = delivery.NewFeeTable(fees)
	} else {
		t.persist(ctx, snapshot.SlotDeliveryFees)
	}

	t.logg.Info(t.logg.WithFields(ctx, map[string]any{
		"orders":        t.orders.Len(),
		"customers":     t.customers.Len(),
		"register_open": t.register.IsOpen(),
	}), "terminal.restored")
	return nil
}

// Flush writes every slot; used on shutdown.
func (t *Terminal) Flush(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	values := make(map[string]any, len(snapshot.AllSlots))
	for _, slot := range snapshot.AllSlots {
		values[slot] = t.slotValue(slot)
	}
	return t.store.SaveAll(ctx, values)
}

var errNoCheckout = errors.New("no checkout in progress")
