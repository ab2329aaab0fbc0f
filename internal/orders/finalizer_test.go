package orders

import (
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/pizzapos-backend/internal/cart"
	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	"github.com/angelmondragon/pizzapos-backend/internal/customers"
	"github.com/angelmondragon/pizzapos-backend/internal/ledger"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubRecorder struct {
	calls []customers.UpsertInput
	id    uuid.UUID
}

func (s *stubRecorder) Upsert(in customers.UpsertInput) (customers.Customer, bool) {
	s.calls = append(s.calls, in)
	if in.Phone == "" {
		return customers.Customer{}, false
	}
	return customers.Customer{ID: s.id, Name: in.Name, Phone: in.Phone}, true
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func scenarioCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	large := catalog.Product{ID: "p1", Name: "Calabresa", Price: dec("35.00"), AllowSize: true}
	small := catalog.Product{ID: "p2", Name: "Mussarela", Price: dec("20.00"), AllowSize: true}
	if _, err := c.AddProduct(large, enums.PizzaSizeLARGE); err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	if _, err := c.AddProduct(small, enums.PizzaSizeSMALL); err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	return c
}

func settledLedger(t *testing.T, target string, method enums.PaymentMethod, cashGiven *decimal.Decimal) *ledger.Ledger {
	t.Helper()
	l, err := ledger.New(dec(target))
	if err != nil {
		t.Fatalf("ledger error: %v", err)
	}
	if _, err := l.AddPayment(method, dec(target), cashGiven); err != nil {
		t.Fatalf("AddPayment error: %v", err)
	}
	return l
}

func newFinalizer(t *testing.T, recorder CustomerRecorder, at time.Time) *Finalizer {
	t.Helper()
	f, err := NewFinalizer(recorder, WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("NewFinalizer error: %v", err)
	}
	return f
}

func TestNewFinalizerRequiresRecorder(t *testing.T) {
	if _, err := NewFinalizer(nil); err == nil {
		t.Fatal("expected error for missing recorder")
	}
}

func TestFinalizeDeliveryScenario(t *testing.T) {
	at := time.Date(2026, 5, 10, 20, 30, 0, 0, time.UTC)
	recorder := &stubRecorder{id: uuid.New()}
	f := newFinalizer(t, recorder, at)

	c := scenarioCart(t)
	if !c.Subtotal().Equal(dec("51")) {
		t.Fatalf("expected subtotal 51, got %s", c.Subtotal())
	}

	given := dec("60.00")
	l := settledLedger(t, "56.00", enums.PaymentMethodCash, &given)
	if !l.Change().Equal(dec("4")) {
		t.Fatalf("expected change 4, got %s", l.Change())
	}

	addr := &types.Address{Street: "Rua das Flores", Number: "10", Neighborhood: "Centro", City: "Peruíbe"}
	order, err := f.Finalize(FinalizeInput{
		Cart:          c,
		OrderType:     enums.OrderTypeDelivery,
		CustomerName:  " Ana ",
		CustomerPhone: "13999990000",
		Ledger:        l,
		DeliveryFee:   dec("5.00"),
		Address:       addr,
		CourierID:     "m1",
		CourierName:   "Zé",
	})
	if err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if order.Status != enums.OrderStatusDelivering {
		t.Fatalf("expected DELIVERING, got %s", order.Status)
	}
	if !order.Total.Equal(dec("56")) || !order.Subtotal.Equal(dec("51")) || !order.DeliveryFee.Equal(dec("5")) {
		t.Fatalf("unexpected totals %s/%s/%s", order.Subtotal, order.DeliveryFee, order.Total)
	}
	if len(order.Payments) != 1 || order.PaymentMethod != enums.PaymentMethodCash {
		t.Fatalf("unexpected payments %+v", order.Payments)
	}
	if !order.ChangeDue.Equal(dec("4")) {
		t.Fatalf("expected change due 4, got %s", order.ChangeDue)
	}
	if order.CustomerName != "Ana" || order.CourierName != "Zé" || order.Address == nil {
		t.Fatalf("unexpected order details %+v", order)
	}
	if !order.CreatedAt.Equal(at) {
		t.Fatalf("expected timestamp %s, got %s", at, order.CreatedAt)
	}
	if order.CustomerID == nil || *order.CustomerID != recorder.id {
		t.Fatal("expected customer reference from upsert")
	}
	if len(recorder.calls) != 1 || !recorder.calls[0].Total.Equal(dec("56")) {
		t.Fatalf("expected one upsert with total 56, got %+v", recorder.calls)
	}

	addr.Street = "mutated"
	if order.Address.Street != "Rua das Flores" {
		t.Fatal("order must not alias the caller address")
	}

	c.Clear()
	if len(order.Lines) != 2 {
		t.Fatal("order lines must survive clearing the cart")
	}
}

func TestFinalizePickupDropsFeeAndDeliveryData(t *testing.T) {
	f := newFinalizer(t, &stubRecorder{}, time.Now())
	c := scenarioCart(t)
	l := settledLedger(t, "51.00", enums.PaymentMethodPIX, nil)

	order, err := f.Finalize(FinalizeInput{
		Cart:         c,
		OrderType:    enums.OrderTypePickup,
		CustomerName: "Balcão",
		Ledger:       l,
		DeliveryFee:  dec("5.00"),
		Address:      &types.Address{Street: "x", Number: "1", Neighborhood: "Centro", City: "y"},
		CourierID:    "m1",
	})
	if err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	if order.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", order.Status)
	}
	if !order.DeliveryFee.IsZero() || !order.Total.Equal(dec("51")) {
		t.Fatalf("pickup fee must be zero, got fee %s total %s", order.DeliveryFee, order.Total)
	}
	if order.Address != nil || order.CourierID != "" {
		t.Fatal("pickup orders carry no address or courier")
	}
	if order.CustomerID != nil {
		t.Fatal("no customer reference without a phone")
	}
}

func TestFinalizeGuards(t *testing.T) {
	f := newFinalizer(t, &stubRecorder{}, time.Now())

	unsettled, _ := ledger.New(dec("51"))
	unsettled.AddPayment(enums.PaymentMethodPIX, dec("20"), nil)

	smallOnly := cart.New()
	smallOnly.AddProduct(catalog.Product{ID: "p2", Name: "Mussarela", Price: dec("20.00"), AllowSize: true}, enums.PizzaSizeSMALL)
	given := dec("60")
	overpaid, _ := ledger.Restore(dec("16"), []ledger.Part{
		{Method: enums.PaymentMethodCash, Requested: dec("51"), Amount: dec("51"), CashGiven: &given},
	})

	tests := []struct {
		name  string
		input FinalizeInput
		code  pkgerrors.Code
		want  error
	}{
		{
			name:  "empty cart",
			input: FinalizeInput{Cart: cart.New(), OrderType: enums.OrderTypePickup, CustomerName: "Ana", Ledger: settledLedger(t, "1", enums.PaymentMethodPIX, nil)},
			code:  pkgerrors.CodeStateConflict,
			want:  ErrEmptyCart,
		},
		{
			name:  "missing name",
			input: FinalizeInput{Cart: scenarioCart(t), OrderType: enums.OrderTypePickup, CustomerName: "  ", Ledger: settledLedger(t, "51", enums.PaymentMethodPIX, nil)},
			code:  pkgerrors.CodeValidation,
			want:  ErrCustomerNameRequired,
		},
		{
			name:  "unsettled ledger",
			input: FinalizeInput{Cart: scenarioCart(t), OrderType: enums.OrderTypePickup, CustomerName: "Ana", Ledger: unsettled},
			code:  pkgerrors.CodeStateConflict,
			want:  ErrLedgerNotSettled,
		},
		{
			name:  "missing ledger",
			input: FinalizeInput{Cart: scenarioCart(t), OrderType: enums.OrderTypePickup, CustomerName: "Ana"},
			code:  pkgerrors.CodeStateConflict,
			want:  ErrLedgerNotSettled,
		},
		{
			name:  "target mismatch",
			input: FinalizeInput{Cart: scenarioCart(t), OrderType: enums.OrderTypeDelivery, CustomerName: "Ana", Ledger: settledLedger(t, "51", enums.PaymentMethodPIX, nil), DeliveryFee: dec("5")},
			code:  pkgerrors.CodeStateConflict,
			want:  ErrTargetMismatch,
		},
		{
			name:  "overpaid ledger",
			input: FinalizeInput{Cart: smallOnly, OrderType: enums.OrderTypePickup, CustomerName: "Ana", Ledger: overpaid},
			code:  pkgerrors.CodeStateConflict,
			want:  ErrOverpaid,
		},
	}

	for _, tt := range tests {
		_, err := f.Finalize(tt.input)
		if !errors.Is(err, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
		if pkgerrors.CodeOf(err) != tt.code {
			t.Fatalf("%s: expected code %s, got %s", tt.name, tt.code, pkgerrors.CodeOf(err))
		}
	}
}

func TestFinalizeSplitPayment(t *testing.T) {
	f := newFinalizer(t, &stubRecorder{}, time.Now())

	c := cart.New()
	c.AddProduct(catalog.Product{ID: "p", Name: "Grande", Price: dec("90.00"), AllowSize: true}, enums.PizzaSizeLARGE)

	l, _ := ledger.New(dec("90.00"))
	share := l.SuggestedSplit(3)
	cash := dec("30.00")
	l.AddPayment(enums.PaymentMethodCreditCard, share, nil)
	l.AddPayment(enums.PaymentMethodPIX, share, nil)
	l.AddPayment(enums.PaymentMethodCash, share, &cash)

	order, err := f.Finalize(FinalizeInput{Cart: c, OrderType: enums.OrderTypePickup, CustomerName: "Mesa 4", Ledger: l, SplitPeople: 3})
	if err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	if len(order.Payments) != 3 || !order.ChangeDue.IsZero() {
		t.Fatalf("expected three parts and no change, got %d parts change %s", len(order.Payments), order.ChangeDue)
	}
	if order.PaymentMethod != enums.PaymentMethodCreditCard {
		t.Fatalf("primary method is the first part, got %s", order.PaymentMethod)
	}
	if order.SplitPeople == nil || *order.SplitPeople != 3 {
		t.Fatal("expected split people recorded")
	}
	if !order.UsesMethod(enums.PaymentMethodPIX) || order.ItemCount() != 1 {
		t.Fatal("unexpected order helpers result")
	}
}
