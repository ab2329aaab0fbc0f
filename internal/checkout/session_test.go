package checkout

import (
	"errors"
	"testing"

	"github.com/angelmondragon/pizzapos-backend/internal/cart"
	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	"github.com/angelmondragon/pizzapos-backend/internal/customers"
	"github.com/angelmondragon/pizzapos-backend/internal/delivery"
	"github.com/angelmondragon/pizzapos-backend/internal/ledger"
	"github.com/angelmondragon/pizzapos-backend/internal/orders"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/angelmondragon/pizzapos-backend/pkg/types"
	"github.com/shopspring/decimal"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func feeTable() *delivery.FeeTable {
	return delivery.NewFeeTable([]delivery.Fee{
		{ID: "f1", Neighborhood: "Centro", Price: dec("5.00")},
		{ID: "f2", Neighborhood: "Romar", Price: dec("4.00")},
	})
}

func scenarioCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	if _, err := c.AddProduct(catalog.Product{ID: "p1", Name: "Calabresa", Price: dec("35.00"), AllowSize: true}, enums.PizzaSizeLARGE); err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	if _, err := c.AddProduct(catalog.Product{ID: "p2", Name: "Mussarela", Price: dec("20.00"), AllowSize: true}, enums.PizzaSizeSMALL); err != nil {
		t.Fatalf("AddProduct error: %v", err)
	}
	return c
}

func finalizer(t *testing.T, dir *customers.Directory) *orders.Finalizer {
	t.Helper()
	f, err := orders.NewFinalizer(dir)
	if err != nil {
		t.Fatalf("NewFinalizer error: %v", err)
	}
	return f
}

func TestBeginValidation(t *testing.T) {
	if _, err := Begin(dec("-1"), nil, enums.OrderTypeDelivery); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := Begin(dec("10"), nil, enums.OrderType("DRONE")); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	s, err := Begin(dec("10"), nil, "")
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}
	if s.OrderType() != enums.OrderTypeDelivery {
		t.Fatalf("expected DELIVERY default, got %s", s.OrderType())
	}
}

func TestDeliveryCheckoutScenario(t *testing.T) {
	c := scenarioCart(t)
	s, err := Begin(c.Subtotal(), feeTable(), enums.OrderTypeDelivery)
	if err != nil {
		t.Fatalf("Begin error: %v", err)
	}

	fee, matched, err := s.SetAddress(&types.Address{Street: "Rua A", Number: "1", Neighborhood: "  centro ", City: "Peruíbe"})
	if err != nil {
		t.Fatalf("SetAddress error: %v", err)
	}
	if !matched || !fee.Equal(dec("5")) {
		t.Fatalf("expected Centro fee 5, got %s matched=%v", fee, matched)
	}
	if !s.Total().Equal(dec("56")) {
		t.Fatalf("expected total 56, got %s", s.Total())
	}

	s.SetCustomer(Customer{Name: "Ana", Phone: "13999990000"})
	given := dec("60.00")
	part, err := s.ApplyPayment(enums.PaymentMethodCash, dec("56.00"), &given)
	if err != nil {
		t.Fatalf("ApplyPayment error: %v", err)
	}
	if !part.Change().Equal(dec("4")) {
		t.Fatalf("expected change 4, got %s", part.Change())
	}

	view := s.View()
	if !view.Settled || !view.Change.Equal(dec("4")) || !view.Remaining.IsZero() {
		t.Fatalf("unexpected view %+v", view)
	}

	dir := customers.NewDirectory(nil)
	order, err := finalizer(t, dir).Finalize(s.FinalizeInput(c))
	if err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	if order.Status != enums.OrderStatusDelivering || !order.Total.Equal(dec("56")) || len(order.Payments) != 1 {
		t.Fatalf("unexpected order %+v", order)
	}
	customer, ok := dir.FindByPhone("13999990000")
	if !ok || customer.TotalOrders != 1 || !customer.TotalSpent.Equal(dec("56")) {
		t.Fatalf("unexpected customer %+v", customer)
	}
}

func TestPickupCheckoutScenario(t *testing.T) {
	c := scenarioCart(t)
	s, _ := Begin(c.Subtotal(), feeTable(), enums.OrderTypeDelivery)
	if _, _, err := s.SetNeighborhood("Centro"); err != nil {
		t.Fatalf("SetNeighborhood error: %v", err)
	}

	if err := s.SetOrderType(enums.OrderTypePickup); err != nil {
		t.Fatalf("SetOrderType error: %v", err)
	}
	if !s.Fee().IsZero() || !s.Total().Equal(dec("51")) {
		t.Fatalf("pickup must force fee zero, got fee %s total %s", s.Fee(), s.Total())
	}

	s.SetCustomer(Customer{Name: "Balcão"})
	if _, err := s.ApplyPayment(enums.PaymentMethodDebitCard, dec("51"), nil); err != nil {
		t.Fatalf("ApplyPayment error: %v", err)
	}

	order, err := finalizer(t, customers.NewDirectory(nil)).Finalize(s.FinalizeInput(c))
	if err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	if order.Status != enums.OrderStatusCompleted || !order.Total.Equal(dec("51")) {
		t.Fatalf("unexpected pickup order %+v", order)
	}
}

func TestSplitCheckoutScenario(t *testing.T) {
	s, _ := Begin(dec("90.00"), nil, enums.OrderTypePickup)

	share := s.SetSplitPeople(3)
	if !share.Equal(dec("30")) {
		t.Fatalf("expected 30 per person, got %s", share)
	}

	cash := dec("30.00")
	s.ApplyPayment(enums.PaymentMethodCreditCard, share, nil)
	if got := s.SuggestedAmount(); !got.Equal(dec("20")) {
		t.Fatalf("expected remaining split 20, got %s", got)
	}
	s.ApplyPayment(enums.PaymentMethodPIX, share, nil)
	s.ApplyPayment(enums.PaymentMethodCash, share, &cash)

	view := s.View()
	if !view.Settled || !view.Change.IsZero() || len(view.Payments) != 3 {
		t.Fatalf("unexpected split view %+v", view)
	}
}

func TestFeeChangesKeepPayments(t *testing.T) {
	s, _ := Begin(dec("51"), feeTable(), enums.OrderTypeDelivery)
	s.ApplyPayment(enums.PaymentMethodPIX, dec("51"), nil)
	if !s.IsSettled() {
		t.Fatal("expected settled before fee")
	}

	if _, _, err := s.SetNeighborhood("Romar"); err != nil {
		t.Fatalf("SetNeighborhood error: %v", err)
	}
	if s.IsSettled() || !s.View().Remaining.Equal(dec("4")) {
		t.Fatalf("fee change must reopen the balance, remaining %s", s.View().Remaining)
	}
	if len(s.View().Payments) != 1 {
		t.Fatal("fee change must not drop payments")
	}

	fee, matched, err := s.SetNeighborhood("Atlantis")
	if err != nil {
		t.Fatalf("SetNeighborhood error: %v", err)
	}
	if matched || !fee.IsZero() || !s.IsSettled() {
		t.Fatalf("unmatched neighborhood costs nothing, fee %s matched=%v", fee, matched)
	}

	if err := s.Refresh(dec("60")); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if !s.View().Remaining.Equal(dec("9")) {
		t.Fatalf("expected remaining 9 after refresh, got %s", s.View().Remaining)
	}
}

func TestLowerTotalThanPaidIsRejected(t *testing.T) {
	s, _ := Begin(dec("51"), feeTable(), enums.OrderTypeDelivery)
	if _, _, err := s.SetNeighborhood("Centro"); err != nil {
		t.Fatalf("SetNeighborhood error: %v", err)
	}
	given := dec("60")
	if _, err := s.ApplyPayment(enums.PaymentMethodCash, dec("56"), &given); err != nil {
		t.Fatalf("ApplyPayment error: %v", err)
	}

	tests := []struct {
		name   string
		change func() error
	}{
		{name: "pickup drops the fee", change: func() error { return s.SetOrderType(enums.OrderTypePickup) }},
		{name: "cheaper neighborhood", change: func() error {
			_, _, err := s.SetNeighborhood("Romar")
			return err
		}},
		{name: "unknown neighborhood", change: func() error {
			_, _, err := s.SetAddress(&types.Address{Street: "Rua B", Neighborhood: "Atlantis"})
			return err
		}},
		{name: "smaller cart", change: func() error { return s.Refresh(dec("16")) }},
	}
	for _, tt := range tests {
		err := tt.change()
		if !errors.Is(err, ledger.ErrTargetBelowPaid) || pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
			t.Fatalf("%s: expected state conflict, got %v", tt.name, err)
		}
		view := s.View()
		if view.OrderType != enums.OrderTypeDelivery || view.Address.Neighborhood != "Centro" ||
			!view.Total.Equal(dec("56")) || !view.Change.Equal(dec("4")) {
			t.Fatalf("%s: rejected change must leave the session alone, got %+v", tt.name, view)
		}
	}

	if _, ok := s.RemovePayment(0); !ok {
		t.Fatal("expected payment to be removed")
	}
	if err := s.SetOrderType(enums.OrderTypePickup); err != nil {
		t.Fatalf("SetOrderType after removing payments: %v", err)
	}
	if !s.Total().Equal(dec("51")) {
		t.Fatalf("expected pickup total 51, got %s", s.Total())
	}
}

func TestApplyPaymentErrorMapping(t *testing.T) {
	s, _ := Begin(dec("10"), nil, enums.OrderTypePickup)

	_, err := s.ApplyPayment(enums.PaymentMethodPIX, dec("0"), nil)
	if !errors.Is(err, ledger.ErrNonPositiveAmount) || pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	part, err := s.ApplyPayment(enums.PaymentMethodPIX, dec("25"), nil)
	if err != nil || !part.Clamped() || !part.Amount.Equal(dec("10")) {
		t.Fatalf("expected clamped part, got %+v err=%v", part, err)
	}

	if _, err := s.ApplyPayment(enums.PaymentMethodPIX, dec("1"), nil); pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict once paid, got %v", err)
	}

	if _, ok := s.RemovePayment(5); ok {
		t.Fatal("out of range removal must be ignored")
	}
	if _, ok := s.RemovePayment(0); !ok || s.IsSettled() {
		t.Fatal("expected removal to reopen the balance")
	}
}

func TestCourierAndCustomer(t *testing.T) {
	s, _ := Begin(dec("10"), nil, enums.OrderTypeDelivery)
	s.SetCourier(&delivery.Courier{ID: "m1", Name: "Zé"})
	s.SetCustomer(Customer{Name: "  Ana  ", Phone: " 111 "})

	in := s.FinalizeInput(cart.New())
	if in.CourierName != "Zé" || in.CustomerName != "Ana" || in.CustomerPhone != "111" {
		t.Fatalf("unexpected finalize input %+v", in)
	}

	s.SetCourier(nil)
	if s.FinalizeInput(cart.New()).CourierID != "" {
		t.Fatal("expected courier cleared")
	}
}
