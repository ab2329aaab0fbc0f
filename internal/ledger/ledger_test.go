package ledger

import (
	"errors"
	"testing"

	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func newLedger(t *testing.T, target string) *Ledger {
	t.Helper()
	l, err := New(dec(target))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	return l
}

func TestNewRejectsNegativeTarget(t *testing.T) {
	if _, err := New(dec("-1")); !errors.Is(err, ErrNegativeTarget) {
		t.Fatalf("expected negative target error, got %v", err)
	}
}

func TestAddPaymentClampsToRemaining(t *testing.T) {
	l := newLedger(t, "30")

	part, err := l.AddPayment(enums.PaymentMethodCreditCard, dec("1000"), nil)
	if err != nil {
		t.Fatalf("AddPayment error: %v", err)
	}
	if !part.Amount.Equal(dec("30")) || !part.Requested.Equal(dec("1000")) {
		t.Fatalf("unexpected part %+v", part)
	}
	if !part.Clamped() {
		t.Fatal("expected clamped flag")
	}
	if !l.TotalPaid().Equal(dec("30")) {
		t.Fatalf("expected total paid 30, got %s", l.TotalPaid())
	}
	if !l.Remaining().IsZero() {
		t.Fatalf("remaining must never go negative, got %s", l.Remaining())
	}
	if !l.IsSettled() {
		t.Fatal("expected settled ledger")
	}
}

func TestAddPaymentRejections(t *testing.T) {
	l := newLedger(t, "50")

	tests := []struct {
		name      string
		method    enums.PaymentMethod
		amount    string
		cashGiven *decimal.Decimal
		want      error
	}{
		{name: "zero", method: enums.PaymentMethodPIX, amount: "0", want: ErrNonPositiveAmount},
		{name: "negative", method: enums.PaymentMethodPIX, amount: "-5", want: ErrNonPositiveAmount},
		{name: "unknown method", method: enums.PaymentMethod("BITCOIN"), amount: "5", want: ErrInvalidMethod},
		{name: "negative cash", method: enums.PaymentMethodCash, amount: "5", cashGiven: decPtr("-1"), want: ErrNegativeCash},
	}

	for _, tt := range tests {
		if _, err := l.AddPayment(tt.method, dec(tt.amount), tt.cashGiven); !errors.Is(err, tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
	if l.Len() != 0 {
		t.Fatalf("rejected payments must not be recorded, got %d parts", l.Len())
	}

	if _, err := l.AddPayment(enums.PaymentMethodPIX, dec("50"), nil); err != nil {
		t.Fatalf("AddPayment error: %v", err)
	}
	if _, err := l.AddPayment(enums.PaymentMethodPIX, dec("1"), nil); !errors.Is(err, ErrNothingOwed) {
		t.Fatalf("expected nothing owed error, got %v", err)
	}
}

func TestCashChange(t *testing.T) {
	l := newLedger(t, "30")
	part, err := l.AddPayment(enums.PaymentMethodCash, dec("30"), decPtr("50"))
	if err != nil {
		t.Fatalf("AddPayment error: %v", err)
	}
	if !part.Change().Equal(dec("20")) || !l.Change().Equal(dec("20")) {
		t.Fatalf("expected change 20, got part=%s ledger=%s", part.Change(), l.Change())
	}

	exact := newLedger(t, "30")
	exact.AddPayment(enums.PaymentMethodCash, dec("30"), decPtr("30"))
	if !exact.Change().IsZero() {
		t.Fatalf("expected zero change, got %s", exact.Change())
	}

	card := newLedger(t, "30")
	cardPart, _ := card.AddPayment(enums.PaymentMethodDebitCard, dec("30"), decPtr("100"))
	if cardPart.CashGiven != nil || !card.Change().IsZero() {
		t.Fatal("cash given is only kept for CASH parts")
	}

	short := newLedger(t, "30")
	shortPart, err := short.AddPayment(enums.PaymentMethodCash, dec("30"), decPtr("20"))
	if err != nil {
		t.Fatalf("cash below the amount must be accepted: %v", err)
	}
	if shortPart.CashGiven == nil || !short.Change().IsZero() || !short.IsSettled() {
		t.Fatalf("short cash owes no change, change %s", short.Change())
	}
}

func TestIsSettledTolerance(t *testing.T) {
	l := newLedger(t, "10")
	if l.IsSettled() {
		t.Fatal("positive target without parts is not settled")
	}

	l.AddPayment(enums.PaymentMethodPIX, dec("9.98"), nil)
	if l.IsSettled() {
		t.Fatalf("remaining %s is above tolerance", l.Remaining())
	}

	l.AddPayment(enums.PaymentMethodPIX, dec("0.01"), nil)
	if !l.IsSettled() {
		t.Fatalf("remaining %s is within tolerance", l.Remaining())
	}

	zero := newLedger(t, "0")
	if !zero.IsSettled() {
		t.Fatal("zero target is settled without parts")
	}

	strict, _ := New(dec("10"), WithTolerance(decimal.Zero))
	strict.AddPayment(enums.PaymentMethodPIX, dec("9.99"), nil)
	if strict.IsSettled() {
		t.Fatal("zero tolerance requires the exact total")
	}
}

func TestRemovePaymentRestoresTotals(t *testing.T) {
	l := newLedger(t, "90")
	l.AddPayment(enums.PaymentMethodCreditCard, dec("30"), nil)
	l.AddPayment(enums.PaymentMethodPIX, dec("30"), nil)

	paid := l.TotalPaid()
	removed, ok := l.RemovePayment(1)
	if !ok || removed.Method != enums.PaymentMethodPIX {
		t.Fatalf("unexpected removal %+v ok=%v", removed, ok)
	}
	if !l.Remaining().Equal(dec("60")) {
		t.Fatalf("expected remaining 60, got %s", l.Remaining())
	}

	l.AddPayment(removed.Method, removed.Requested, removed.CashGiven)
	if !l.TotalPaid().Equal(paid) {
		t.Fatalf("expected total paid %s after re-adding, got %s", paid, l.TotalPaid())
	}

	for _, idx := range []int{-1, 2, 100} {
		if _, ok := l.RemovePayment(idx); ok {
			t.Fatalf("index %d must be rejected", idx)
		}
	}
	if l.Len() != 2 {
		t.Fatalf("invalid removals must not change parts, got %d", l.Len())
	}
}

func TestSplitPaymentScenario(t *testing.T) {
	l := newLedger(t, "90.00")

	suggested := l.SuggestedSplit(3)
	if !suggested.Equal(dec("30")) {
		t.Fatalf("expected 30 per person, got %s", suggested)
	}

	l.AddPayment(enums.PaymentMethodCreditCard, suggested, nil)
	l.AddPayment(enums.PaymentMethodPIX, suggested, nil)
	l.AddPayment(enums.PaymentMethodCash, suggested, decPtr("30.00"))

	if !l.IsSettled() {
		t.Fatalf("expected settled, remaining %s", l.Remaining())
	}
	if !l.Change().IsZero() {
		t.Fatalf("expected no change, got %s", l.Change())
	}
	if l.Len() != 3 {
		t.Fatalf("expected three distinct parts, got %d", l.Len())
	}
	if method, _ := l.PrimaryMethod(); method != enums.PaymentMethodCreditCard {
		t.Fatalf("expected first part method as primary, got %s", method)
	}
}

func TestSuggestedAmountAndTarget(t *testing.T) {
	l := newLedger(t, "100")
	if got := l.SuggestedSplit(0); !got.Equal(dec("100")) {
		t.Fatalf("non-positive split counts as one person, got %s", got)
	}
	if got := l.SuggestedSplit(3); !got.Equal(dec("33.33")) {
		t.Fatalf("expected rounded split 33.33, got %s", got)
	}

	l.AddPayment(enums.PaymentMethodPIX, dec("40"), nil)
	if got := l.SuggestedAmount(2); !got.Equal(dec("30")) {
		t.Fatalf("expected remaining split 30, got %s", got)
	}

	if err := l.SetTarget(dec("105")); err != nil {
		t.Fatalf("SetTarget error: %v", err)
	}
	if l.Len() != 1 || !l.Remaining().Equal(dec("65")) {
		t.Fatalf("target change must keep parts, remaining %s", l.Remaining())
	}
	if err := l.SetTarget(dec("-1")); !errors.Is(err, ErrNegativeTarget) {
		t.Fatalf("expected negative target error, got %v", err)
	}
	if err := l.SetTarget(dec("40")); err != nil {
		t.Fatalf("target equal to paid must be accepted: %v", err)
	}
	if err := l.SetTarget(dec("39.99")); !errors.Is(err, ErrTargetBelowPaid) {
		t.Fatalf("expected target below paid error, got %v", err)
	}
	if !l.Target().Equal(dec("40")) || !l.IsSettled() || l.Overpaid() {
		t.Fatalf("rejected target must leave the ledger alone, target %s", l.Target())
	}

	parts := l.Parts()
	parts[0].Amount = dec("1")
	if !l.TotalPaid().Equal(dec("40")) {
		t.Fatal("Parts must return a copy")
	}
}

func TestRestore(t *testing.T) {
	parts := []Part{{Method: enums.PaymentMethodCash, Requested: dec("10"), Amount: dec("10"), CashGiven: decPtr("20")}}
	l, err := Restore(dec("10"), parts)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	*parts[0].CashGiven = dec("99")
	if !l.Change().Equal(dec("10")) {
		t.Fatalf("restored ledger must not alias input parts, change %s", l.Change())
	}
}

func TestRestoredLedgerOverpaid(t *testing.T) {
	parts := []Part{{Method: enums.PaymentMethodCash, Requested: dec("51"), Amount: dec("51"), CashGiven: decPtr("60")}}
	l, err := Restore(dec("16"), parts)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if !l.Overpaid() {
		t.Fatal("expected overpaid ledger")
	}

	settled := newLedger(t, "51")
	settled.AddPayment(enums.PaymentMethodPIX, dec("80"), nil)
	if settled.Overpaid() {
		t.Fatal("a settled ledger is not overpaid")
	}
}
