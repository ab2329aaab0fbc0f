package ledger

import (
	"errors"

	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/angelmondragon/pizzapos-backend/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount = errors.New("payment amount must be greater than zero")
	ErrInvalidMethod     = errors.New("invalid payment method")
	ErrNothingOwed       = errors.New("order is already fully paid")
	ErrNegativeCash      = errors.New("cash given must not be negative")
	ErrNegativeTarget    = errors.New("target total must not be negative")
	ErrTargetBelowPaid   = errors.New("target total is lower than the amount already paid")
)

// Ledger accumulates payment parts against a target total.
type Ledger struct {
	target    decimal.Decimal
	parts     []Part
	tolerance decimal.Decimal
}

type Option func(*Ledger)

// WithTolerance overrides the settlement tolerance.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(l *Ledger) {
		if !tolerance.IsNegative() {
			l.tolerance = tolerance
		}
	}
}

// New opens a ledger for target.
func New(target decimal.Decimal, opts ...Option) (*Ledger, error) {
	if target.IsNegative() {
		return nil, ErrNegativeTarget
	}
	l := &Ledger{target: target, tolerance: money.Tolerance}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Restore rebuilds a ledger with existing parts.
func Restore(target decimal.Decimal, parts []Part, opts ...Option) (*Ledger, error) {
	l, err := New(target, opts...)
	if err != nil {
		return nil, err
	}
	l.parts = CloneParts(parts)
	return l, nil
}

func (l *Ledger) Target() decimal.Decimal {
	return l.target
}

// SetTarget changes the total owed (e.g. when the delivery fee changes). Parts are kept,
// so a target below what is already paid is rejected and the ledger is left unchanged.
func (l *Ledger) SetTarget(target decimal.Decimal) error {
	if target.IsNegative() {
		return ErrNegativeTarget
	}
	if l.TotalPaid().GreaterThan(target) {
		return ErrTargetBelowPaid
	}
	l.target = target
	return nil
}

// TotalPaid sums applied amounts.
func (l *Ledger) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.parts {
		total = total.Add(p.Amount)
	}
	return total
}

// Overpaid reports applied parts summing past the target plus tolerance. Only a
// restored ledger can get there.
func (l *Ledger) Overpaid() bool {
	return l.TotalPaid().GreaterThan(l.target.Add(l.tolerance))
}

// Remaining is max(0, target - paid).
func (l *Ledger) Remaining() decimal.Decimal {
	return money.NonNegative(l.target.Sub(l.TotalPaid()))
}

// IsSettled reports whether the balance is within tolerance and, for a positive target, at least one part exists.
func (l *Ledger) IsSettled() bool {
	if l.target.IsPositive() && len(l.parts) == 0 {
		return false
	}
	return l.Remaining().LessThanOrEqual(l.tolerance)
}

// AddPayment applies min(requested, remaining). cashGiven is kept only for CASH; cash
// at or below the applied amount just means no change is owed.
func (l *Ledger) AddPayment(method enums.PaymentMethod, requested decimal.Decimal, cashGiven *decimal.Decimal) (Part, error) {
	if !method.IsValid() {
		return Part{}, ErrInvalidMethod
	}
	if !requested.IsPositive() {
		return Part{}, ErrNonPositiveAmount
	}
	remaining := l.Remaining()
	if !remaining.IsPositive() {
		return Part{}, ErrNothingOwed
	}

	part := Part{
		Method:    method,
		Requested: requested,
		Amount:    money.Min(requested, remaining),
	}
	if method == enums.PaymentMethodCash && cashGiven != nil {
		if cashGiven.IsNegative() {
			return Part{}, ErrNegativeCash
		}
		given := *cashGiven
		part.CashGiven = &given
	}

	l.parts = append(l.parts, part)
	return part.clone(), nil
}

// RemovePayment drops the part at index. Out-of-range indexes report false.
func (l *Ledger) RemovePayment(index int) (Part, bool) {
	if index < 0 || index >= len(l.parts) {
		return Part{}, false
	}
	removed := l.parts[index]
	l.parts = append(l.parts[:index], l.parts[index+1:]...)
	return removed, true
}

// Parts returns a copy of the applied parts in order.
func (l *Ledger) Parts() []Part {
	return CloneParts(l.parts)
}

func (l *Ledger) Len() int {
	return len(l.parts)
}

// PrimaryMethod is the first part's method.
func (l *Ledger) PrimaryMethod() (enums.PaymentMethod, bool) {
	if len(l.parts) == 0 {
		return "", false
	}
	return l.parts[0].Method, true
}

// Change sums the cash change owed across parts.
func (l *Ledger) Change() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.parts {
		total = total.Add(p.Change())
	}
	return total
}

// SuggestedSplit is target / people. A non-positive count is treated as one person.
func (l *Ledger) SuggestedSplit(people int) decimal.Decimal {
	return perPerson(l.target, people)
}

// SuggestedAmount divides what is still owed among people.
func (l *Ledger) SuggestedAmount(people int) decimal.Decimal {
	return perPerson(l.Remaining(), people)
}

func perPerson(amount decimal.Decimal, people int) decimal.Decimal {
	if people < 1 {
		people = 1
	}
	return money.Round(amount.Div(decimal.NewFromInt(int64(people))))
}
