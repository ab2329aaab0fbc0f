package ledger

import (
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Part is one applied payment. Requested is what the operator asked to apply,
// Amount is what the ledger accepted after clamping to the remaining balance.
type Part struct {
	Method    enums.PaymentMethod `json:"method"`
	Requested decimal.Decimal     `json:"requested"`
	Amount    decimal.Decimal     `json:"amount"`
	CashGiven *decimal.Decimal    `json:"cash_given,omitempty"`
}

// Clamped reports whether the requested amount exceeded what was still owed.
func (p Part) Clamped() bool {
	return p.Requested.GreaterThan(p.Amount)
}

// Change is the physical change owed for a CASH part.
func (p Part) Change() decimal.Decimal {
	if p.Method != enums.PaymentMethodCash || p.CashGiven == nil {
		return decimal.Zero
	}
	if p.CashGiven.LessThanOrEqual(p.Amount) {
		return decimal.Zero
	}
	return p.CashGiven.Sub(p.Amount)
}

func (p Part) clone() Part {
	if p.CashGiven != nil {
		given := *p.CashGiven
		p.CashGiven = &given
	}
	return p
}

// CloneParts deep-copies parts.
func CloneParts(parts []Part) []Part {
	if parts == nil {
		return nil
	}
	out := make([]Part, len(parts))
	for i, p := range parts {
		out[i] = p.clone()
	}
	return out
}
