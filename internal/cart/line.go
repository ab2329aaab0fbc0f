package cart

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	"github.com/angelmondragon/pizzapos-backend/internal/pricing"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinCombinationFlavors = 2
	MaxCombinationFlavors = 3
)

var (
	ErrCombinationSize      = fmt.Errorf("combination must carry between %d and %d flavors", MinCombinationFlavors, MaxCombinationFlavors)
	ErrCombinationDuplicate = fmt.Errorf("combination flavors must be distinct")
	ErrInvalidSize          = fmt.Errorf("invalid pizza size")
)

// Line is one cart row: a single product (SIMPLE) or a split-flavor COMBINATION.
type Line struct {
	ID       uuid.UUID         `json:"id"`
	Kind     enums.LineKind    `json:"kind"`
	Products []catalog.Product `json:"products"`
	Quantity int               `json:"quantity"`
	Size     enums.PizzaSize   `json:"size"`
}

// Flavors implements pricing.Line.
func (l Line) Flavors() []catalog.Product {
	return l.Products
}

func (l Line) IsCombination() bool {
	return l.Kind == enums.LineKindCombination
}

// UnitPrice prices the line at its own size.
func (l Line) UnitPrice() decimal.Decimal {
	return pricing.UnitPrice(l, l.Size)
}

// Total is UnitPrice times quantity.
func (l Line) Total() decimal.Decimal {
	return pricing.LineTotal(l, l.Size, l.Quantity)
}

// Description renders "1/2 A + 1/2 B" for combinations and the product name otherwise.
func (l Line) Description() string {
	if !l.IsCombination() {
		if len(l.Products) == 0 {
			return ""
		}
		return l.Products[0].Name
	}
	fraction := fmt.Sprintf("1/%d ", len(l.Products))
	names := make([]string, 0, len(l.Products))
	for _, p := range l.Products {
		names = append(names, fraction+p.Name)
	}
	return strings.Join(names, " + ")
}

// Clone returns a deep copy so orders never alias the live cart.
func (l Line) Clone() Line {
	out := l
	out.Products = make([]catalog.Product, len(l.Products))
	for i, p := range l.Products {
		if p.PriceSmall != nil {
			small := *p.PriceSmall
			p.PriceSmall = &small
		}
		out.Products[i] = p
	}
	return out
}

// Validate checks the tagged-variant invariants.
func (l Line) Validate() error {
	if l.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	if !l.Size.IsValid() {
		return ErrInvalidSize
	}
	switch l.Kind {
	case enums.LineKindSimple:
		if len(l.Products) != 1 {
			return fmt.Errorf("simple line must carry exactly one product")
		}
	case enums.LineKindCombination:
		return validateFlavors(l.Products)
	default:
		return fmt.Errorf("invalid line kind %q", l.Kind)
	}
	return nil
}

func validateFlavors(products []catalog.Product) error {
	if len(products) < MinCombinationFlavors || len(products) > MaxCombinationFlavors {
		return ErrCombinationSize
	}
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			return ErrCombinationDuplicate
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// CloneLines deep-copies a line slice.
func CloneLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}

// Subtotal sums line totals.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}
	return total
}
