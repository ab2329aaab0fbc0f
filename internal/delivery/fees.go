package delivery

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Fee is a flat delivery charge for a neighborhood.
type Fee struct {
	ID           string          `json:"id"`
	Neighborhood string          `json:"neighborhood"`
	Price        decimal.Decimal `json:"price"`
}

// FeeTable is the per-store fee configuration in declaration order.
type FeeTable struct {
	fees []Fee
}

func NewFeeTable(fees []Fee) *FeeTable {
	out := make([]Fee, len(fees))
	copy(out, fees)
	return &FeeTable{fees: out}
}

func normalizeNeighborhood(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Lookup finds the first entry whose normalized neighborhood equals the normalized input.
func (t *FeeTable) Lookup(neighborhood string) (Fee, bool) {
	needle := normalizeNeighborhood(neighborhood)
	if needle == "" || t == nil {
		return Fee{}, false
	}
	for _, f := range t.fees {
		if normalizeNeighborhood(f.Neighborhood) == needle {
			return f, true
		}
	}
	return Fee{}, false
}

// FeeFor resolves the delivery charge. PICKUP is always free and an unmatched
// neighborhood costs nothing; matched tells the caller which case applied.
func (t *FeeTable) FeeFor(neighborhood string, orderType enums.OrderType) (decimal.Decimal, bool) {
	if orderType != enums.OrderTypeDelivery {
		return decimal.Zero, false
	}
	fee, ok := t.Lookup(neighborhood)
	if !ok {
		return decimal.Zero, false
	}
	return fee.Price, true
}

// Fees returns a copy of the table.
func (t *FeeTable) Fees() []Fee {
	if t == nil {
		return nil
	}
	out := make([]Fee, len(t.fees))
	copy(out, t.fees)
	return out
}

func (t *FeeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.fees)
}

// DecodeFees reads a JSON array of fees.
func DecodeFees(r io.Reader) ([]Fee, error) {
	var fees []Fee
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fees); err != nil {
		return nil, fmt.Errorf("decode delivery fees: %w", err)
	}
	for i, f := range fees {
		if strings.TrimSpace(f.Neighborhood) == "" {
			return nil, fmt.Errorf("delivery fee %d: neighborhood is required", i)
		}
		if f.Price.IsNegative() {
			return nil, fmt.Errorf("delivery fee %q: price must not be negative", f.Neighborhood)
		}
		if f.ID == "" {
			fees[i].ID = fmt.Sprintf("f%d", i+1)
		}
	}
	return fees, nil
}

// LoadFeeTable reads a fee file, or returns the built-in table when path is empty.
func LoadFeeTable(path string) (*FeeTable, error) {
	if strings.TrimSpace(path) == "" {
		return NewFeeTable(DefaultFees()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open delivery fees: %w", err)
	}
	defer f.Close()

	fees, err := DecodeFees(f)
	if err != nil {
		return nil, err
	}
	return NewFeeTable(fees), nil
}

// DefaultFees is the store's stock neighborhood table.
func DefaultFees() []Fee {
	entries := []struct {
		name  string
		price int64
	}{
		{"Jardim das flores", 4}, {"Ribamar", 3}, {"Romar", 4}, {"Jangada", 3},
		{"São João Batista", 4}, {"Park D'Ávila", 4}, {"Estação", 5}, {"Florida", 5},
		{"Itatins", 5}, {"Manacá dos itatins", 5}, {"Jardim Brasil", 5}, {"Estância dos eucaliptos", 6},
		{"Santa Isabel", 6}, {"Arpoador", 5}, {"Samburá", 5}, {"Bougainville 4", 8},
		{"Casa Blanca", 7}, {"Centro", 5}, {"Pérola negra", 8}, {"Caraguava antes da pista", 6},
		{"Caraguava depois da pista", 8}, {"Jardim imperador", 5}, {"Nova Peruíbe", 5}, {"Jd Peruíbe", 4},
		{"Oásis", 7}, {"Parque turístico", 7}, {"Jd Márcia", 7}, {"São José", 8}, {"Stella Maris", 4},
	}
	fees := make([]Fee, 0, len(entries))
	for i, e := range entries {
		fees = append(fees, Fee{ID: fmt.Sprintf("f%d", i+1), Neighborhood: e.name, Price: decimal.NewFromInt(e.price)})
	}
	return fees
}
