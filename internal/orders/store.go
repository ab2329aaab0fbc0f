package orders

import (
	"errors"
	"strings"

	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pizzapos-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("order status transition not allowed")
)

// DateLayout is the day format accepted by Filter.Date.
const DateLayout = "2006-01-02"

// Filter narrows the order history. Zero values match everything.
type Filter struct {
	Date   string
	Method enums.PaymentMethod
	Status enums.OrderStatus
	Search string
}

func (f Filter) matches(o Order) bool {
	if f.Date != "" && o.CreatedAt.Format(DateLayout) != f.Date {
		return false
	}
	if f.Method != "" && o.PaymentMethod != f.Method {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	if needle == "" {
		return true
	}
	haystack := []string{o.ID.String(), o.CustomerName}
	if o.Address != nil {
		haystack = append(haystack, o.Address.Street, o.Address.Neighborhood)
	}
	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// Totals summarizes a filtered history.
type Totals struct {
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

// Store keeps orders newest first.
type Store struct {
	orders []Order
}

func NewStore(existing []Order) *Store {
	s := &Store{orders: make([]Order, 0, len(existing))}
	for _, o := range existing {
		s.orders = append(s.orders, o.Clone())
	}
	return s
}

// Add prepends a finalized order.
func (s *Store) Add(o Order) {
	s.orders = append([]Order{o.Clone()}, s.orders...)
}

func (s *Store) Find(id uuid.UUID) (Order, bool) {
	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return Order{}, false
}

// All returns every order newest first.
func (s *Store) All() []Order {
	return s.List(Filter{})
}

func (s *Store) List(filter Filter) []Order {
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if filter.matches(o) {
			out = append(out, o.Clone())
		}
	}
	return out
}

func (s *Store) Totals(filter Filter) Totals {
	t := Totals{Revenue: decimal.Zero}
	for _, o := range s.orders {
		if filter.matches(o) {
			t.Revenue = t.Revenue.Add(o.Total)
			t.Count++
		}
	}
	return t
}

func (s *Store) Len() int {
	return len(s.orders)
}

func (s *Store) index(id uuid.UUID) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// CompleteDelivery moves a DELIVERING order to COMPLETED.
func (s *Store) CompleteDelivery(id uuid.UUID) (Order, error) {
	idx := s.index(id)
	if idx < 0 {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrOrderNotFound, "order not found")
	}
	current := s.orders[idx].Status
	if !current.CanTransitionTo(enums.OrderStatusCompleted) {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrInvalidTransition, "order is not out for delivery").
			WithDetails(map[string]any{"status": current})
	}
	s.orders[idx].Status = enums.OrderStatusCompleted
	return s.orders[idx].Clone(), nil
}

// AttachFiscalID records the fiscal receipt identifier without touching any other field.
func (s *Store) AttachFiscalID(id uuid.UUID, fiscalID string) (Order, error) {
	idx := s.index(id)
	if idx < 0 {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrOrderNotFound, "order not found")
	}
	fiscalID = strings.TrimSpace(fiscalID)
	if fiscalID == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "fiscal id is required")
	}
	s.orders[idx].FiscalID = &fiscalID
	return s.orders[idx].Clone(), nil
}
