package customers

import (
	"strings"
	"time"

	"github.com/angelmondragon/pizzapos-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer aggregates a caller's order history. Phone is the natural key.
type Customer struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	Address       *types.Address  `json:"address,omitempty"`
	LastOrderDate *time.Time      `json:"last_order_date,omitempty"`
	TotalOrders   int             `json:"total_orders"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
}

func (c Customer) clone() Customer {
	c.Address = c.Address.Clone()
	if c.LastOrderDate != nil {
		at := *c.LastOrderDate
		c.LastOrderDate = &at
	}
	return c
}

// UpsertInput is what a finalized order contributes to the directory.
type UpsertInput struct {
	Name    string
	Phone   string
	Address *types.Address
	Total   decimal.Decimal
	At      time.Time
}

// Directory keeps customers newest first.
type Directory struct {
	customers []Customer
	newID     func() uuid.UUID
}

func NewDirectory(customers []Customer) *Directory {
	d := &Directory{newID: uuid.New}
	d.customers = make([]Customer, 0, len(customers))
	for _, c := range customers {
		d.customers = append(d.customers, c.clone())
	}
	return d
}

func normalizePhone(phone string) string {
	return strings.TrimSpace(phone)
}

// FindByPhone returns the customer registered under phone.
func (d *Directory) FindByPhone(phone string) (Customer, bool) {
	phone = normalizePhone(phone)
	if phone == "" {
		return Customer{}, false
	}
	for _, c := range d.customers {
		if c.Phone == phone {
			return c.clone(), true
		}
	}
	return Customer{}, false
}

func (d *Directory) FindByID(id uuid.UUID) (Customer, bool) {
	for _, c := range d.customers {
		if c.ID == id {
			return c.clone(), true
		}
	}
	return Customer{}, false
}

// Upsert records an order against the phone's customer. An existing customer gets
// the new name, the new address when one is given, and incremented counters.
// An empty phone records nothing and reports false.
func (d *Directory) Upsert(in UpsertInput) (Customer, bool) {
	phone := normalizePhone(in.Phone)
	if phone == "" {
		return Customer{}, false
	}
	at := in.At

	for i := range d.customers {
		c := &d.customers[i]
		if c.Phone != phone {
			continue
		}
		if name := strings.TrimSpace(in.Name); name != "" {
			c.Name = name
		}
		if in.Address != nil {
			c.Address = in.Address.Clone()
		}
		c.TotalOrders++
		c.TotalSpent = c.TotalSpent.Add(in.Total)
		c.LastOrderDate = &at
		return c.clone(), true
	}

	created := Customer{
		ID:            d.newID(),
		Name:          strings.TrimSpace(in.Name),
		Phone:         phone,
		Address:       in.Address.Clone(),
		LastOrderDate: &at,
		TotalOrders:   1,
		TotalSpent:    in.Total,
	}
	d.customers = append([]Customer{created}, d.customers...)
	return created.clone(), true
}

// Search matches a case-insensitive name substring or a phone substring.
func (d *Directory) Search(term string) []Customer {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]Customer, 0, len(d.customers))
	for _, c := range d.customers {
		if needle == "" || strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(c.Phone, needle) {
			out = append(out, c.clone())
		}
	}
	return out
}

// List returns every customer, newest first.
func (d *Directory) List() []Customer {
	return d.Search("")
}

func (d *Directory) Len() int {
	return len(d.customers)
}
