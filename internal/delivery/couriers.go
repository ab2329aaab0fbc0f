package delivery

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrCourierNameRequired = errors.New("courier name is required")
	ErrCourierNotFound     = errors.New("courier not found")
)

// Courier is a delivery rider.
type Courier struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Roster is the list of couriers known to the terminal.
type Roster struct {
	couriers []Courier
}

func NewRoster(couriers []Courier) *Roster {
	out := make([]Courier, len(couriers))
	copy(out, couriers)
	return &Roster{couriers: out}
}

// Add registers an active courier.
func (r *Roster) Add(name string) (Courier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Courier{}, ErrCourierNameRequired
	}
	c := Courier{ID: uuid.NewString(), Name: name, Active: true}
	r.couriers = append(r.couriers, c)
	return c, nil
}

func (r *Roster) Remove(id string) bool {
	for i, c := range r.couriers {
		if c.ID == id {
			r.couriers = append(r.couriers[:i], r.couriers[i+1:]...)
			return true
		}
	}
	return false
}

// SetActive toggles availability.
func (r *Roster) SetActive(id string, active bool) (Courier, error) {
	for i := range r.couriers {
		if r.couriers[i].ID == id {
			r.couriers[i].Active = active
			return r.couriers[i], nil
		}
	}
	return Courier{}, ErrCourierNotFound
}

func (r *Roster) Find(id string) (Courier, bool) {
	for _, c := range r.couriers {
		if c.ID == id {
			return c, true
		}
	}
	return Courier{}, false
}

// List returns every courier; Active filters to available riders.
func (r *Roster) List() []Courier {
	out := make([]Courier, len(r.couriers))
	copy(out, r.couriers)
	return out
}

func (r *Roster) Active() []Courier {
	out := make([]Courier, 0, len(r.couriers))
	for _, c := range r.couriers {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}
