package types

import "strings"

// Address is a delivery address as typed at the counter.
type Address struct {
	Street       string  `json:"street"`
	Number       string  `json:"number"`
	Neighborhood string  `json:"neighborhood"`
	Complement   *string `json:"complement,omitempty"`
	City         string  `json:"city"`
}

// IsComplete reports whether every mandatory field carries text.
func (a Address) IsComplete() bool {
	return strings.TrimSpace(a.Street) != "" &&
		strings.TrimSpace(a.Number) != "" &&
		strings.TrimSpace(a.Neighborhood) != "" &&
		strings.TrimSpace(a.City) != ""
}

// Format renders the single-line form printed on receipts.
func (a Address) Format() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(a.Street))
	b.WriteString(", ")
	b.WriteString(strings.TrimSpace(a.Number))
	if a.Complement != nil && strings.TrimSpace(*a.Complement) != "" {
		b.WriteString(" - ")
		b.WriteString(strings.TrimSpace(*a.Complement))
	}
	b.WriteString(" - ")
	b.WriteString(strings.TrimSpace(a.Neighborhood))
	b.WriteString(", ")
	b.WriteString(strings.TrimSpace(a.City))
	return b.String()
}

// Clone returns a deep copy so snapshots never alias caller state.
func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	out := *a
	if a.Complement != nil {
		complement := *a.Complement
		out.Complement = &complement
	}
	return &out
}
