package enums

import "fmt"

// PizzaSize is the size selected for a cart line.
type PizzaSize string

const (
	PizzaSizeSMALL  PizzaSize = "SMALL"
	PizzaSizeMEDIUM PizzaSize = "MEDIUM"
	PizzaSizeLARGE  PizzaSize = "LARGE"
)

var validPizzaSizes = []PizzaSize{
	PizzaSizeSMALL,
	PizzaSizeMEDIUM,
	PizzaSizeLARGE,
}

// String implements fmt.Stringer.
func (p PizzaSize) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PizzaSize.
func (p PizzaSize) IsValid() bool {
	for _, candidate := range validPizzaSizes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePizzaSize converts raw input into a PizzaSize.
func ParsePizzaSize(value string) (PizzaSize, error) {
	for _, candidate := range validPizzaSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pizza size %q", value)
}
