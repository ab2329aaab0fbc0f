package enums

import "fmt"

// LineKind discriminates single-product cart lines from split-flavor combinations.
type LineKind string

const (
	LineKindSimple      LineKind = "SIMPLE"
	LineKindCombination LineKind = "COMBINATION"
)

var validLineKinds = []LineKind{
	LineKindSimple,
	LineKindCombination,
}

// String implements fmt.Stringer.
func (l LineKind) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LineKind.
func (l LineKind) IsValid() bool {
	for _, candidate := range validLineKinds {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLineKind converts raw input into a LineKind.
func ParseLineKind(value string) (LineKind, error) {
	for _, candidate := range validLineKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line kind %q", value)
}
