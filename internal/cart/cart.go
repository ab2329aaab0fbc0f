package cart

import (
	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the ordered order-in-progress. It is owned by a single checkout interaction.
type Cart struct {
	lines []Line
	newID func() uuid.UUID
}

// Option customizes a Cart.
type Option func(*Cart)

// WithIDGenerator overrides line id generation.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(c *Cart) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New returns an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{newID: uuid.New}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore rebuilds a cart from previously persisted lines.
func Restore(lines []Line, opts ...Option) *Cart {
	c := New(opts...)
	c.lines = CloneLines(lines)
	return c
}

func normalizeSize(product catalog.Product, size enums.PizzaSize) enums.PizzaSize {
	if size == "" || !product.AllowSize {
		return enums.PizzaSizeLARGE
	}
	return size
}

// AddProduct appends a SIMPLE line with quantity 1.
func (c *Cart) AddProduct(product catalog.Product, size enums.PizzaSize) (Line, error) {
	size = normalizeSize(product, size)
	if !size.IsValid() {
		return Line{}, ErrInvalidSize
	}
	line := Line{
		ID:       c.newID(),
		Kind:     enums.LineKindSimple,
		Products: []catalog.Product{product},
		Quantity: 1,
		Size:     size,
	}
	line = line.Clone()
	c.lines = append(c.lines, line)
	return line.Clone(), nil
}

// AddCombination appends a COMBINATION line of 2 to 3 distinct flavors with quantity 1.
func (c *Cart) AddCombination(flavors []catalog.Product, size enums.PizzaSize) (Line, error) {
	if size == "" {
		size = enums.PizzaSizeLARGE
	}
	if !size.IsValid() {
		return Line{}, ErrInvalidSize
	}
	if err := validateFlavors(flavors); err != nil {
		return Line{}, err
	}
	line := Line{
		ID:       c.newID(),
		Kind:     enums.LineKindCombination,
		Products: flavors,
		Quantity: 1,
		Size:     size,
	}
	line = line.Clone()
	c.lines = append(c.lines, line)
	return line.Clone(), nil
}

// Append adds an already-built line after validating it. A zero id is replaced.
func (c *Cart) Append(line Line) (Line, error) {
	if line.ID == uuid.Nil {
		line.ID = c.newID()
	}
	if err := line.Validate(); err != nil {
		return Line{}, err
	}
	line = line.Clone()
	c.lines = append(c.lines, line)
	return line.Clone(), nil
}

// SetQuantity adjusts a line by delta. The quantity never drops below 1.
// The second result is false when the line does not exist.
func (c *Cart) SetQuantity(lineID uuid.UUID, delta int) (Line, bool) {
	for i := range c.lines {
		if c.lines[i].ID != lineID {
			continue
		}
		next := c.lines[i].Quantity + delta
		if next < 1 {
			next = 1
		}
		c.lines[i].Quantity = next
		return c.lines[i].Clone(), true
	}
	return Line{}, false
}

// RemoveLine drops a line. Unknown ids are a no-op; the result reports whether anything was removed.
func (c *Cart) RemoveLine(lineID uuid.UUID) bool {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns a copy of the line with the given id.
func (c *Cart) Find(lineID uuid.UUID) (Line, bool) {
	for _, l := range c.lines {
		if l.ID == lineID {
			return l.Clone(), true
		}
	}
	return Line{}, false
}

// Lines returns a deep copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	return CloneLines(c.lines)
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount sums quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sums unit price times quantity over every line.
func (c *Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.lines)
}

// Reset replaces the contents with lines, keeping the id generator.
func (c *Cart) Reset(lines []Line) {
	c.lines = CloneLines(lines)
}

// Clear empties the cart after a successful checkout.
func (c *Cart) Clear() {
	c.lines = nil
}
