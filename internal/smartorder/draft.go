package smartorder

import (
	"context"
	"strings"

	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/angelmondragon/pizzapos-backend/pkg/types"
)

// DraftItem is one untrusted line suggested by the parser.
type DraftItem struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Size      string   `json:"size,omitempty"`
	Flavors   []string `json:"flavors,omitempty"`
}

// Draft is the structured order extracted from free text.
type Draft struct {
	Items               []DraftItem    `json:"items"`
	CustomerName        string         `json:"customerName,omitempty"`
	CustomerPhone       string         `json:"customerPhone,omitempty"`
	Address             *types.Address `json:"address,omitempty"`
	PaymentMethod       string         `json:"paymentMethod,omitempty"`
	OrderType           string         `json:"orderType,omitempty"`
	ConfirmationMessage string         `json:"confirmationMessage"`
	MissingInfo         []string       `json:"missingInfo,omitempty"`
}

// Parser turns free text into a Draft. Implementations call external services.
type Parser interface {
	Parse(ctx context.Context, text string, menu []catalog.SimplifiedProduct) (Draft, error)
}

var sizeAliases = map[string]enums.PizzaSize{
	"small":   enums.PizzaSizeSMALL,
	"pequena": enums.PizzaSizeSMALL,
	"broto":   enums.PizzaSizeSMALL,
	"medium":  enums.PizzaSizeMEDIUM,
	"média":   enums.PizzaSizeMEDIUM,
	"media":   enums.PizzaSizeMEDIUM,
	"large":   enums.PizzaSizeLARGE,
	"grande":  enums.PizzaSizeLARGE,
}

// ParseSize maps the parser's size text, in English or Portuguese, to a PizzaSize.
func ParseSize(raw string) (enums.PizzaSize, bool) {
	size, ok := sizeAliases[strings.ToLower(strings.TrimSpace(raw))]
	return size, ok
}
