package smartorder

import (
	"strings"

	"github.com/angelmondragon/pizzapos-backend/internal/cart"
	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/angelmondragon/pizzapos-backend/pkg/types"
	"github.com/google/uuid"
)

// Fallback records a draft value replaced by a safe default.
type Fallback struct {
	Item   int    `json:"item"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Resolution is a draft made safe to load into the cart.
type Resolution struct {
	Lines               []cart.Line         `json:"lines"`
	CustomerName        string              `json:"customer_name,omitempty"`
	CustomerPhone       string              `json:"customer_phone,omitempty"`
	Address             *types.Address      `json:"address,omitempty"`
	PaymentMethod       enums.PaymentMethod `json:"payment_method,omitempty"`
	OrderType           enums.OrderType     `json:"order_type,omitempty"`
	ConfirmationMessage string              `json:"confirmation_message,omitempty"`
	MissingInfo         []string            `json:"missing_info"`
	Fallbacks           []Fallback          `json:"fallbacks"`
}

// Resolve validates every draft item against the menu. Unknown products fall back to
// the first menu entry, a missing size to LARGE, a quantity below one to one, and
// 2 or 3 distinct known flavors become a combination line.
func Resolve(draft Draft, menu *catalog.Catalog) Resolution {
	res := Resolution{
		CustomerName:        strings.TrimSpace(draft.CustomerName),
		CustomerPhone:       strings.TrimSpace(draft.CustomerPhone),
		Address:             draft.Address.Clone(),
		ConfirmationMessage: strings.TrimSpace(draft.ConfirmationMessage),
		MissingInfo:         append([]string{}, draft.MissingInfo...),
		Fallbacks:           []Fallback{},
	}
	if method, err := enums.ParsePaymentMethod(strings.ToUpper(strings.TrimSpace(draft.PaymentMethod))); err == nil {
		res.PaymentMethod = method
	}
	if orderType, err := enums.ParseOrderType(strings.ToUpper(strings.TrimSpace(draft.OrderType))); err == nil {
		res.OrderType = orderType
	}

	for i, item := range draft.Items {
		size, ok := ParseSize(item.Size)
		if !ok {
			if strings.TrimSpace(item.Size) != "" {
				res.Fallbacks = append(res.Fallbacks, Fallback{Item: i, Field: "size", Value: item.Size, Reason: "unknown size"})
			}
			size = enums.PizzaSizeLARGE
		}
		quantity := item.Quantity
		if quantity < 1 {
			res.Fallbacks = append(res.Fallbacks, Fallback{Item: i, Field: "quantity", Reason: "quantity below one"})
			quantity = 1
		}

		if line, ok := combinationLine(item, size, quantity, menu); ok {
			res.Lines = append(res.Lines, line)
			continue
		}

		product, found, ok := menu.FindOrDefault(item.ProductID)
		if !ok {
			res.Fallbacks = append(res.Fallbacks, Fallback{Item: i, Field: "productId", Value: item.ProductID, Reason: "menu is empty"})
			continue
		}
		if !found {
			res.Fallbacks = append(res.Fallbacks, Fallback{Item: i, Field: "productId", Value: item.ProductID, Reason: "unknown product, using first menu entry"})
		}
		if !product.AllowSize {
			size = enums.PizzaSizeLARGE
		}
		res.Lines = append(res.Lines, cart.Line{
			ID:       uuid.New(),
			Kind:     enums.LineKindSimple,
			Products: []catalog.Product{product},
			Quantity: quantity,
			Size:     size,
		})
	}
	if res.Lines == nil {
		res.Lines = []cart.Line{}
	}
	return res
}

func combinationLine(item DraftItem, size enums.PizzaSize, quantity int, menu *catalog.Catalog) (cart.Line, bool) {
	if len(item.Flavors) < cart.MinCombinationFlavors {
		return cart.Line{}, false
	}
	seen := map[string]struct{}{}
	flavors := make([]catalog.Product, 0, len(item.Flavors))
	for _, id := range item.Flavors {
		p, ok := menu.Find(strings.TrimSpace(id))
		if !ok {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		flavors = append(flavors, p)
	}
	if len(flavors) > cart.MaxCombinationFlavors {
		flavors = flavors[:cart.MaxCombinationFlavors]
	}
	line := cart.Line{
		ID:       uuid.New(),
		Kind:     enums.LineKindCombination,
		Products: flavors,
		Quantity: quantity,
		Size:     size,
	}
	if line.Validate() != nil {
		return cart.Line{}, false
	}
	return line, true
}
