package pricing

import (
	"github.com/angelmondragon/pizzapos-backend/internal/catalog"
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// SmallFallbackFactor applies to SMALL lines whose product has no dedicated small price.
var SmallFallbackFactor = decimal.RequireFromString("0.8")

// Line is anything priced from one or more constituent products.
type Line interface {
	Flavors() []catalog.Product
}

// ProductPrice resolves the price of a single product at the given size.
func ProductPrice(product catalog.Product, size enums.PizzaSize) decimal.Decimal {
	if size != enums.PizzaSizeSMALL {
		return product.Price
	}
	if product.PriceSmall != nil {
		return *product.PriceSmall
	}
	return product.Price.Mul(SmallFallbackFactor).Round(2)
}

// UnitPrice charges the most expensive constituent. An empty flavor set prices at zero.
func UnitPrice(line Line, size enums.PizzaSize) decimal.Decimal {
	return MaxPrice(line.Flavors(), size)
}

// MaxPrice is UnitPrice over a plain product list.
func MaxPrice(products []catalog.Product, size enums.PizzaSize) decimal.Decimal {
	best := decimal.Zero
	for i, p := range products {
		price := ProductPrice(p, size)
		if i == 0 || price.GreaterThan(best) {
			best = price
		}
	}
	return best
}

// LineTotal multiplies the unit price by quantity.
func LineTotal(line Line, size enums.PizzaSize, quantity int) decimal.Decimal {
	return UnitPrice(line, size).Mul(decimal.NewFromInt(int64(quantity)))
}
