package catalog

import (
	"github.com/angelmondragon/pizzapos-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func price(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func smallPrice(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// DefaultMenu is the seed menu loaded when no catalog collaborator supplies one.
func DefaultMenu() []Product {
	return []Product{
		{ID: "p1", Name: "Mussarela", Description: "Molho, mussarela e orégano", Category: enums.ProductCategoryPizza, Price: price("45.00"), PriceSmall: smallPrice("32.00"), AllowSize: true},
		{ID: "p2", Name: "Calabresa", Description: "Calabresa fatiada e cebola", Category: enums.ProductCategoryPizza, Price: price("48.00"), PriceSmall: smallPrice("34.00"), AllowSize: true},
		{ID: "p3", Name: "Portuguesa", Description: "Presunto, ovo, cebola e ervilha", Category: enums.ProductCategoryPizza, Price: price("52.00"), AllowSize: true},
		{ID: "p4", Name: "Frango com Catupiry", Description: "Frango desfiado e catupiry", Category: enums.ProductCategoryPizza, Price: price("54.00"), AllowSize: true},
		{ID: "p5", Name: "Quatro Queijos", Description: "Mussarela, provolone, parmesão e catupiry", Category: enums.ProductCategoryPizza, Price: price("58.00"), PriceSmall: smallPrice("40.00"), AllowSize: true},
		{ID: "p6", Name: "Chocolate", Description: "Chocolate ao leite e granulado", Category: enums.ProductCategorySweetPizza, Price: price("46.00"), AllowSize: true},
		{ID: "p7", Name: "Romeu e Julieta", Description: "Goiabada com mussarela", Category: enums.ProductCategorySweetPizza, Price: price("47.00"), AllowSize: true},
		{ID: "d1", Name: "Refrigerante 2L", Category: enums.ProductCategoryDrink, Price: price("14.00")},
		{ID: "d2", Name: "Suco Natural 500ml", Category: enums.ProductCategoryDrink, Price: price("9.00")},
		{ID: "s1", Name: "Petit Gâteau", Category: enums.ProductCategoryDessert, Price: price("18.00")},
	}
}
