package menu

import "math"

// AvailableUnits computes how many units of a product can still be sold.
// Manual-stock products report the manually set number; everything else
// is derived from ingredient inventory through the recipe links.
func AvailableUnits(productID string, products []Product, ingredients []Ingredient, links []RecipeLink) int {
	var prod *Product
	for i := range products {
		if products[i].ID == productID {
			prod = &products[i]
			break
		}
	}
	if prod == nil {
		return 0
	}
	if prod.ManualStockEnabled {
		if prod.ManualStockQuantity == nil || *prod.ManualStockQuantity < 0 {
			return 0
		}
		return *prod.ManualStockQuantity
	}

	byID := make(map[string]Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	recipe := make([]RecipeLink, 0, 4)
	for _, l := range links {
		if l.ProductID == productID {
			recipe = append(recipe, l)
		}
	}
	return DerivedUnits(recipe, byID)
}

// DerivedUnits is the recipe-derived stock: the minimum over
// floor(stock / quantity_needed) across the product's links. A product
// with no recipe, a missing ingredient, or an exhausted ingredient is
// unavailable. Links with quantity_needed <= 0 are a data error and do
// not constrain the result.
func DerivedUnits(recipe []RecipeLink, ingredients map[string]Ingredient) int {
	if len(recipe) == 0 {
		return 0
	}

	limited := false
	min := 0
	for _, l := range recipe {
		ing, ok := ingredients[l.IngredientID]
		if !ok || ing.StockQuantity <= 0 {
			return 0
		}
		if l.QuantityNeeded <= 0 {
			continue
		}
		n := int(math.Floor(ing.StockQuantity / l.QuantityNeeded))
		if !limited || n < min {
			min = n
			limited = true
		}
	}
	if !limited {
		return 0
	}
	return min
}

// ValidateLink checks a recipe link quantity against the ingredient unit.
func ValidateLink(unit Unit, quantityNeeded float64) error {
	if quantityNeeded <= 0 {
		return ErrQuantityNotPositive
	}
	if unit.WholeOnly() && quantityNeeded != math.Trunc(quantityNeeded) {
		return ErrWholeUnitsOnly
	}
	return nil
}
