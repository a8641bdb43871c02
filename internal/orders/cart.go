package orders

import (
	"fmt"

	"github.com/bekzodm/oshxona/internal/menu"
)

// consumeCart checks every cart line against a working copy of the
// locked stocks and accumulates the exact per-ingredient consumption.
// Lines are consumed in cart order, so two lines sharing an ingredient
// compete for the same units. Any shortage rejects the whole cart.
func consumeCart(lines []LineInput, products map[string]menu.Product, links map[string][]menu.RecipeLink, stocks map[string]menu.Ingredient) ([]Item, int, map[string]float64, error) {
	remaining := make(map[string]menu.Ingredient, len(stocks))
	for id, ing := range stocks {
		remaining[id] = ing
	}

	var (
		shortages []Shortage
		total     int
		items     = make([]Item, 0, len(lines))
		usage     = make(map[string]float64)
	)
	for _, line := range lines {
		p, ok := products[line.ProductID]
		if !ok {
			return nil, 0, nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
		if line.Qty <= 0 {
			return nil, 0, nil, fmt.Errorf("%w (product %s)", ErrQuantityInvalid, p.Name)
		}

		recipe := links[line.ProductID]
		available := availableFor(p, recipe, remaining)
		if available < line.Qty {
			shortages = append(shortages, Shortage{
				ProductID: p.ID, Name: p.Name, Requested: line.Qty, Available: available,
			})
			continue
		}

		if !p.ManualStockEnabled {
			for _, l := range recipe {
				if l.QuantityNeeded <= 0 {
					continue
				}
				take := l.QuantityNeeded * float64(line.Qty)
				ing := remaining[l.IngredientID]
				ing.StockQuantity -= take
				remaining[l.IngredientID] = ing
				usage[l.IngredientID] += take
			}
		}

		total += p.PriceCents * line.Qty
		items = append(items, Item{ProductID: p.ID, Name: p.Name, PriceCents: p.PriceCents, Qty: line.Qty})
	}
	if len(shortages) > 0 {
		return nil, 0, nil, &OutOfStockError{Shortages: shortages}
	}
	return items, total, usage, nil
}

func availableFor(p menu.Product, recipe []menu.RecipeLink, stocks map[string]menu.Ingredient) int {
	if p.ManualStockEnabled {
		if p.ManualStockQuantity == nil || *p.ManualStockQuantity < 0 {
			return 0
		}
		return *p.ManualStockQuantity
	}
	return menu.DerivedUnits(recipe, stocks)
}
