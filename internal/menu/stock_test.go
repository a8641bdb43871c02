package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestAvailableUnits_SingleIngredient(t *testing.T) {
	t.Parallel()

	products := []Product{{ID: "hotdog", Name: "Hotdog"}}
	ingredients := []Ingredient{{ID: "bun", Name: "Bun", StockQuantity: 10, Unit: UnitDona}}
	links := []RecipeLink{{ProductID: "hotdog", IngredientID: "bun", QuantityNeeded: 2}}

	assert.Equal(t, 5, AvailableUnits("hotdog", products, ingredients, links))
}

func TestAvailableUnits_ScarcestIngredientWins(t *testing.T) {
	t.Parallel()

	products := []Product{{ID: "combo", Name: "Combo"}}
	ingredients := []Ingredient{
		{ID: "bun", StockQuantity: 10, Unit: UnitDona},
		{ID: "sauce", StockQuantity: 3, Unit: UnitMilliliter},
	}
	links := []RecipeLink{
		{ProductID: "combo", IngredientID: "bun", QuantityNeeded: 2},
		{ProductID: "combo", IngredientID: "sauce", QuantityNeeded: 1},
	}

	assert.Equal(t, 3, AvailableUnits("combo", products, ingredients, links))
}

func TestAvailableUnits_NoRecipeMeansUnavailable(t *testing.T) {
	t.Parallel()

	products := []Product{{ID: "p1"}}
	assert.Equal(t, 0, AvailableUnits("p1", products, nil, nil))
}

func TestAvailableUnits_UnknownProduct(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, AvailableUnits("ghost", nil, nil, nil))
}

func TestAvailableUnits_MissingOrExhaustedIngredient(t *testing.T) {
	t.Parallel()

	products := []Product{{ID: "p1"}}
	links := []RecipeLink{
		{ProductID: "p1", IngredientID: "bun", QuantityNeeded: 1},
		{ProductID: "p1", IngredientID: "cheese", QuantityNeeded: 1},
	}

	// cheese record missing entirely
	ingredients := []Ingredient{{ID: "bun", StockQuantity: 10, Unit: UnitDona}}
	assert.Equal(t, 0, AvailableUnits("p1", products, ingredients, links))

	// cheese present but exhausted
	ingredients = append(ingredients, Ingredient{ID: "cheese", StockQuantity: 0, Unit: UnitGram})
	assert.Equal(t, 0, AvailableUnits("p1", products, ingredients, links))
}

func TestAvailableUnits_DegenerateLinksDoNotConstrain(t *testing.T) {
	t.Parallel()

	products := []Product{{ID: "p1"}}
	ingredients := []Ingredient{
		{ID: "bun", StockQuantity: 10, Unit: UnitDona},
		{ID: "wrap", StockQuantity: 4, Unit: UnitDona},
	}
	links := []RecipeLink{
		{ProductID: "p1", IngredientID: "bun", QuantityNeeded: 0}, // data error, skipped
		{ProductID: "p1", IngredientID: "wrap", QuantityNeeded: 1},
	}
	assert.Equal(t, 4, AvailableUnits("p1", products, ingredients, links))

	// only degenerate links: unavailable, not unlimited
	onlyBad := []RecipeLink{{ProductID: "p1", IngredientID: "bun", QuantityNeeded: 0}}
	assert.Equal(t, 0, AvailableUnits("p1", products, ingredients, onlyBad))
}

func TestAvailableUnits_ManualStockOverride(t *testing.T) {
	t.Parallel()

	products := []Product{{ID: "p1", ManualStockEnabled: true, ManualStockQuantity: intPtr(7)}}
	// recipe would say 0, manual wins
	assert.Equal(t, 7, AvailableUnits("p1", products, nil, nil))

	products[0].ManualStockQuantity = nil
	assert.Equal(t, 0, AvailableUnits("p1", products, nil, nil))
}

func TestAvailableUnits_Deterministic(t *testing.T) {
	t.Parallel()

	products := []Product{{ID: "p1"}}
	ingredients := []Ingredient{{ID: "bun", StockQuantity: 9, Unit: UnitDona}}
	links := []RecipeLink{{ProductID: "p1", IngredientID: "bun", QuantityNeeded: 2}}

	first := AvailableUnits("p1", products, ingredients, links)
	second := AvailableUnits("p1", products, ingredients, links)
	assert.Equal(t, first, second)
	assert.Equal(t, 4, first)
}

func TestDerivedUnits_FractionalQuantities(t *testing.T) {
	t.Parallel()

	ingredients := map[string]Ingredient{
		"flour": {ID: "flour", StockQuantity: 1.0, Unit: UnitKilogram},
	}
	recipe := []RecipeLink{{IngredientID: "flour", QuantityNeeded: 0.3}}
	assert.Equal(t, 3, DerivedUnits(recipe, ingredients))
}

func TestValidateLink(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateLink(UnitDona, 2))
	require.NoError(t, ValidateLink(UnitGram, 0.5))

	assert.ErrorIs(t, ValidateLink(UnitDona, 1.5), ErrWholeUnitsOnly)
	assert.ErrorIs(t, ValidateLink(UnitGram, 0), ErrQuantityNotPositive)
	assert.ErrorIs(t, ValidateLink(UnitDona, -1), ErrQuantityNotPositive)
}
