package menu

import "time"

type Unit string

const (
	UnitDona       Unit = "dona" // piece, whole units only
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitDona, UnitGram, UnitKilogram, UnitMilliliter, UnitLiter:
		return true
	}
	return false
}

// WholeOnly reports whether quantities in this unit must be integers.
func (u Unit) WholeOnly() bool { return u == UnitDona }

type Ingredient struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	StockQuantity float64   `json:"stock_quantity"`
	Unit          Unit      `json:"unit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Product struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	PriceCents          int       `json:"price_cents"`
	Category            string    `json:"category"`
	ManualStockEnabled  bool      `json:"manual_stock_enabled"`
	ManualStockQuantity *int      `json:"manual_stock_quantity,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// RecipeLink declares how much of an ingredient one unit of a product consumes.
type RecipeLink struct {
	ProductID      string  `json:"product_id"`
	IngredientID   string  `json:"ingredient_id"`
	QuantityNeeded float64 `json:"quantity_needed"`
}
