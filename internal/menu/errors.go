package menu

import "errors"

var (
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidUnit         = errors.New("unknown measurement unit")
	ErrNegativeStock       = errors.New("stock quantity must be >= 0")
	ErrNegativePrice       = errors.New("price must be >= 0")
	ErrQuantityNotPositive = errors.New("quantity needed must be > 0")
	ErrWholeUnitsOnly      = errors.New("dona ingredients take whole quantities only")
)
