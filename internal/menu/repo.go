package menu

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// Catalog loads everything availability depends on in one round of queries.
func (r *Repo) Catalog(ctx context.Context) ([]Product, []Ingredient, []RecipeLink, error) {
	products, err := r.ListProducts(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	ingredients, err := r.ListIngredients(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	links, err := r.ListLinks(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return products, ingredients, links, nil
}

func (r *Repo) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, stock_quantity, unit, created_at, updated_at
	                              FROM ingredients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.StockQuantity, &ing.Unit, &ing.CreatedAt, &ing.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (r *Repo) CreateIngredient(ctx context.Context, name string, stock float64, unit Unit) (Ingredient, error) {
	if !unit.Valid() {
		return Ingredient{}, ErrInvalidUnit
	}
	if stock < 0 {
		return Ingredient{}, ErrNegativeStock
	}
	if unit.WholeOnly() && stock != math.Trunc(stock) {
		return Ingredient{}, ErrWholeUnitsOnly
	}
	ing := Ingredient{ID: uuid.NewString(), Name: name, StockQuantity: stock, Unit: unit}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO ingredients(id, name, stock_quantity, unit)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		ing.ID, ing.Name, ing.StockQuantity, ing.Unit,
	).Scan(&ing.CreatedAt, &ing.UpdatedAt)
	if err != nil {
		return Ingredient{}, err
	}
	return ing, nil
}

func (r *Repo) UpdateIngredient(ctx context.Context, id, name string, stock float64, unit Unit) error {
	if !unit.Valid() {
		return ErrInvalidUnit
	}
	if stock < 0 {
		return ErrNegativeStock
	}
	if unit.WholeOnly() && stock != math.Trunc(stock) {
		return ErrWholeUnitsOnly
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE ingredients SET name=$2, stock_quantity=$3, unit=$4, updated_at=now()
		WHERE id=$1`, id, name, stock, unit)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

func (r *Repo) DeleteIngredient(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM ingredients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrIngredientNotFound
	}
	return nil
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, price_cents, category, manual_stock_enabled, manual_stock_quantity,
	                                     created_at, updated_at
	                              FROM products ORDER BY category, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Category, &p.ManualStockEnabled, &p.ManualStockQuantity,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if p.PriceCents < 0 {
		return Product{}, ErrNegativePrice
	}
	p.ID = uuid.NewString()
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, price_cents, category, manual_stock_enabled, manual_stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.PriceCents, p.Category, p.ManualStockEnabled, p.ManualStockQuantity,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) UpdateProduct(ctx context.Context, p Product) error {
	if p.PriceCents < 0 {
		return ErrNegativePrice
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET name=$2, price_cents=$3, category=$4,
		       manual_stock_enabled=$5, manual_stock_quantity=$6, updated_at=now()
		WHERE id=$1`,
		p.ID, p.Name, p.PriceCents, p.Category, p.ManualStockEnabled, p.ManualStockQuantity)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repo) ListLinks(ctx context.Context) ([]RecipeLink, error) {
	rows, err := r.DB.Query(ctx, `SELECT product_id, ingredient_id, quantity_needed FROM product_ingredients`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecipeLink
	for rows.Next() {
		var l RecipeLink
		if err := rows.Scan(&l.ProductID, &l.IngredientID, &l.QuantityNeeded); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpsertLink writes one recipe link, enforcing the whole-unit rule for
// dona ingredients.
func (r *Repo) UpsertLink(ctx context.Context, l RecipeLink) error {
	var unit Unit
	err := r.DB.QueryRow(ctx, `SELECT unit FROM ingredients WHERE id=$1`, l.IngredientID).Scan(&unit)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrIngredientNotFound
	}
	if err != nil {
		return err
	}
	if err := ValidateLink(unit, l.QuantityNeeded); err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, `
		INSERT INTO product_ingredients(product_id, ingredient_id, quantity_needed)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, ingredient_id) DO UPDATE SET quantity_needed = EXCLUDED.quantity_needed`,
		l.ProductID, l.IngredientID, l.QuantityNeeded)
	return err
}

func (r *Repo) DeleteLink(ctx context.Context, productID, ingredientID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM product_ingredients WHERE product_id=$1 AND ingredient_id=$2`,
		productID, ingredientID)
	return err
}
