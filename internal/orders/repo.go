package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bekzodm/oshxona/internal/menu"
)

type LineInput struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type SubmitInput struct {
	ExternalID     string         `json:"external_id"`
	Customer       CustomerInfo   `json:"customer_info"`
	Items          []LineInput    `json:"items"`
	Location       string         `json:"location"`
	Lat            *float64       `json:"lat,omitempty"`
	Lng            *float64       `json:"lng,omitempty"`
	DeliveryOption DeliveryOption `json:"delivery_option"`
}

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, external_id, customer_name, customer_phone, items, location, lat, lng,
       total_cents, status, chef_id, curier_id, cancellation_reason, delivery_option, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o         Order
		itemsJSON []byte
		chef      *string
		courier   *string
		reason    *string
	)
	err := row.Scan(&o.ID, &o.ExternalID, &o.Customer.Name, &o.Customer.Phone, &itemsJSON, &o.Location,
		&o.Lat, &o.Lng, &o.TotalCents, &o.Status, &chef, &courier, &reason, &o.DeliveryOption,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return Order{}, fmt.Errorf("decode items: %w", err)
	}
	if chef != nil {
		o.ChefID = *chef
	}
	if courier != nil {
		o.CourierID = *courier
	}
	if reason != nil {
		o.CancellationReason = *reason
	}
	return o, nil
}

func (r *Repo) GetOrder(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *Repo) GetOrderByExternalID(ctx context.Context, externalID string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE external_id=$1`, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Submit places an order in one transaction: recipe ingredients of the
// whole cart are locked, every line is checked against the locked stock,
// and either all decrements plus the order row commit or nothing does.
// Idempotent via external_id.
func (r *Repo) Submit(ctx context.Context, in SubmitInput) (Order, bool, error) {
	if existing, err := r.GetOrderByExternalID(ctx, in.ExternalID); err == nil {
		return existing, true, nil
	} else if !errors.Is(err, ErrOrderNotFound) {
		return Order{}, false, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	productIDs := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		productIDs = append(productIDs, it.ProductID)
	}

	products, err := loadProducts(ctx, tx, productIDs)
	if err != nil {
		return Order{}, false, err
	}
	links, err := loadLinks(ctx, tx, productIDs)
	if err != nil {
		return Order{}, false, err
	}
	locked, err := lockIngredients(ctx, tx, links)
	if err != nil {
		return Order{}, false, err
	}

	items, total, usage, err := consumeCart(in.Items, products, links, locked)
	if err != nil {
		return Order{}, false, err // shortages roll back via defer
	}

	// Apply decrements guarded so stock can never go negative even if a
	// writer slipped past the row locks.
	for id, used := range usage {
		if used <= 0 {
			continue
		}
		ct, err := tx.Exec(ctx, `
			UPDATE ingredients SET stock_quantity = stock_quantity - $2, updated_at = now()
			WHERE id = $1 AND stock_quantity >= $2`, id, used)
		if err != nil {
			return Order{}, false, err
		}
		if ct.RowsAffected() != 1 {
			return Order{}, false, fmt.Errorf("stock for %s changed during submission", locked[id].Name)
		}
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return Order{}, false, err
	}
	orderID := uuid.NewString()
	o, err := scanOrder(tx.QueryRow(ctx, `
		INSERT INTO orders(id, external_id, customer_name, customer_phone, items, location, lat, lng,
		                   total_cents, status, delivery_option)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+orderColumns,
		orderID, in.ExternalID, in.Customer.Name, in.Customer.Phone, itemsJSON, in.Location, in.Lat, in.Lng,
		total, StatusNew, in.DeliveryOption))
	if err != nil {
		// concurrent submission with the same external_id won the insert;
		// the rollback undoes our decrements and the winner's order stands
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if existing, gerr := r.GetOrderByExternalID(ctx, in.ExternalID); gerr == nil {
				return existing, true, nil
			}
		}
		return Order{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, false, err
	}
	return o, false, nil
}

func loadProducts(ctx context.Context, tx pgx.Tx, ids []string) (map[string]menu.Product, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, name, price_cents, manual_stock_enabled, manual_stock_quantity
		FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]menu.Product, len(ids))
	for rows.Next() {
		var p menu.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.ManualStockEnabled, &p.ManualStockQuantity); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func loadLinks(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string][]menu.RecipeLink, error) {
	rows, err := tx.Query(ctx, `
		SELECT product_id, ingredient_id, quantity_needed
		FROM product_ingredients WHERE product_id = ANY($1)`, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]menu.RecipeLink)
	for rows.Next() {
		var l menu.RecipeLink
		if err := rows.Scan(&l.ProductID, &l.IngredientID, &l.QuantityNeeded); err != nil {
			return nil, err
		}
		out[l.ProductID] = append(out[l.ProductID], l)
	}
	return out, rows.Err()
}

// lockIngredients takes FOR UPDATE row locks on every ingredient the
// cart touches, in id order to keep concurrent submissions deadlock free.
func lockIngredients(ctx context.Context, tx pgx.Tx, links map[string][]menu.RecipeLink) (map[string]menu.Ingredient, error) {
	seen := map[string]bool{}
	ids := make([]string, 0, 8)
	for _, recipe := range links {
		for _, l := range recipe {
			if !seen[l.IngredientID] {
				seen[l.IngredientID] = true
				ids = append(ids, l.IngredientID)
			}
		}
	}
	out := make(map[string]menu.Ingredient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := tx.Query(ctx, `
		SELECT id, name, stock_quantity, unit
		FROM ingredients WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ing menu.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.StockQuantity, &ing.Unit); err != nil {
			return nil, err
		}
		out[ing.ID] = ing
	}
	return out, rows.Err()
}

// ApplyTransition commits a transition with an optimistic predicate on
// the observed status and claim fields: if any of them changed since
// the caller read the order, zero rows match and the claim was lost.
func (r *Repo) ApplyTransition(ctx context.Context, prev Order, target Status, eff Effect) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if eff.SetCourier != "" {
		// concurrent claims by the same courier queue on the staff row
		// lock, so the count below always sees the committed total
		if _, err := tx.Exec(ctx, `SELECT id FROM staff WHERE id = $1 FOR UPDATE`, eff.SetCourier); err != nil {
			return Order{}, err
		}
		var active int
		err := tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM orders
			WHERE curier_id = $1 AND status IN ($2, $3)`,
			eff.SetCourier, StatusEnRoute, StatusPickedUp).Scan(&active)
		if err != nil {
			return Order{}, err
		}
		if active >= MaxActiveCourierOrders {
			return Order{}, ErrCourierBusy
		}
	}

	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET
			status = $1,
			chef_id = COALESCE(NULLIF($2, '')::uuid, chef_id),
			curier_id = CASE WHEN $3 THEN NULL ELSE COALESCE(NULLIF($4, '')::uuid, curier_id) END,
			cancellation_reason = COALESCE(NULLIF($5, ''), cancellation_reason),
			updated_at = now()
		WHERE id = $6
		  AND status = $7
		  AND chef_id IS NOT DISTINCT FROM NULLIF($8, '')::uuid
		  AND curier_id IS NOT DISTINCT FROM NULLIF($9, '')::uuid
		RETURNING `+orderColumns,
		target, eff.SetChef, eff.ClearCourier, eff.SetCourier, eff.Reason,
		prev.ID, prev.Status, prev.ChefID, prev.CourierID))
	if errors.Is(err, pgx.ErrNoRows) {
		// distinguish a vanished order from a lost race
		if _, gerr := r.GetOrder(ctx, prev.ID); errors.Is(gerr, ErrOrderNotFound) {
			return Order{}, ErrOrderNotFound
		}
		return Order{}, ErrAlreadyClaimed
	}
	if err != nil {
		return Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

// FirstAvailableChef returns the dispatch target for admin-driven
// transitions. Policy is first by seniority, matching how dispatch has
// always worked here.
func (r *Repo) FirstAvailableChef(ctx context.Context) (string, error) {
	var id string
	err := r.DB.QueryRow(ctx, `
		SELECT id FROM staff
		WHERE role = $1 AND available
		ORDER BY created_at LIMIT 1`, RoleChef).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNoChefAvailable
	}
	if err != nil {
		return "", err
	}
	return id, nil
}
