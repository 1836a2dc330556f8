package shopping

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository reads shopping carts.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository creates a new shopping list repository.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// CartSize returns how many recipes userID has in the cart.
func (r *Repository) CartSize(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM shopping_cart WHERE author_id = ?`, userID); err != nil {
		return 0, fmt.Errorf("failed to count shopping cart: %w", err)
	}
	return n, nil
}

// Aggregate sums the ingredient amounts of every recipe in the cart of
// userID, grouped by ingredient name and unit and ordered by name.
func (r *Repository) Aggregate(ctx context.Context, userID int64) ([]Item, error) {
	items := []Item{}
	err := sqlx.SelectContext(ctx, r.db, &items, `SELECT i.name, i.measurement_unit, SUM(ri.amount) AS amount
		FROM shopping_cart c
		JOIN recipe_ingredients ri ON ri.recipe_id = c.recipe_id
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE c.author_id = ?
		GROUP BY i.name, i.measurement_unit
		ORDER BY i.name, i.measurement_unit`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping cart: %w", err)
	}
	return items, nil
}
