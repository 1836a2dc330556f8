// Package ingredient holds the ingredient catalog: prefix search and the
// JSON seed import used at provisioning time.
package ingredient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"foodgram/internal/apperr"
	"foodgram/internal/validation"
)

// Ingredient is a catalog entry; (Name, MeasurementUnit) is unique.
type Ingredient struct {
	ID              int64  `db:"id" json:"id"`
	Name            string `db:"name" json:"name" validate:"required,max=200"`
	MeasurementUnit string `db:"measurement_unit" json:"measurement_unit" validate:"required,max=200"`
}

// Repository reads and seeds ingredients.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository creates a new ingredient repository.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *sqlx.Tx) *Repository {
	return &Repository{db: tx}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns ingredients whose name starts with prefix, ordered by
// name. ASCII letters match case-insensitively. An empty prefix returns
// the whole catalog.
func (r *Repository) Search(ctx context.Context, prefix string) ([]Ingredient, error) {
	items := []Ingredient{}
	query := `SELECT id, name, measurement_unit FROM ingredients`
	var args []any
	if prefix != "" {
		query += ` WHERE name LIKE ? ESCAPE '\'`
		args = append(args, likeEscaper.Replace(prefix)+"%")
	}
	query += ` ORDER BY name, measurement_unit`

	if err := sqlx.SelectContext(ctx, r.db, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return items, nil
}

// Get returns the ingredient with id.
func (r *Repository) Get(ctx context.Context, id int64) (*Ingredient, error) {
	var i Ingredient
	err := sqlx.GetContext(ctx, r.db, &i, `SELECT id, name, measurement_unit FROM ingredients WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Ingredient not found.")
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &i, nil
}

// Import inserts the entries that are not present yet and returns how many
// were added.
func (r *Repository) Import(ctx context.Context, items []Ingredient) (int, error) {
	for i, item := range items {
		if err := validation.ValidateStruct(item); err != nil {
			return 0, fmt.Errorf("invalid ingredient #%d (%q): %w", i+1, item.Name, err)
		}
	}

	added := 0
	for _, item := range items {
		res, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO ingredients (name, measurement_unit) VALUES (?, ?)`,
			strings.TrimSpace(item.Name), strings.TrimSpace(item.MeasurementUnit))
		if err != nil {
			return added, fmt.Errorf("failed to insert ingredient %q: %w", item.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return added, fmt.Errorf("failed to read affected rows: %w", err)
		}
		added += int(n)
	}
	return added, nil
}

// LoadSeed reads a JSON array of {"name", "measurement_unit"} objects.
func LoadSeed(path string) ([]Ingredient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var items []Ingredient
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return items, nil
}
