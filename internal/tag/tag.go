// Package tag holds the read-only tag catalog.
package tag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"foodgram/internal/apperr"
	"foodgram/internal/validation"
)

// Tag is a categorical label attachable to recipes.
type Tag struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name" validate:"required,max=200"`
	Color string `db:"color" json:"color" validate:"required,hexcolor"`
	Slug  string `db:"slug" json:"slug" validate:"required,max=200,slug"`
}

// Repository reads and seeds tags.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository creates a new tag repository.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *sqlx.Tx) *Repository {
	return &Repository{db: tx}
}

// List returns all tags ordered by name.
func (r *Repository) List(ctx context.Context) ([]Tag, error) {
	tags := []Tag{}
	if err := sqlx.SelectContext(ctx, r.db, &tags, `SELECT id, name, color, slug FROM tags ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Get returns the tag with id.
func (r *Repository) Get(ctx context.Context, id int64) (*Tag, error) {
	var t Tag
	if err := sqlx.GetContext(ctx, r.db, &t, `SELECT id, name, color, slug FROM tags WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Tag not found.")
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &t, nil
}

// Import inserts tags that are not present yet and returns how many
// were added. Rows are validated before anything is written.
func (r *Repository) Import(ctx context.Context, tags []Tag) (int, error) {
	for i, t := range tags {
		if err := validation.ValidateStruct(t); err != nil {
			return 0, fmt.Errorf("invalid tag #%d (%q): %w", i+1, t.Name, err)
		}
	}

	added := 0
	for _, t := range tags {
		res, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO tags (name, color, slug) VALUES (?, ?, ?)`, t.Name, t.Color, t.Slug)
		if err != nil {
			return added, fmt.Errorf("failed to insert tag %q: %w", t.Name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return added, fmt.Errorf("failed to read affected rows: %w", err)
		}
		added += int(n)
	}
	return added, nil
}

// LoadSeed reads a JSON array of {"name", "color", "slug"} objects.
func LoadSeed(path string) ([]Tag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var tags []Tag
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return tags, nil
}
