package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"foodgram/internal/apperr"
	"foodgram/internal/tag"
)

// pubDateLayout is fixed-width so text ordering matches time ordering.
const pubDateLayout = "2006-01-02 15:04:05.000000"

const viewerColumns = `r.id, r.author_id, r.name, r.image, r.text, r.cooking_time, r.pub_date,
	EXISTS (SELECT 1 FROM favorites fav WHERE fav.recipe_id = r.id AND fav.user_id = ?) AS is_favorited,
	EXISTS (SELECT 1 FROM shopping_cart cart WHERE cart.recipe_id = r.id AND cart.author_id = ?) AS is_in_shopping_cart`

// viewerRow is a recipe row with the viewer-relative flags.
type viewerRow struct {
	Recipe
	IsFavorited      bool `db:"is_favorited"`
	IsInShoppingCart bool `db:"is_in_shopping_cart"`
}

// Repository handles persistence of recipes and their associations.
type Repository struct {
	db sqlx.ExtContext
}

// NewRepository creates a new recipe repository.
func NewRepository(db sqlx.ExtContext) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *sqlx.Tx) *Repository {
	return &Repository{db: tx}
}

// Insert stores rec, stamping its publication date and ID.
func (r *Repository) Insert(ctx context.Context, rec *Recipe) error {
	rec.PubDate = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recipes (author_id, name, image, text, cooking_time, pub_date) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.AuthorID, rec.Name, rec.Image, rec.Text, rec.CookingTime, rec.PubDate.Format(pubDateLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read recipe id: %w", err)
	}
	rec.ID = id
	return nil
}

// Update writes the mutable columns of rec. pub_date never changes.
func (r *Repository) Update(ctx context.Context, rec *Recipe) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE recipes SET name = ?, image = ?, text = ?, cooking_time = ? WHERE id = ?`,
		rec.Name, rec.Image, rec.Text, rec.CookingTime, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	return nil
}

// Delete removes the recipe; its ingredient lines, tags and marks cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// GetRecipe returns the stored row for id.
func (r *Repository) GetRecipe(ctx context.Context, id int64) (*Recipe, error) {
	var rec Recipe
	err := sqlx.GetContext(ctx, r.db, &rec,
		`SELECT id, author_id, name, image, text, cooking_time, pub_date FROM recipes WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Recipe not found.")
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &rec, nil
}

func (r *Repository) getForViewer(ctx context.Context, viewerID, id int64) (*viewerRow, error) {
	var row viewerRow
	err := sqlx.GetContext(ctx, r.db, &row,
		`SELECT `+viewerColumns+` FROM recipes r WHERE r.id = ?`, viewerID, viewerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Recipe not found.")
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &row, nil
}

func (r *Repository) listForViewer(ctx context.Context, viewerID int64, f Filter, limit, offset int) ([]viewerRow, error) {
	where, whereArgs := f.where(viewerID)
	args := append([]any{viewerID, viewerID}, whereArgs...)
	args = append(args, limit, offset)

	query, args, err := sqlx.In(`SELECT `+viewerColumns+` FROM recipes r`+where+
		` ORDER BY r.pub_date DESC, r.id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build recipe query: %w", err)
	}

	var rows []viewerRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return rows, nil
}

// Count returns how many recipes match f for viewerID.
func (r *Repository) Count(ctx context.Context, viewerID int64, f Filter) (int, error) {
	where, args := f.where(viewerID)
	query, args, err := sqlx.In(`SELECT COUNT(*) FROM recipes r`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, r.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}

// MissingTags returns the ids that do not name a tag.
func (r *Repository) MissingTags(ctx context.Context, ids []int64) ([]int64, error) {
	return r.missing(ctx, "tags", ids)
}

// MissingIngredients returns the ids that do not name an ingredient.
func (r *Repository) MissingIngredients(ctx context.Context, ids []int64) ([]int64, error) {
	return r.missing(ctx, "ingredients", ids)
}

func (r *Repository) missing(ctx context.Context, table string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id FROM `+table+` WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s lookup: %w", table, err)
	}
	var found []int64
	if err := sqlx.SelectContext(ctx, r.db, &found, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", table, err)
	}

	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// ReplaceIngredients clears the ingredient lines of recipeID and writes items.
func (r *Repository) ReplaceIngredients(ctx context.Context, recipeID int64, items []IngredientInput) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}
	for _, item := range items {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES (?, ?, ?)`,
			recipeID, item.ID, item.Amount)
		if err != nil {
			return fmt.Errorf("failed to insert recipe ingredient %d: %w", item.ID, err)
		}
	}
	return nil
}

// ReplaceTags sets the tag set of recipeID.
func (r *Repository) ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("failed to clear recipe tags: %w", err)
	}
	for _, id := range tagIDs {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`, recipeID, id); err != nil {
			return fmt.Errorf("failed to insert recipe tag %d: %w", id, err)
		}
	}
	return nil
}

// Tags returns the tags of each recipe in ids, ordered by tag name.
func (r *Repository) Tags(ctx context.Context, ids []int64) (map[int64][]tag.Tag, error) {
	out := make(map[int64][]tag.Tag, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id IN (?) ORDER BY t.name`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build tags query: %w", err)
	}
	var rows []struct {
		RecipeID int64 `db:"recipe_id"`
		tag.Tag
	}
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load recipe tags: %w", err)
	}
	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], row.Tag)
	}
	return out, nil
}

// Ingredients returns the ingredient lines of each recipe in ids.
func (r *Repository) Ingredients(ctx context.Context, ids []int64) (map[int64][]IngredientAmount, error) {
	out := make(map[int64][]IngredientAmount, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT ri.recipe_id, i.id, i.name, i.measurement_unit, ri.amount
		FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id IN (?) ORDER BY ri.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build ingredients query: %w", err)
	}
	var rows []struct {
		RecipeID int64 `db:"recipe_id"`
		IngredientAmount
	}
	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	for _, row := range rows {
		out[row.RecipeID] = append(out[row.RecipeID], row.IngredientAmount)
	}
	return out, nil
}

// ShortByAuthor returns the newest recipes of authorID; limit 0 means all.
func (r *Repository) ShortByAuthor(ctx context.Context, authorID int64, limit int) ([]Short, error) {
	if limit <= 0 {
		limit = -1
	}
	out := []Short{}
	err := sqlx.SelectContext(ctx, r.db, &out, `SELECT id, name, image, cooking_time FROM recipes
		WHERE author_id = ? ORDER BY pub_date DESC, id DESC LIMIT ?`, authorID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list author recipes: %w", err)
	}
	return out, nil
}

// CountByAuthor returns the number of recipes published by authorID.
func (r *Repository) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM recipes WHERE author_id = ?`, authorID); err != nil {
		return 0, fmt.Errorf("failed to count author recipes: %w", err)
	}
	return n, nil
}

// HasMark reports whether the (ownerID, recipeID) pair exists for m.
func (r *Repository) HasMark(ctx context.Context, m Mark, ownerID, recipeID int64) (bool, error) {
	var ok bool
	err := sqlx.GetContext(ctx, r.db, &ok,
		`SELECT EXISTS (SELECT 1 FROM `+m.table+` WHERE `+m.owner+` = ? AND recipe_id = ?)`, ownerID, recipeID)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", m.name, err)
	}
	return ok, nil
}

// AddMark inserts the (ownerID, recipeID) pair for m.
func (r *Repository) AddMark(ctx context.Context, m Mark, ownerID, recipeID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO `+m.table+` (`+m.owner+`, recipe_id) VALUES (?, ?)`, ownerID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to insert %s: %w", m.name, err)
	}
	return nil
}

// RemoveMark deletes the pair and reports whether it existed.
func (r *Repository) RemoveMark(ctx context.Context, m Mark, ownerID, recipeID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+m.table+` WHERE `+m.owner+` = ? AND recipe_id = ?`, ownerID, recipeID)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", m.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
