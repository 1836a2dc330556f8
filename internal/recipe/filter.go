package recipe

import (
	"net/url"
	"strconv"
	"strings"

	"foodgram/internal/apperr"
)

// Filter narrows a recipe listing. Distinct keys combine with AND; tag
// slugs combine with OR. The mark flags only apply to signed-in viewers.
type Filter struct {
	AuthorID         int64
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// ParseFilter reads author, tags, is_favorited and is_in_shopping_cart
// from q.
func ParseFilter(q url.Values) (Filter, error) {
	var f Filter
	fields := apperr.FieldErrors{}

	if raw := q.Get("author"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			fields.Add("author", "Select a valid choice. That choice is not one of the available choices.")
		}
		f.AuthorID = id
	}

	seen := map[string]struct{}{}
	for _, slug := range q["tags"] {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		f.Tags = append(f.Tags, slug)
	}

	var ok bool
	if f.IsFavorited, ok = parseFlag(q.Get("is_favorited")); !ok {
		fields.Add("is_favorited", "Use 1 or 0.")
	}
	if f.IsInShoppingCart, ok = parseFlag(q.Get("is_in_shopping_cart")); !ok {
		fields.Add("is_in_shopping_cart", "Use 1 or 0.")
	}

	if err := fields.Err(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

func parseFlag(raw string) (on, ok bool) {
	switch strings.ToLower(raw) {
	case "1", "true":
		return true, true
	case "", "0", "false":
		return false, true
	default:
		return false, false
	}
}

// where renders the filter as a WHERE clause over alias r. Slice arguments
// are expanded later by sqlx.In.
func (f Filter) where(viewerID int64) (string, []any) {
	var conds []string
	var args []any

	if f.AuthorID != 0 {
		conds = append(conds, "r.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if len(f.Tags) > 0 {
		conds = append(conds, `r.id IN (SELECT rt.recipe_id FROM recipe_tags rt
			JOIN tags t ON t.id = rt.tag_id WHERE t.slug IN (?))`)
		args = append(args, f.Tags)
	}
	if viewerID != 0 && f.IsFavorited {
		conds = append(conds, "EXISTS (SELECT 1 FROM favorites fv WHERE fv.recipe_id = r.id AND fv.user_id = ?)")
		args = append(args, viewerID)
	}
	if viewerID != 0 && f.IsInShoppingCart {
		conds = append(conds, "EXISTS (SELECT 1 FROM shopping_cart sc WHERE sc.recipe_id = r.id AND sc.author_id = ?)")
		args = append(args, viewerID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
