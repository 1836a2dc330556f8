package recipe

// Mark is a per-user set of recipes stored as (owner, recipe) pairs.
type Mark struct {
	name      string
	table     string
	owner     string
	duplicate string
	missing   string
}

var (
	// Favorite marks recipes bookmarked by a user.
	Favorite = Mark{
		name:      "favorite",
		table:     "favorites",
		owner:     "user_id",
		duplicate: "Recipe is already in favorites",
		missing:   "Recipe is not in favorites",
	}

	// ShoppingCart marks recipes queued for the shopping list.
	ShoppingCart = Mark{
		name:      "shopping_cart",
		table:     "shopping_cart",
		owner:     "author_id",
		duplicate: "Recipe is already in the shopping cart",
		missing:   "Recipe is not in the shopping cart",
	}
)

// Name identifies the mark in logs and metrics.
func (m Mark) Name() string {
	return m.name
}
