// Package recipe implements recipe publishing: payload validation,
// transactional persistence, viewer-relative reads, list filters and the
// favorite and shopping-cart marks.
package recipe

import (
	"time"

	"foodgram/internal/tag"
	"foodgram/internal/user"
)

// Recipe is a stored recipe row. Image holds the stored media path.
type Recipe struct {
	ID          int64     `db:"id"`
	AuthorID    int64     `db:"author_id"`
	Name        string    `db:"name"`
	Image       string    `db:"image"`
	Text        string    `db:"text"`
	CookingTime int       `db:"cooking_time"`
	PubDate     time.Time `db:"pub_date"`
}

// IngredientAmount is an ingredient line of a recipe.
type IngredientAmount struct {
	ID              int64  `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	MeasurementUnit string `db:"measurement_unit" json:"measurement_unit"`
	Amount          int    `db:"amount" json:"amount"`
}

// Detail is the full recipe representation returned to a viewer.
type Detail struct {
	ID               int64              `json:"id"`
	Tags             []tag.Tag          `json:"tags"`
	Author           user.Profile       `json:"author"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
}

// Short is the compact projection used by marks and subscriptions.
type Short struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Image       string `db:"image" json:"image"`
	CookingTime int    `db:"cooking_time" json:"cooking_time"`
}

// IngredientInput references a catalog ingredient with a quantity.
type IngredientInput struct {
	ID     int64 `json:"id" validate:"required"`
	Amount int   `json:"amount"`
}

// Input is the create/update payload. Nil fields were absent from the
// request; on update they keep their stored value.
type Input struct {
	Ingredients []IngredientInput `json:"ingredients" validate:"omitempty,dive"`
	Tags        []int64           `json:"tags"`
	Image       *string           `json:"image"`
	Name        *string           `json:"name" validate:"omitempty,max=200"`
	Text        *string           `json:"text"`
	CookingTime *int              `json:"cooking_time"`
}

// Limits bounds cooking_time and ingredient amounts.
type Limits struct {
	MinCookingTime int
	MaxCookingTime int
	MinAmount      int
	MaxAmount      int
}

// DefaultLimits mirrors the shipped configuration.
var DefaultLimits = Limits{MinCookingTime: 1, MaxCookingTime: 32000, MinAmount: 1, MaxAmount: 32000}
