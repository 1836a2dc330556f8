package shopping

import "time"

// Item is one aggregated line: the total amount of an ingredient across
// every recipe in the cart.
type Item struct {
	Name            string `db:"name" json:"name"`
	MeasurementUnit string `db:"measurement_unit" json:"measurement_unit"`
	Amount          int64  `db:"amount" json:"amount"`
}

// ShoppingList is the aggregated cart of one user.
type ShoppingList struct {
	UserID    int64     `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}
