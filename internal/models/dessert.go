package models

// Dessert is a menu item owned by exactly one user. Names are expected to be
// unique across the menu; uniqueness is checked at creation time, not by the
// schema.
type Dessert struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Calories int     `json:"calories"`
	UserID   int     `json:"user_id"`
}

// CaloriesPerDollar returns how many calories a dollar buys, or 0 when the
// dessert is free.
func (d *Dessert) CaloriesPerDollar() float64 {
	if d.Price == 0 {
		return 0
	}
	return float64(d.Calories) / d.Price
}
