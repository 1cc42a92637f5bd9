package option

import "time"

// Option is an add-on that belongs to a single menu item.
type Option struct {
	ID          int64     `json:"id"`
	MenuID      int64     `json:"menu_id,omitempty"`
	Name        string    `json:"name"`
	Price       int64     `json:"price"`
	IsAvailable bool      `json:"is_available,omitempty"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
