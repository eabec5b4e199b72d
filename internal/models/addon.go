package models

// AddOnCategory represents the kind of add-on inventory item
type AddOnCategory string

const (
	AddOnFood     AddOnCategory = "food"
	AddOnBeverage AddOnCategory = "beverage"
	AddOnMerch    AddOnCategory = "merchandise"
)

// AddOn is an organizer-owned inventory item (food & beverage counters,
// merchandise stalls) attached to an event.
type AddOn struct {
	ID       string        `json:"id"`
	EventID  string        `json:"event_id"`
	Name     string        `json:"name"`
	Category AddOnCategory `json:"category"`
	Price    float64       `json:"price"`
	Stock    int           `json:"stock"`
}

// AddOnUpdateRequest represents the fields an organizer can change on an add-on
type AddOnUpdateRequest struct {
	Name  *string  `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty"`
	Stock *int     `json:"stock,omitempty"`
}

// Profile represents the signed-in user's account profile
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	City  string `json:"city"`
}
