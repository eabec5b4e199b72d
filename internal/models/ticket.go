package models

// Ticket is the canonical ticket shape produced by normalization. Raw ticket
// records arrive from the booking API with inconsistent field names; everything
// downstream (selection, pricing, booking submission) works off this shape only.
type Ticket struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`         // Price in rupees
	Available   int     `json:"available"`     // Remaining purchasable quantity, never negative
	MaxPerOrder *int    `json:"max_per_order"` // Per-order cap, nil when the API sets none
	SoldOut     bool    `json:"sold_out"`
	ComingSoon  bool    `json:"coming_soon"`
	Category    string  `json:"category"`
}

// IsPurchasable reports whether the ticket can currently be added to a selection.
func (t *Ticket) IsPurchasable() bool {
	return !t.SoldOut && !t.ComingSoon && t.Available > 0
}

// MaxSelectable returns the largest quantity a single order may hold for this
// ticket: the per-order cap when one is set, otherwise the available stock.
func (t *Ticket) MaxSelectable() int {
	if !t.IsPurchasable() {
		return 0
	}
	max := t.Available
	if t.MaxPerOrder != nil && *t.MaxPerOrder < max {
		max = *t.MaxPerOrder
	}
	if max < 0 {
		return 0
	}
	return max
}
