package models

import "fmt"

// PricingBreakdown is the derived cost summary for a ticket selection. It is
// recomputed from the selection on every change; nothing here is authoritative,
// the booking API settles the real total.
type PricingBreakdown struct {
	BaseAmount     float64 `json:"base_amount"`
	ConvenienceFee float64 `json:"convenience_fee"`
	IGST           float64 `json:"igst"`
	CGST           float64 `json:"cgst"`
	GrandTotal     float64 `json:"grand_total"`
}

// IsZero reports whether the breakdown describes an empty selection.
func (p PricingBreakdown) IsZero() bool {
	return p.BaseAmount == 0 && p.GrandTotal == 0
}

// FormatINR renders an amount for display. Rounding happens here and only
// here; the pricing math itself keeps full precision.
func FormatINR(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}
