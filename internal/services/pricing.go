package services

import "eventtix/internal/models"

// Fee rates applied on top of the ticket base amount. The convenience fee is
// charged on the base; both GST components are charged on the fee, not the base.
const (
	ConvenienceFeeRate = 0.20
	IGSTRate           = 0.09
	CGSTRate           = 0.09
)

// SelectionLine pairs a normalized ticket with its selected quantity
type SelectionLine struct {
	Ticket   *models.Ticket
	Quantity int
}

// Subtotal returns quantity × unit price for this line.
func (l SelectionLine) Subtotal() float64 {
	if l.Quantity <= 0 || l.Ticket == nil {
		return 0
	}
	return float64(l.Quantity) * l.Ticket.Price
}

// ComputeTotals derives the full pricing breakdown for a selection. It is a
// pure function of the lines passed in: no I/O, no caching, safe to call on
// every quantity change. Amounts keep full precision; rounding is left to
// display formatting.
func ComputeTotals(lines []SelectionLine) models.PricingBreakdown {
	var base float64
	for _, line := range lines {
		base += line.Subtotal()
	}

	fee := base * ConvenienceFeeRate
	igst := fee * IGSTRate
	cgst := fee * CGSTRate

	return models.PricingBreakdown{
		BaseAmount:     base,
		ConvenienceFee: fee,
		IGST:           igst,
		CGST:           cgst,
		GrandTotal:     base + fee + igst + cgst,
	}
}
