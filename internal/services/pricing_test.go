package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventtix/internal/models"
)

func ticketPriced(id string, price float64) *models.Ticket {
	return &models.Ticket{ID: id, Name: id, Price: price, Available: 100}
}

func TestComputeTotals_HappyPath(t *testing.T) {
	// {ticketA: 2 @ ₹500} → base 1000, fee 200, IGST 18, CGST 18, total 1236
	totals := ComputeTotals([]SelectionLine{
		{Ticket: ticketPriced("a", 500), Quantity: 2},
	})

	assert.Equal(t, 1000.0, totals.BaseAmount)
	assert.Equal(t, 200.0, totals.ConvenienceFee)
	assert.Equal(t, 18.0, totals.IGST)
	assert.Equal(t, 18.0, totals.CGST)
	assert.Equal(t, 1236.0, totals.GrandTotal)
}

func TestComputeTotals_EmptySelection(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.True(t, totals.IsZero())
	assert.Equal(t, 0.0, totals.GrandTotal)
}

func TestComputeTotals_AggregateFactor(t *testing.T) {
	// 1 + 0.20 + 0.20×0.09 + 0.20×0.09 = 1.236 of the base
	totals := ComputeTotals([]SelectionLine{
		{Ticket: ticketPriced("a", 250), Quantity: 3},
		{Ticket: ticketPriced("b", 250), Quantity: 1},
	})

	assert.InDelta(t, totals.BaseAmount*1.236, totals.GrandTotal, 1e-9)
}

func TestComputeTotals_MonotonicInQuantity(t *testing.T) {
	a := ticketPriced("a", 199.99)
	b := ticketPriced("b", 0) // free ticket holds the total, never decreases it

	prev := 0.0
	for qty := 0; qty <= 10; qty++ {
		totals := ComputeTotals([]SelectionLine{
			{Ticket: a, Quantity: qty},
			{Ticket: b, Quantity: 2},
		})
		if totals.GrandTotal < prev {
			t.Fatalf("grand total decreased from %.4f to %.4f at qty %d", prev, totals.GrandTotal, qty)
		}
		prev = totals.GrandTotal
	}
}

func TestComputeTotals_AllComponentsNonNegative(t *testing.T) {
	totals := ComputeTotals([]SelectionLine{
		{Ticket: ticketPriced("a", 750), Quantity: 1},
		{Ticket: ticketPriced("b", 120.50), Quantity: 5},
	})

	for name, v := range map[string]float64{
		"base":  totals.BaseAmount,
		"fee":   totals.ConvenienceFee,
		"igst":  totals.IGST,
		"cgst":  totals.CGST,
		"total": totals.GrandTotal,
	} {
		if v < 0 || math.IsNaN(v) {
			t.Errorf("%s should be a non-negative number, got %v", name, v)
		}
	}
}

func TestSelectionLine_Subtotal(t *testing.T) {
	line := SelectionLine{Ticket: ticketPriced("a", 500), Quantity: 3}
	assert.Equal(t, 1500.0, line.Subtotal())

	assert.Equal(t, 0.0, SelectionLine{Ticket: ticketPriced("a", 500), Quantity: 0}.Subtotal())
	assert.Equal(t, 0.0, SelectionLine{Quantity: 2}.Subtotal())
}
