package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ResolvesPriorityFields(t *testing.T) {
	n := NewTicketNormalizer()

	ticket := n.Normalize(RawTicket{
		"ticketId":    "vip-1",
		"ticketName":  "VIP",
		"description": "Front row",
		"price":       1500.0,
		"available":   12.0,
		"maxPerOrder": 4.0,
		"category":    "premium",
	})

	require.NotNil(t, ticket)
	assert.Equal(t, "vip-1", ticket.ID)
	assert.Equal(t, "VIP", ticket.Name)
	assert.Equal(t, 1500.0, ticket.Price)
	assert.Equal(t, 12, ticket.Available)
	require.NotNil(t, ticket.MaxPerOrder)
	assert.Equal(t, 4, *ticket.MaxPerOrder)
	assert.False(t, ticket.SoldOut)
}

func TestNormalize_AvailabilityChain(t *testing.T) {
	n := NewTicketNormalizer()

	tests := []struct {
		name string
		raw  RawTicket
		want int
	}{
		{"explicit available wins", RawTicket{"id": "a", "available": 7.0, "total": 100.0, "sold": 10.0}, 7},
		{"total minus sold", RawTicket{"id": "a", "total": 100.0, "sold": 40.0}, 60},
		{"total minus sold clamped at zero", RawTicket{"id": "a", "total": 10.0, "sold": 25.0}, 0},
		{"boolean flag false", RawTicket{"id": "a", "available": false}, 0},
		{"boolean flag true without capacity", RawTicket{"id": "a", "available": true}, 0},
		{"nothing at all", RawTicket{"id": "a"}, 0},
		{"malformed string falls through to total", RawTicket{"id": "a", "availableQuantity": "lots", "total": "50", "sold": "20"}, 30},
		{"negative explicit clamped", RawTicket{"id": "a", "available": -3.0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := n.Normalize(tt.raw)
			require.NotNil(t, ticket)
			assert.Equal(t, tt.want, ticket.Available)
		})
	}
}

func TestNormalize_SoldOutRules(t *testing.T) {
	n := NewTicketNormalizer()

	// Zero availability with no explicit flag means sold out
	ticket := n.Normalize(RawTicket{"id": "a", "available": 0.0, "comingSoon": false})
	require.NotNil(t, ticket)
	assert.True(t, ticket.SoldOut)
	assert.False(t, ticket.IsPurchasable())

	// Explicit soldOut=false overrides zero availability
	ticket = n.Normalize(RawTicket{"id": "a", "available": 0.0, "soldOut": false})
	assert.False(t, ticket.SoldOut)

	// Explicit soldOut=true wins over positive availability
	ticket = n.Normalize(RawTicket{"id": "a", "available": 5.0, "soldOut": true})
	assert.True(t, ticket.SoldOut)

	// Coming soon is never sold out
	ticket = n.Normalize(RawTicket{"id": "a", "available": 0.0, "soldOut": true, "comingSoon": true})
	assert.False(t, ticket.SoldOut)
	assert.True(t, ticket.ComingSoon)
	assert.False(t, ticket.IsPurchasable())
}

func TestNormalize_Defaults(t *testing.T) {
	n := NewTicketNormalizer()

	ticket := n.Normalize(RawTicket{"something": "else"})
	require.NotNil(t, ticket)
	assert.Equal(t, "Ticket", ticket.Name)
	assert.Equal(t, 0.0, ticket.Price)
	assert.NotEmpty(t, ticket.ID, "id should be synthesized when absent")
	assert.Nil(t, ticket.MaxPerOrder)

	// Negative per-order caps are nonsense, treated as unset
	ticket = n.Normalize(RawTicket{"id": "a", "maxPerOrder": -2.0})
	assert.Nil(t, ticket.MaxPerOrder)

	assert.Nil(t, n.Normalize(nil))
	assert.Nil(t, n.Normalize(RawTicket{}))
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewTicketNormalizer()

	first := n.Normalize(RawTicket{
		"id":          "ga",
		"name":        "General",
		"price":       500.0,
		"total":       100.0,
		"sold":        60.0,
		"maxPerOrder": 6.0,
	})
	require.NotNil(t, first)

	// Re-normalize the already-normalized shape: same priority fields present
	again := n.Normalize(RawTicket{
		"id":          first.ID,
		"name":        first.Name,
		"price":       first.Price,
		"available":   float64(first.Available),
		"maxPerOrder": float64(*first.MaxPerOrder),
		"soldOut":     first.SoldOut,
		"comingSoon":  first.ComingSoon,
	})
	require.NotNil(t, again)
	assert.Equal(t, first.Available, again.Available)
	assert.Equal(t, first.SoldOut, again.SoldOut)
	assert.Equal(t, *first.MaxPerOrder, *again.MaxPerOrder)
}

func TestNormalizeList_DeduplicatesFirstWins(t *testing.T) {
	n := NewTicketNormalizer()

	tickets := n.NormalizeList([]RawTicket{
		{"id": "ga", "name": "General", "available": 10.0},
		nil,
		{"id": "ga", "name": "General (duplicate)", "available": 99.0},
		{"id": "vip", "name": "VIP", "available": 5.0},
	})

	require.Len(t, tickets, 2)
	assert.Equal(t, "General", tickets[0].Name)
	assert.Equal(t, 10, tickets[0].Available)
	assert.Equal(t, "vip", tickets[1].ID)
}

func TestNormalize_NumericStrings(t *testing.T) {
	n := NewTicketNormalizer()

	ticket := n.Normalize(RawTicket{"id": "a", "price": "499.50", "available": "20"})
	require.NotNil(t, ticket)
	assert.Equal(t, 499.50, ticket.Price)
	assert.Equal(t, 20, ticket.Available)
}
