package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"eventtix/internal/models"
)

// RawTicket is a ticket record as it arrives from the booking API. Field names
// vary between endpoints and event versions, so it stays an untyped map until
// the normalizer has resolved it.
type RawTicket map[string]interface{}

// Candidate field names per logical field, checked in priority order. First
// resolvable candidate wins.
var (
	ticketIDFields          = []string{"id", "_id", "ticketId", "ticket_id", "uuid"}
	ticketNameFields        = []string{"name", "ticketName", "ticket_name", "title"}
	ticketDescriptionFields = []string{"description", "desc", "details"}
	ticketPriceFields       = []string{"price", "ticketPrice", "ticket_price", "amount"}
	ticketAvailableFields   = []string{"available", "availableQuantity", "available_quantity", "remaining", "remainingQuantity"}
	ticketTotalFields       = []string{"total", "totalQuantity", "total_quantity", "capacity", "quantity"}
	ticketSoldFields        = []string{"sold", "soldCount", "sold_count", "booked"}
	ticketAvailableFlags    = []string{"available", "isAvailable", "is_available", "inStock"}
	ticketSoldOutFlags      = []string{"soldOut", "sold_out", "isSoldOut", "is_sold_out"}
	ticketComingSoonFlags   = []string{"comingSoon", "coming_soon", "isComingSoon"}
	ticketMaxPerOrderFields = []string{"maxPerOrder", "max_per_order", "maxPerUser", "max_per_user", "limitPerOrder", "purchaseLimit"}
	ticketCategoryFields    = []string{"category", "type", "tier"}
)

// TicketNormalizer converts raw API ticket records into the canonical
// models.Ticket shape
type TicketNormalizer struct{}

// NewTicketNormalizer creates a new ticket normalizer
func NewTicketNormalizer() *TicketNormalizer {
	return &TicketNormalizer{}
}

// Normalize converts a single raw record. It returns nil for records that are
// not ticket-shaped at all (nil or empty maps); everything else normalizes,
// however sparse, with defaults filled in.
func (n *TicketNormalizer) Normalize(raw RawTicket) *models.Ticket {
	if len(raw) == 0 {
		return nil
	}

	id, ok := stringField(raw, ticketIDFields...)
	if !ok {
		// No usable id anywhere; synthesize one so the ticket still has a
		// stable key for the lifetime of this list.
		id = "tkt-" + uuid.NewString()
	}

	name, ok := stringField(raw, ticketNameFields...)
	if !ok {
		name = "Ticket"
	}

	description, _ := stringField(raw, ticketDescriptionFields...)
	category, _ := stringField(raw, ticketCategoryFields...)

	price, ok := numberField(raw, ticketPriceFields...)
	if !ok || price < 0 {
		price = 0
	}

	available := n.resolveAvailable(raw)
	comingSoon, _ := boolField(raw, ticketComingSoonFlags...)

	ticket := &models.Ticket{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Available:   available,
		MaxPerOrder: n.resolveMaxPerOrder(raw),
		ComingSoon:  comingSoon,
		Category:    category,
	}
	ticket.SoldOut = n.resolveSoldOut(raw, available, comingSoon)

	return ticket
}

// NormalizeList converts a raw ticket list, dropping unusable records and
// deduplicating by id. The first occurrence of an id wins.
func (n *TicketNormalizer) NormalizeList(raws []RawTicket) []*models.Ticket {
	tickets := make([]*models.Ticket, 0, len(raws))
	seen := make(map[string]bool, len(raws))

	for _, raw := range raws {
		ticket := n.Normalize(raw)
		if ticket == nil {
			continue
		}
		if seen[ticket.ID] {
			continue
		}
		seen[ticket.ID] = true
		tickets = append(tickets, ticket)
	}

	return tickets
}

// resolveAvailable walks the availability priority chain: an explicit
// available-count field, then total minus sold, then a boolean available flag,
// then zero. The result is floored at 0.
func (n *TicketNormalizer) resolveAvailable(raw RawTicket) int {
	if v, ok := numberField(raw, ticketAvailableFields...); ok {
		return floorAtZero(v)
	}

	total, totalOK := numberField(raw, ticketTotalFields...)
	if totalOK {
		sold, _ := numberField(raw, ticketSoldFields...)
		return floorAtZero(total - sold)
	}

	if flag, ok := boolField(raw, ticketAvailableFlags...); ok {
		if !flag {
			return 0
		}
		// The flag says "available" but nothing says how many; treat unknown
		// capacity as zero rather than inventing stock.
		return floorAtZero(total)
	}

	return 0
}

// resolveSoldOut applies the sold-out rules: coming-soon tickets are never
// sold out; otherwise an explicit flag wins, and with no explicit "false" a
// zero availability also means sold out.
func (n *TicketNormalizer) resolveSoldOut(raw RawTicket, available int, comingSoon bool) bool {
	if comingSoon {
		return false
	}

	flag, ok := boolField(raw, ticketSoldOutFlags...)
	if ok && flag {
		return true
	}
	if ok && !flag {
		return false
	}

	return available <= 0
}

func (n *TicketNormalizer) resolveMaxPerOrder(raw RawTicket) *int {
	v, ok := numberField(raw, ticketMaxPerOrderFields...)
	if !ok || v < 0 {
		return nil
	}
	max := int(v)
	return &max
}

// stringField resolves the first candidate field holding a non-empty string.
func stringField(raw RawTicket, keys ...string) (string, bool) {
	for _, key := range keys {
		v, exists := raw[key]
		if !exists {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

// numberField resolves the first candidate field holding a finite number.
// JSON decoding yields float64 for all numbers, but records assembled in Go
// and numeric strings from sloppy backends are tolerated too. A malformed
// numeric string does not resolve; the chain moves on to the next candidate.
func numberField(raw RawTicket, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, exists := raw[key]
		if !exists {
			continue
		}
		switch value := v.(type) {
		case float64:
			if !math.IsNaN(value) && !math.IsInf(value, 0) {
				return value, true
			}
		case float32:
			return float64(value), true
		case int:
			return float64(value), true
		case int64:
			return float64(value), true
		case string:
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}

// boolField resolves the first candidate field holding a boolean (or the
// strings "true"/"false").
func boolField(raw RawTicket, keys ...string) (bool, bool) {
	for _, key := range keys {
		v, exists := raw[key]
		if !exists {
			continue
		}
		switch value := v.(type) {
		case bool:
			return value, true
		case string:
			switch strings.ToLower(strings.TrimSpace(value)) {
			case "true":
				return true, true
			case "false":
				return false, true
			}
		}
	}
	return false, false
}

func floorAtZero(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(v)
}
