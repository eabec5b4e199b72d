package models

import "testing"

func intPtr(n int) *int { return &n }

func TestTicket_IsPurchasable(t *testing.T) {
	tests := []struct {
		name   string
		ticket Ticket
		want   bool
	}{
		{"in stock", Ticket{Available: 10}, true},
		{"sold out flag", Ticket{Available: 10, SoldOut: true}, false},
		{"coming soon", Ticket{Available: 10, ComingSoon: true}, false},
		{"no stock", Ticket{Available: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ticket.IsPurchasable(); got != tt.want {
				t.Errorf("IsPurchasable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTicket_MaxSelectable(t *testing.T) {
	tests := []struct {
		name   string
		ticket Ticket
		want   int
	}{
		{"stock only", Ticket{Available: 10}, 10},
		{"cap below stock", Ticket{Available: 10, MaxPerOrder: intPtr(4)}, 4},
		{"cap above stock", Ticket{Available: 3, MaxPerOrder: intPtr(8)}, 3},
		{"not purchasable", Ticket{Available: 10, SoldOut: true}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ticket.MaxSelectable(); got != tt.want {
				t.Errorf("MaxSelectable() = %d, want %d", got, tt.want)
			}
		})
	}
}
