package models

import (
	"fmt"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingRequest is the payload submitted to create a booking
type BookingRequest struct {
	EventID     string          `json:"eventId"`
	Reference   string          `json:"reference,omitempty"` // Client-generated, for support lookups
	Tickets     []BookingTicket `json:"tickets"`
	UserDetails BuyerDetails    `json:"userDetails"`
}

// BookingTicket is one ticket line in a booking request
type BookingTicket struct {
	TicketID string `json:"ticketId"`
	Quantity int    `json:"quantity"`
}

// Booking is a booking record as returned by the booking API. Server-computed
// totals are displayed as-is and never recomputed client-side.
type Booking struct {
	BookingID string        `json:"bookingId"`
	Status    BookingStatus `json:"status"`
	EventID   string        `json:"eventId"`
	Items     []BookingItem `json:"items"`
	Amounts   BookingAmounts `json:"amounts"`
	CreatedAt time.Time     `json:"createdAt"`
}

// BookingItem is one confirmed line in a booking record
type BookingItem struct {
	TicketID   string  `json:"ticketId"`
	TicketName string  `json:"ticketName"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	Subtotal   float64 `json:"subtotal"`
	QRCode     string  `json:"qrCode,omitempty"` // Present only when requested with includeQRCodes
}

// BookingAmounts carries the server-computed totals of a booking
type BookingAmounts struct {
	BaseAmount     float64 `json:"baseAmount"`
	ConvenienceFee float64 `json:"convenienceFee"`
	IGST           float64 `json:"igst"`
	CGST           float64 `json:"cgst"`
	GrandTotal     float64 `json:"grandTotal"`
}

// Recognized reports whether the payload carries the fields every booking must
// have. Anything less is treated as a protocol error, never as a success.
func (b *Booking) Recognized() bool {
	return b != nil && b.BookingID != "" && b.Status != ""
}

// APIError is an error response from the booking API mapped into a value the
// client can turn into a user-facing message.
type APIError struct {
	StatusCode  int               `json:"-"`
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.StatusCode)
}

// UserMessage picks the most specific message available: a field-level
// validation error first, the API's own message next, then a generic fallback.
func (e *APIError) UserMessage() string {
	for _, msg := range e.FieldErrors {
		if msg != "" {
			return msg
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return "Something went wrong while processing your booking. Please try again."
}
