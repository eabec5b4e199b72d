package models

import "time"

// ScanResult classifies the outcome of one check-in scan
type ScanResult string

const (
	ScanAccepted  ScanResult = "accepted"
	ScanRejected  ScanResult = "rejected"
	ScanDuplicate ScanResult = "duplicate"
)

// ScanRecord is one entry in the local check-in journal. The journal exists so
// a kiosk restart does not lose the evening's scan history.
type ScanRecord struct {
	ID        int64      `json:"id"`
	EventID   string     `json:"event_id"`
	Code      string     `json:"code"`
	Result    ScanResult `json:"result"`
	Detail    string     `json:"detail,omitempty"`
	ScannedAt time.Time  `json:"scanned_at"`
}

// CheckInResult is the booking API's response to a check-in submission
type CheckInResult struct {
	Accepted   bool   `json:"accepted"`
	TicketName string `json:"ticketName,omitempty"`
	GuestName  string `json:"guestName,omitempty"`
	Reason     string `json:"reason,omitempty"` // Set when the code was rejected
}
