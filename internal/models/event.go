package models

import "time"

// Event represents an event as served by the events API
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VenueName   string    `json:"venue_name"`
	City        string    `json:"city"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Gallery     []string  `json:"gallery,omitempty"`
	Artists     []string  `json:"artists,omitempty"`
	Advisories  []string  `json:"advisories,omitempty"`
	FAQs        []EventFAQ `json:"faqs,omitempty"`
}

// EventFAQ represents a custom question/answer pair attached to an event
type EventFAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// WhenWhere returns a short date/venue line for display and receipts.
func (e *Event) WhenWhere() string {
	when := e.StartsAt.Format("Mon, 02 Jan 2006 3:04 PM")
	if e.VenueName == "" {
		return when
	}
	where := e.VenueName
	if e.City != "" {
		where += ", " + e.City
	}
	return when + " · " + where
}
