package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"eventtix/internal/models"
)

// WizardStep is the current step of the booking wizard. Steps form a strict
// select → checkout → success progression; illegal jumps are rejected rather
// than represented.
type WizardStep int

const (
	StepSelect WizardStep = iota
	StepCheckout
	StepSuccess
)

func (s WizardStep) String() string {
	switch s {
	case StepSelect:
		return "select"
	case StepCheckout:
		return "checkout"
	case StepSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// BookingCreator is the one network dependency of the wizard
type BookingCreator interface {
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)
}

// BookingWizard drives one bulk-booking session for one event: quantity
// selection, checkout details, and submission. A wizard owns its selection and
// buyer details exclusively for the lifetime of the session; closing the
// session resets everything.
type BookingWizard struct {
	api     BookingCreator
	event   *models.Event
	tickets map[string]*models.Ticket
	order   []string // Ticket ids in list order, for stable selection output

	mu        sync.Mutex
	step      WizardStep
	selection map[string]int
	buyer     models.BuyerDetails
	inFlight  bool
	booking   *models.Booking
}

// NewBookingWizard creates a wizard over an event's normalized ticket list.
// Tickets that cannot be purchased are kept for display but never selectable.
func NewBookingWizard(api BookingCreator, event *models.Event, tickets []*models.Ticket) *BookingWizard {
	w := &BookingWizard{
		api:       api,
		event:     event,
		tickets:   make(map[string]*models.Ticket, len(tickets)),
		selection: make(map[string]int),
	}
	for _, t := range tickets {
		if _, dup := w.tickets[t.ID]; dup {
			continue
		}
		w.tickets[t.ID] = t
		w.order = append(w.order, t.ID)
	}
	return w
}

// Step returns the wizard's current step.
func (w *BookingWizard) Step() WizardStep {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Booking returns the confirmed booking after a successful submission, nil
// before that.
func (w *BookingWizard) Booking() *models.Booking {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.booking
}

// AvailableTickets returns the purchasable subset of the event's tickets in
// list order. Sold-out and coming-soon tickets never appear here.
func (w *BookingWizard) AvailableTickets() []*models.Ticket {
	var out []*models.Ticket
	for _, id := range w.order {
		if t := w.tickets[id]; t.IsPurchasable() {
			out = append(out, t)
		}
	}
	return out
}

// SetQuantity sets the selected quantity for a ticket, clamped into
// [0, min(maxPerOrder, available)]. It returns the quantity actually stored.
// Quantity changes are only meaningful while selecting; outside the select
// step the current value is returned unchanged.
func (w *BookingWizard) SetQuantity(ticketID string, quantity int) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepSelect {
		return w.selection[ticketID]
	}

	ticket, ok := w.tickets[ticketID]
	if !ok || !ticket.IsPurchasable() {
		delete(w.selection, ticketID)
		return 0
	}

	if quantity < 0 {
		quantity = 0
	}
	if max := ticket.MaxSelectable(); quantity > max {
		quantity = max
	}

	if quantity == 0 {
		delete(w.selection, ticketID)
	} else {
		w.selection[ticketID] = quantity
	}
	return quantity
}

// AdjustQuantity changes a ticket's quantity by delta, with the same clamping
// as SetQuantity.
func (w *BookingWizard) AdjustQuantity(ticketID string, delta int) int {
	w.mu.Lock()
	current := w.selection[ticketID]
	w.mu.Unlock()
	return w.SetQuantity(ticketID, current+delta)
}

// Selection returns the selected lines with quantity > 0, in ticket list order.
func (w *BookingWizard) Selection() []SelectionLine {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selectionLocked()
}

func (w *BookingWizard) selectionLocked() []SelectionLine {
	var lines []SelectionLine
	for _, id := range w.order {
		if qty := w.selection[id]; qty > 0 {
			lines = append(lines, SelectionLine{Ticket: w.tickets[id], Quantity: qty})
		}
	}
	return lines
}

// Totals recomputes the pricing breakdown for the current selection.
func (w *BookingWizard) Totals() models.PricingBreakdown {
	return ComputeTotals(w.Selection())
}

// TotalQuantity returns the total number of tickets currently selected.
func (w *BookingWizard) TotalQuantity() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	total := 0
	for _, qty := range w.selection {
		total += qty
	}
	return total
}

// ProceedToCheckout moves select → checkout. The guard requires at least one
// selected ticket; a failing guard keeps the wizard on select.
func (w *BookingWizard) ProceedToCheckout() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepSelect {
		return fmt.Errorf("%w: cannot proceed to checkout from %s", models.ErrInvalidTransition, w.step)
	}

	total := 0
	for _, qty := range w.selection {
		total += qty
	}
	if total == 0 {
		return models.ErrEmptySelection
	}

	w.step = StepCheckout
	return nil
}

// Back moves checkout → select, keeping the selection intact.
func (w *BookingWizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepCheckout {
		return fmt.Errorf("%w: cannot go back from %s", models.ErrInvalidTransition, w.step)
	}
	w.step = StepSelect
	return nil
}

// SetBuyerDetails stores the checkout form contents. Validation happens on
// submit, not here, so partially filled forms are fine.
func (w *BookingWizard) SetBuyerDetails(details models.BuyerDetails) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buyer = details
}

// Submit validates the buyer details and issues exactly one booking creation
// request. Failures of any kind keep the wizard on checkout; only a response
// with a recognizable booking payload reaches success. A second Submit while
// one is in flight returns ErrSubmissionInFlight without touching the network.
func (w *BookingWizard) Submit(ctx context.Context) (*models.Booking, error) {
	w.mu.Lock()
	if w.step != StepCheckout {
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot submit from %s", models.ErrInvalidTransition, w.step)
	}
	if w.inFlight {
		w.mu.Unlock()
		return nil, models.ErrSubmissionInFlight
	}
	if err := w.buyer.Validate(); err != nil {
		w.mu.Unlock()
		return nil, err
	}

	req := &models.BookingRequest{
		EventID:     w.event.ID,
		Reference:   "ETX-" + uuid.NewString(),
		UserDetails: w.buyer,
	}
	for _, line := range w.selectionLocked() {
		req.Tickets = append(req.Tickets, models.BookingTicket{
			TicketID: line.Ticket.ID,
			Quantity: line.Quantity,
		})
	}
	if len(req.Tickets) == 0 {
		w.mu.Unlock()
		return nil, models.ErrEmptySelection
	}

	w.inFlight = true
	w.mu.Unlock()

	booking, err := w.api.CreateBooking(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight = false

	if err != nil {
		log.Printf("booking submission failed: %v", err)
		return nil, fmt.Errorf("%s: %w", SubmitErrorMessage(err), err)
	}
	if !booking.Recognized() {
		log.Printf("booking submission returned unrecognizable payload")
		return nil, models.ErrProtocol
	}

	w.step = StepSuccess
	w.booking = booking
	return booking, nil
}

// Reset returns the wizard to select with a cleared selection, buyer details
// and result. This is the modal-close path.
func (w *BookingWizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepSelect
	w.selection = make(map[string]int)
	w.buyer = models.BuyerDetails{}
	w.booking = nil
}

// SubmitErrorMessage maps a submission error to the message shown to the
// buyer: field-level API errors first, the API's own message next, a generic
// fallback last. Raw transport errors never surface directly.
func SubmitErrorMessage(err error) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	if errors.Is(err, models.ErrSessionExpired) {
		return models.ErrSessionExpired.Error()
	}
	return "Something went wrong while processing your booking. Please try again."
}
