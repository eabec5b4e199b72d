package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// TicketUpdate is a live availability change pushed for an event room
type TicketUpdate struct {
	TicketID  string `json:"ticketId"`
	Available int    `json:"available"`
	Sold      int    `json:"sold"`
}

// CheckInUpdate is a live check-in count change pushed for an event room
type CheckInUpdate struct {
	TicketID  string `json:"ticketId,omitempty"`
	CheckedIn int    `json:"checkedIn"`
	Total     int    `json:"total"`
}

type feedMessage struct {
	Type    string          `json:"type"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// LiveEventFeed is the per-event real-time channel used by live dashboards.
// It joins one event room over a WebSocket and dispatches ticket_update and
// checkin_update messages to registered callbacks. The booking and scanning
// flows do not depend on it.
type LiveEventFeed struct {
	conn    *websocket.Conn
	eventID string

	mu              sync.Mutex
	onTicketUpdate  func(TicketUpdate)
	onCheckInUpdate func(CheckInUpdate)
	closed          bool
	done            chan struct{}
}

// ConnectLiveFeed dials the realtime endpoint and joins the event's room.
func ConnectLiveFeed(ctx context.Context, url, eventID string) (*LiveEventFeed, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to realtime channel: %w", err)
	}

	join := feedMessage{Type: "join", Room: "event:" + eventID}
	if err := conn.WriteJSON(join); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to join event room: %w", err)
	}

	feed := &LiveEventFeed{
		conn:    conn,
		eventID: eventID,
		done:    make(chan struct{}),
	}
	go feed.readLoop()
	return feed, nil
}

// OnTicketUpdate registers the callback for live availability changes.
func (f *LiveEventFeed) OnTicketUpdate(fn func(TicketUpdate)) {
	f.mu.Lock()
	f.onTicketUpdate = fn
	f.mu.Unlock()
}

// OnCheckInUpdate registers the callback for live check-in count changes.
func (f *LiveEventFeed) OnCheckInUpdate(fn func(CheckInUpdate)) {
	f.mu.Lock()
	f.onCheckInUpdate = fn
	f.mu.Unlock()
}

// Done closes when the read loop has exited (connection closed or failed).
func (f *LiveEventFeed) Done() <-chan struct{} {
	return f.done
}

// Close leaves the room and closes the connection.
func (f *LiveEventFeed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()

	_ = f.conn.WriteJSON(feedMessage{Type: "leave", Room: "event:" + f.eventID})
	return f.conn.Close()
}

func (f *LiveEventFeed) readLoop() {
	defer close(f.done)
	for {
		var msg feedMessage
		if err := f.conn.ReadJSON(&msg); err != nil {
			f.mu.Lock()
			closed := f.closed
			f.mu.Unlock()
			if !closed {
				log.Printf("realtime channel read failed: %v", err)
			}
			return
		}
		f.dispatch(msg)
	}
}

func (f *LiveEventFeed) dispatch(msg feedMessage) {
	f.mu.Lock()
	onTicket := f.onTicketUpdate
	onCheckIn := f.onCheckInUpdate
	f.mu.Unlock()

	switch msg.Type {
	case "ticket_update":
		if onTicket == nil {
			return
		}
		var update TicketUpdate
		if err := json.Unmarshal(msg.Payload, &update); err != nil {
			log.Printf("realtime: bad ticket_update payload: %v", err)
			return
		}
		onTicket(update)
	case "checkin_update":
		if onCheckIn == nil {
			return
		}
		var update CheckInUpdate
		if err := json.Unmarshal(msg.Payload, &update); err != nil {
			log.Printf("realtime: bad checkin_update payload: %v", err)
			return
		}
		onCheckIn(update)
	}
}
