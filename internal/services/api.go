package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventtix/internal/models"
)

// APIConfig represents events/booking API client configuration
type APIConfig struct {
	BaseURL string
	Token   string // Bearer token for authorized endpoints, may be a JWT
	Timeout time.Duration
}

// APIClient talks to the remote events/booking API. All business truth
// (inventory, pricing settlement, duplicate prevention) lives on the server;
// this client only shapes requests and maps responses and errors.
type APIClient struct {
	config  APIConfig
	client  *http.Client
	baseURL string
}

// NewAPIClient creates a new events/booking API client
func NewAPIClient(config APIConfig) *APIClient {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &APIClient{
		config:  config,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(config.BaseURL, "/"),
	}
}

// GetEvent fetches one event record.
func (c *APIClient) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	if err := c.get(ctx, "/event/"+url.PathEscape(eventID), &event); err != nil {
		return nil, err
	}
	if event.ID == "" {
		return nil, models.ErrEventNotFound
	}
	return &event, nil
}

// GetEventTickets fetches the live ticket availability list for an event and
// normalizes it. Raw records stay untyped until the normalizer has resolved
// their inconsistent field names.
func (c *APIClient) GetEventTickets(ctx context.Context, eventID string) ([]*models.Ticket, error) {
	var payload struct {
		Tickets []RawTicket `json:"tickets"`
	}
	if err := c.get(ctx, "/booking/event/"+url.PathEscape(eventID)+"/tickets", &payload); err != nil {
		return nil, err
	}
	return NewTicketNormalizer().NormalizeList(payload.Tickets), nil
}

// CreateBooking submits a booking. The response must carry a recognizable
// booking payload; anything else is a protocol error, never a success.
func (c *APIClient) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	var booking models.Booking
	if err := c.post(ctx, "/booking", req, &booking); err != nil {
		return nil, err
	}
	if !booking.Recognized() {
		return nil, models.ErrProtocol
	}
	return &booking, nil
}

// GetBooking fetches a booking record, optionally with per-ticket QR payloads
// for the "my tickets" view.
func (c *APIClient) GetBooking(ctx context.Context, bookingID string, includeQRCodes bool) (*models.Booking, error) {
	path := "/booking/" + url.PathEscape(bookingID)
	if includeQRCodes {
		path += "?includeQRCodes=true"
	}

	var booking models.Booking
	if err := c.get(ctx, path, &booking); err != nil {
		return nil, err
	}
	if !booking.Recognized() {
		return nil, models.ErrProtocol
	}
	return &booking, nil
}

// CheckInTicket submits a scanned QR payload for check-in.
func (c *APIClient) CheckInTicket(ctx context.Context, eventID, code string) (*models.CheckInResult, error) {
	req := struct {
		EventID string `json:"eventId"`
		Code    string `json:"code"`
	}{EventID: eventID, Code: code}

	var result models.CheckInResult
	if err := c.post(ctx, "/booking/checkin", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadTicketPDF fetches the server-rendered ticket PDF and writes it to
// path. The file is written through a temp file so a failed download never
// leaves a partial PDF behind.
func (c *APIClient) DownloadTicketPDF(ctx context.Context, bookingID, path string) error {
	if err := c.ensureSession(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/booking/"+url.PathEscape(bookingID)+"/pdf", nil)
	if err != nil {
		return fmt.Errorf("failed to create pdf request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download ticket pdf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorFromResponse(resp)
	}

	tmp, err := os.CreateTemp("", "eventtix-pdf-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ticket pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close ticket pdf: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move ticket pdf into place: %w", err)
	}
	return nil
}

// ListAddOns fetches the organizer's add-on inventory for an event.
func (c *APIClient) ListAddOns(ctx context.Context, eventID string) ([]*models.AddOn, error) {
	var payload struct {
		AddOns []*models.AddOn `json:"addons"`
	}
	if err := c.get(ctx, "/event/"+url.PathEscape(eventID)+"/addons", &payload); err != nil {
		return nil, err
	}
	return payload.AddOns, nil
}

// UpdateAddOn patches an add-on inventory item.
func (c *APIClient) UpdateAddOn(ctx context.Context, addOnID string, req *models.AddOnUpdateRequest) (*models.AddOn, error) {
	var addOn models.AddOn
	if err := c.do(ctx, http.MethodPatch, "/addons/"+url.PathEscape(addOnID), req, &addOn); err != nil {
		return nil, err
	}
	return &addOn, nil
}

// DeleteAddOn removes an add-on inventory item.
func (c *APIClient) DeleteAddOn(ctx context.Context, addOnID string) error {
	return c.do(ctx, http.MethodDelete, "/addons/"+url.PathEscape(addOnID), nil, nil)
}

// GetProfile fetches the signed-in user's profile.
func (c *APIClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.get(ctx, "/profile", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile patches the signed-in user's profile.
func (c *APIClient) UpdateProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	var updated models.Profile
	if err := c.do(ctx, http.MethodPatch, "/profile", profile, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *APIClient) get(ctx context.Context, path string, dest interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, dest)
}

func (c *APIClient) post(ctx context.Context, path string, body, dest interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, dest)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, dest interface{}) error {
	if err := c.ensureSession(); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *APIClient) authorize(req *http.Request) {
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}
}

// ensureSession rejects calls up front when the configured token is a JWT
// that has already expired, instead of burning a round trip on a guaranteed
// 401. Opaque (non-JWT) tokens pass through; the server is the judge of those.
func (c *APIClient) ensureSession() error {
	if c.config.Token == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.config.Token, claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if time.Now().After(exp.Time) {
		return models.ErrSessionExpired
	}
	return nil
}

// errorFromResponse maps a non-2xx response into an APIError, keeping any
// field-level validation messages the server sent. 404s on lookup endpoints
// map to the not-found sentinels at the call sites that care.
func (c *APIClient) errorFromResponse(resp *http.Response) error {
	apiErr := &models.APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(data) > 0 {
		// Best effort; a non-JSON error body just means no message
		_ = json.Unmarshal(data, apiErr)
	}
	return apiErr
}
