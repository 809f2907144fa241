package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const defaultAPIPrefix = "/api/v1"

// Seat mirrors one seat map entry as served by the API.
type Seat struct {
	ID          string `json:"id"`
	Row         string `json:"row"`
	Number      int    `json:"number"`
	IsAvailable bool   `json:"isAvailable"`
	ReservedBy  string `json:"reservedBy,omitempty"`
	BookedBy    string `json:"bookedBy,omitempty"`
}

// SeatMap is the polled state of one bus.
type SeatMap struct {
	TourID          string `json:"tourId"`
	BusIndex        int    `json:"busIndex"`
	BusCount        int    `json:"busCount"`
	Seats           []Seat `json:"seats"`
	AvailableSeats  int    `json:"availableSeats"`
	NextBusUnlocked bool   `json:"nextBusUnlocked"`
}

// Reservation confirms an applied replace.
type Reservation struct {
	TourID        string   `json:"tourId"`
	BusIndex      int      `json:"busIndex"`
	ClientID      string   `json:"clientId"`
	ReservedSeats []string `json:"reservedSeats"`
	TTLSeconds    int      `json:"ttlSeconds"`
	SeatMap       []Seat   `json:"seatMap"`
}

// BookingSeat names one seat on one bus in a booking request.
type BookingSeat struct {
	BusIndex int    `json:"busIndex"`
	SeatID   string `json:"seatId"`
}

// BookingRequest creates a pending booking.
type BookingRequest struct {
	TourID          string        `json:"tourId"`
	ClientID        string        `json:"clientId"`
	CustomerName    string        `json:"customerName"`
	CustomerEmail   string        `json:"customerEmail"`
	CustomerPhone   string        `json:"customerPhone"`
	Persons         int           `json:"persons"`
	Notes           string        `json:"notes,omitempty"`
	Seats           []BookingSeat `json:"seats,omitempty"`
	PaymentMethod   string        `json:"paymentMethod"`
	TransactionID   string        `json:"transactionId,omitempty"`
	PaymentProofURL string        `json:"paymentProof,omitempty"`
}

// Booking is the created booking as returned by the API.
type Booking struct {
	ID         string    `json:"id"`
	BookingRef string    `json:"booking_ref"`
	TourID     string    `json:"tour_id"`
	ClientID   string    `json:"client_id"`
	Persons    int       `json:"persons"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// BookingStatus is the polled lifecycle state.
type BookingStatus struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	TimeLeft  string    `json:"time_left"`
}

// IsTerminal reports whether the status can no longer change.
func (bs *BookingStatus) IsTerminal() bool {
	switch bs.Status {
	case "approved", "rejected", "expired":
		return true
	}
	return false
}

// ConflictError is returned when a reservation replace loses a seat
// race. The whole request failed; nothing was reserved.
type ConflictError struct {
	SeatID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seat %s is taken", e.SeatID)
}

// APIError carries a non-2xx response that is not a seat conflict.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// envelope matches the server's standard response shape.
type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

// Client is a minimal API client for the public booking flow.
type Client struct {
	baseURL    string
	apiPrefix  string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIPrefix overrides the default /api/v1 prefix.
func WithAPIPrefix(prefix string) Option {
	return func(c *Client) { c.apiPrefix = prefix }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		apiPrefix: defaultAPIPrefix,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSeatMap fetches the seat map for one bus of a tour.
func (c *Client) GetSeatMap(ctx context.Context, tourID string, busIndex int) (*SeatMap, error) {
	path := fmt.Sprintf("/tours/%s/seats?bus=%s", tourID, strconv.Itoa(busIndex))

	var seatMap SeatMap
	if err := c.do(ctx, http.MethodGet, path, nil, &seatMap); err != nil {
		return nil, err
	}
	return &seatMap, nil
}

// ReplaceSeats replaces the caller's whole reservation set on one bus.
// An empty seat list releases everything. On a seat race the call
// returns *ConflictError and the caller should re-fetch the map.
func (c *Client) ReplaceSeats(ctx context.Context, tourID string, busIndex int, clientID string, seatIDs []string) (*Reservation, error) {
	path := fmt.Sprintf("/tours/%s/seats?bus=%s", tourID, strconv.Itoa(busIndex))
	body := map[string]interface{}{
		"clientId": clientID,
		"seatIds":  seatIDs,
	}

	var reservation Reservation
	if err := c.do(ctx, http.MethodPost, path, body, &reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CreateBooking submits a pending booking.
func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (*Booking, error) {
	var booking Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookingStatus polls a booking's lifecycle state.
func (c *Client) GetBookingStatus(ctx context.Context, bookingID string) (*BookingStatus, error) {
	var status BookingStatus
	if err := c.do(ctx, http.MethodGet, "/bookings/"+bookingID+"/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+c.apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode == http.StatusConflict {
		var conflict struct {
			Seat string `json:"seat"`
		}
		_ = json.Unmarshal(env.Errors, &conflict)
		return &ConflictError{SeatID: conflict.Seat}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if dest != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
	return nil
}
