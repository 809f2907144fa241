package bookingclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, statusCode int, data interface{}, errs interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	status := "success"
	if statusCode >= 400 {
		status = "error"
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      status,
		"status_code": statusCode,
		"message":     "",
		"data":        data,
		"errors":      errs,
	})
}

func TestGetSeatMap_ParsesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/tours/tour-1/seats", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("bus"))

		writeEnvelope(w, http.StatusOK, SeatMap{
			TourID:   "tour-1",
			BusIndex: 1,
			BusCount: 2,
			Seats: []Seat{
				{ID: "A1", Row: "A", Number: 1, IsAvailable: true},
				{ID: "A2", Row: "A", Number: 2, IsAvailable: false, BookedBy: "other"},
			},
			AvailableSeats: 1,
		}, nil)
	}))
	defer server.Close()

	client := New(server.URL)
	seatMap, err := client.GetSeatMap(context.Background(), "tour-1", 1)
	require.NoError(t, err)

	assert.Equal(t, "tour-1", seatMap.TourID)
	assert.Equal(t, 1, seatMap.BusIndex)
	require.Len(t, seatMap.Seats, 2)
	assert.True(t, seatMap.Seats[0].IsAvailable)
	assert.False(t, seatMap.Seats[1].IsAvailable)
}

func TestReplaceSeats_SendsFullSelection(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		writeEnvelope(w, http.StatusOK, Reservation{
			TourID:        "tour-1",
			ClientID:      "client-1",
			ReservedSeats: []string{"A1", "A2"},
			TTLSeconds:    900,
		}, nil)
	}))
	defer server.Close()

	client := New(server.URL)
	reservation, err := client.ReplaceSeats(context.Background(), "tour-1", 0, "client-1", []string{"A1", "A2"})
	require.NoError(t, err)

	assert.Equal(t, "client-1", received["clientId"])
	assert.Equal(t, []interface{}{"A1", "A2"}, received["seatIds"])
	assert.Equal(t, []string{"A1", "A2"}, reservation.ReservedSeats)
	assert.Equal(t, 900, reservation.TTLSeconds)
}

func TestReplaceSeats_ConflictNamesTheSeat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, nil, map[string]string{"seat": "B2"})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.ReplaceSeats(context.Background(), "tour-1", 0, "client-1", []string{"B2"})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "B2", conflict.SeatID)
}

func TestCreateBooking_ParsesBooking(t *testing.T) {
	expiresAt := time.Now().Add(30 * time.Minute).UTC().Truncate(time.Second)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bookings", r.URL.Path)

		var req BookingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Rahim Uddin", req.CustomerName)
		assert.Equal(t, 2, req.Persons)

		writeEnvelope(w, http.StatusCreated, Booking{
			ID:         "b-1",
			BookingRef: "TUR-20260301-ABCDEF",
			Status:     "pending",
			ExpiresAt:  expiresAt,
			TotalPrice: 9000,
		}, nil)
	}))
	defer server.Close()

	client := New(server.URL)
	booking, err := client.CreateBooking(context.Background(), BookingRequest{
		TourID:        "tour-1",
		ClientID:      "client-1",
		CustomerName:  "Rahim Uddin",
		CustomerEmail: "rahim@example.com",
		CustomerPhone: "+8801700000001",
		Persons:       2,
		PaymentMethod: "bkash",
		TransactionID: "TX1",
	})
	require.NoError(t, err)
	assert.Equal(t, "TUR-20260301-ABCDEF", booking.BookingRef)
	assert.Equal(t, "pending", booking.Status)
	assert.True(t, booking.ExpiresAt.Equal(expiresAt))
}

func TestGetBookingStatus_TerminalDetection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bookings/b-1/status", r.URL.Path)
		writeEnvelope(w, http.StatusOK, BookingStatus{
			ID:     "b-1",
			Status: "approved",
		}, nil)
	}))
	defer server.Close()

	client := New(server.URL)
	status, err := client.GetBookingStatus(context.Background(), "b-1")
	require.NoError(t, err)
	assert.True(t, status.IsTerminal())

	pending := &BookingStatus{Status: "pending"}
	assert.False(t, pending.IsTerminal())
}

func TestClient_APIErrorCarriesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":      "error",
			"status_code": 404,
			"message":     "booking not found",
		})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.GetBookingStatus(context.Background(), "missing")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "booking not found", apiErr.Message)
}
