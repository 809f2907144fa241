package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		path string
		want RateLimitType
	}{
		{"/health", RateLimitTypeHealth},
		{"/ping", RateLimitTypeHealth},
		{"/api/v1/admin/analytics/overview", RateLimitTypeAdmin},
		{"/api/v1/admin/bookings", RateLimitTypeAdmin},
		{"/api/v1/auth/login", RateLimitTypeAuth},
		{"/api/v1/tours/:tourId/seats", RateLimitTypeSeat},
		{"/api/v1/bookings", RateLimitTypeBooking},
		{"/api/v1/bookings/:bookingId/status", RateLimitTypeBooking},
		{"/api/v1/tours", RateLimitTypePublic},
		{"/api/v1/payment-settings", RateLimitTypePublic},
		{"/api/v1/something-else", RateLimitTypeDefault},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, getRateLimitType(tt.path))
		})
	}
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newContext := func() *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Request.RemoteAddr = "10.0.0.1:52341"
		return c
	}

	t.Run("remote addr fallback", func(t *testing.T) {
		c := newContext()
		assert.Equal(t, "10.0.0.1", getClientIP(c))
	})

	t.Run("x-forwarded-for first hop wins", func(t *testing.T) {
		c := newContext()
		c.Request.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.2")
		assert.Equal(t, "203.0.113.7", getClientIP(c))
	})

	t.Run("invalid forwarded value is ignored", func(t *testing.T) {
		c := newContext()
		c.Request.Header.Set("X-Forwarded-For", "not-an-ip")
		assert.Equal(t, "10.0.0.1", getClientIP(c))
	})

	t.Run("x-real-ip honored", func(t *testing.T) {
		c := newContext()
		c.Request.Header.Set("X-Real-IP", "203.0.113.9")
		assert.Equal(t, "203.0.113.9", getClientIP(c))
	})
}
