package analytics

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	eventName     = "tour_booking_click"
	eventCategory = "Tour Booking"
	currencyCode  = "USD"
)

// Event is the payload posted to the analytics sink for one booking click.
type Event struct {
	Event    string  `json:"event"`
	Category string  `json:"category"`
	Label    string  `json:"label"`
	TourID   string  `json:"tour_id"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Tracker reports booking-link activations. Implementations are
// fire-and-forget: failures are logged, never returned.
type Tracker interface {
	TrackBookingClick(name, tourID string, price float64)
}

// NewTracker returns an HTTP tracker for the endpoint, or a silent no-op
// when no endpoint is configured. Callers never need to check availability.
func NewTracker(endpoint, propertyID string) Tracker {
	if endpoint == "" {
		return NopTracker{}
	}
	return &HTTPTracker{
		endpoint:   endpoint,
		propertyID: propertyID,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// HTTPTracker posts events as JSON to a measurement endpoint.
type HTTPTracker struct {
	endpoint   string
	propertyID string
	client     *http.Client
}

// TrackBookingClick reports one activation of a tour's call-to-action.
func (t *HTTPTracker) TrackBookingClick(name, tourID string, price float64) {
	event := Event{
		Event:    eventName,
		Category: eventCategory,
		Label:    name,
		TourID:   tourID,
		Value:    price,
		Currency: currencyCode,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Warning: Failed to encode analytics event: %v\n", err)
		return
	}

	endpoint := t.endpoint
	if t.propertyID != "" {
		endpoint += "?id=" + url.QueryEscape(t.propertyID)
	}

	resp, err := t.client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("Warning: Failed to send analytics event: %v\n", err)
		return
	}
	resp.Body.Close()
}

// NopTracker discards every event. Used when no analytics sink is
// configured; tracking must never become an error.
type NopTracker struct{}

// TrackBookingClick does nothing.
func (NopTracker) TrackBookingClick(name, tourID string, price float64) {}
