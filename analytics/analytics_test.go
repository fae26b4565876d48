package analytics

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewTrackerWithoutEndpoint(t *testing.T) {
	tracker := NewTracker("", "")
	if _, ok := tracker.(NopTracker); !ok {
		t.Fatalf("NewTracker(\"\") = %T, want NopTracker", tracker)
	}

	// Tracking with no sink configured must be a silent no-op.
	tracker.TrackBookingClick("Sunset Airboat Ride", "t1", 75)
}

func TestHTTPTrackerPayload(t *testing.T) {
	var gotBody []byte
	var gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer server.Close()

	tracker := NewTracker(server.URL, "G-TEST123")
	tracker.TrackBookingClick("Gator Spotting Kayak", "gator-kayak", 40)

	if gotQuery != "id=G-TEST123" {
		t.Errorf("query = %q, want %q", gotQuery, "id=G-TEST123")
	}

	var event Event
	if err := json.Unmarshal(gotBody, &event); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if event.Event != "tour_booking_click" {
		t.Errorf("event = %q, want %q", event.Event, "tour_booking_click")
	}
	if event.Category != "Tour Booking" {
		t.Errorf("category = %q, want %q", event.Category, "Tour Booking")
	}
	if event.Label != "Gator Spotting Kayak" {
		t.Errorf("label = %q, want %q", event.Label, "Gator Spotting Kayak")
	}
	if event.TourID != "gator-kayak" {
		t.Errorf("tour_id = %q, want %q", event.TourID, "gator-kayak")
	}
	if event.Value != 40 {
		t.Errorf("value = %v, want 40", event.Value)
	}
	if event.Currency != "USD" {
		t.Errorf("currency = %q, want %q", event.Currency, "USD")
	}
}

// A missing price is reported as value 0, not skipped.
func TestHTTPTrackerZeroValue(t *testing.T) {
	var event Event

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &event)
	}))
	defer server.Close()

	NewTracker(server.URL, "").TrackBookingClick("Mystery Tour", "m1", 0)

	if event.Value != 0 {
		t.Errorf("value = %v, want 0", event.Value)
	}
	if event.TourID != "m1" {
		t.Errorf("tour_id = %q, want %q", event.TourID, "m1")
	}
}

// A dead sink is logged, never raised.
func TestHTTPTrackerUnreachableSink(t *testing.T) {
	tracker := NewTracker("http://127.0.0.1:1", "")
	tracker.TrackBookingClick("Sunset Airboat Ride", "t1", 75)
}
