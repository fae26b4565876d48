package render

import (
	"strings"
	"testing"

	"tourcat/models"
)

func fp(v float64) *float64 {
	return &v
}

func bp(v bool) *bool {
	return &v
}

func TestBuildCardPriceLabel(t *testing.T) {
	tests := []struct {
		name     string
		price    *float64
		expected string
	}{
		{"whole price", fp(75), "$75"},
		{"fractional price", fp(75.5), "$75.5"},
		{"zero price is still a price", fp(0), "$0"},
		{"missing price", nil, "Check Price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := BuildCard(models.Tour{Price: tt.price})
			if card.PriceLabel != tt.expected {
				t.Errorf("PriceLabel = %q, want %q", card.PriceLabel, tt.expected)
			}
		})
	}
}

func TestBuildCardTag(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		expected string
	}{
		{"first tag wins", []string{"airboat", "sunset"}, "airboat"},
		{"no tags", nil, "Tour"},
		{"empty tags", []string{}, "Tour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := BuildCard(models.Tour{Tags: tt.tags})
			if card.Tag != tt.expected {
				t.Errorf("Tag = %q, want %q", card.Tag, tt.expected)
			}
		})
	}
}

func TestBuildCardDescription(t *testing.T) {
	long := strings.Repeat("a", 101)
	longWithSpace := strings.Repeat("a", 99) + " bb" // rune 100 is a space

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"missing description gets fallback", "", fallbackDescription},
		{"short description untouched", "A quick trip.", "A quick trip."},
		{"exactly 100 chars untouched", strings.Repeat("a", 100), strings.Repeat("a", 100)},
		{"101 chars truncated to 100 plus ellipsis", long, strings.Repeat("a", 100) + "..."},
		{"trailing whitespace trimmed before ellipsis", longWithSpace, strings.Repeat("a", 99) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := BuildCard(models.Tour{Description: tt.input})
			if card.Description != tt.expected {
				t.Errorf("Description = %q, want %q", card.Description, tt.expected)
			}
		})
	}
}

func TestBuildCardDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"absent duration stays empty", "", ""},
		{"duration label stripped", "Duration: 2 hours", "2 hours"},
		{"label without colon", "duration 3 hours", "3 hours"},
		{"label case-insensitive", "DURATION: 90 minutes", "90 minutes"},
		{"line breaks collapsed", "2\nhours\napprox", "2 hours approx"},
		{"crlf collapsed", "2\r\nhours", "2 hours"},
		{"surrounding whitespace trimmed", "  4 hours  ", "4 hours"},
		{"plain text untouched", "Half day", "Half day"},
		{"only the whole label word is stripped", "Durational walk", "Durational walk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := BuildCard(models.Tour{DurationText: tt.input})
			if card.Duration != tt.expected {
				t.Errorf("Duration = %q, want %q", card.Duration, tt.expected)
			}
		})
	}
}

func TestBuildCardFreeCancellation(t *testing.T) {
	if BuildCard(models.Tour{FreeCancellation: bp(true)}).FreeCancel != true {
		t.Error("FreeCancel = false for a tour with free cancellation")
	}
	if BuildCard(models.Tour{FreeCancellation: bp(false)}).FreeCancel != false {
		t.Error("FreeCancel = true for a tour without free cancellation")
	}
	if BuildCard(models.Tour{}).FreeCancel != false {
		t.Error("FreeCancel = true for a tour with the field absent")
	}
}

func TestViewEmptySet(t *testing.T) {
	view := View(nil)

	if !strings.Contains(view, "0 tours found") {
		t.Errorf("empty view missing count line: %q", view)
	}
	if !strings.Contains(view, NoResultsMessage) {
		t.Errorf("empty view missing no-results block: %q", view)
	}
	// The no-results block replaces the card list entirely.
	if strings.Contains(view, "·") {
		t.Errorf("empty view contains card fragments: %q", view)
	}
}

func TestViewCountAndCards(t *testing.T) {
	tours := []models.Tour{
		{Name: "Gator Spotting Kayak", Company: "Everglades Expeditions", Tags: []string{"kayak"}, Price: fp(40), FreeCancellation: bp(true), DurationText: "Duration: 2 hours"},
	}

	view := View(tours)

	for _, want := range []string{
		"1 tours found",
		"Gator Spotting Kayak",
		"$40",
		"kayak",
		"Everglades Expeditions",
		"⏱ 2 hours",
		"✅ Free cancellation",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, NoResultsMessage) {
		t.Errorf("non-empty view contains the no-results block:\n%s", view)
	}
}

func TestViewEscapesListingText(t *testing.T) {
	tours := []models.Tour{
		{Name: `<script>alert("x")</script>`, Description: "a < b & c"},
	}

	view := View(tours)

	if strings.Contains(view, "<script>") {
		t.Errorf("view contains unescaped markup:\n%s", view)
	}
	if !strings.Contains(view, "&lt;script&gt;") {
		t.Errorf("view missing escaped name:\n%s", view)
	}
	if !strings.Contains(view, "a &lt; b &amp; c") {
		t.Errorf("view missing escaped description:\n%s", view)
	}
}

func TestViewOmitsDurationWhenAbsent(t *testing.T) {
	view := View([]models.Tour{{Name: "No Duration Tour"}})
	if strings.Contains(view, "⏱") {
		t.Errorf("view shows a duration line for a tour without one:\n%s", view)
	}
}

func TestConsoleView(t *testing.T) {
	tours := []models.Tour{
		{Name: "Sunset Airboat Ride", Tags: []string{"airboat"}, Price: fp(75), BookingLink: "https://example.com/book/1"},
	}

	view := ConsoleView(tours)

	for _, want := range []string{
		"1 tours found",
		"1. Sunset Airboat Ride",
		"Price: $75",
		"Category: airboat",
		"Book: https://example.com/book/1",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("console view missing %q:\n%s", want, view)
		}
	}
}

func TestConsoleViewEmptySet(t *testing.T) {
	view := ConsoleView(nil)
	if !strings.Contains(view, "0 tours found") || !strings.Contains(view, NoResultsMessage) {
		t.Errorf("empty console view = %q", view)
	}
}
