package render

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"tourcat/models"
)

const (
	// DescriptionLimit is the longest description shown on a card before
	// truncation kicks in.
	DescriptionLimit = 100

	checkPriceLabel     = "Check Price"
	defaultTag          = "Tour"
	fallbackDescription = "An unforgettable guided tour through the Florida Everglades."
	ellipsis            = "..."

	// NoResultsMessage replaces the card list entirely when nothing matches.
	NoResultsMessage = "No tours match your filters. Try a different search or reset the filters."

	// LoadErrorMessage is shown in place of the listing area when the
	// catalog could not be loaded.
	LoadErrorMessage = "Unable to load tours right now. Please try again later."
)

var (
	durationLabelRE = regexp.MustCompile(`(?i)^\s*duration\b:?\s*`)
	lineBreakRE     = regexp.MustCompile(`[\r\n]+`)
)

// Card holds the precomputed display fragments for one tour.
type Card struct {
	Title       string
	Company     string
	PriceLabel  string
	Tag         string
	Description string
	Duration    string // empty when the tour has no duration
	FreeCancel  bool
	BookingLink string
}

// BuildCard computes the display fragments for a single tour, resolving
// every optional field to its documented fallback.
func BuildCard(t models.Tour) Card {
	return Card{
		Title:       t.Name,
		Company:     t.Company,
		PriceLabel:  priceLabel(t.Price),
		Tag:         categoryTag(t.Tags),
		Description: truncateDescription(description(t.Description)),
		Duration:    cleanDuration(t.DurationText),
		FreeCancel:  t.HasFreeCancellation(),
		BookingLink: t.BookingLink,
	}
}

// View assembles the Telegram HTML view for the displayed set: the result
// count followed by one card per tour, or the fixed no-results block when
// the set is empty. All tour-provided text is HTML-escaped.
func View(tours []models.Tour) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>%d tours found</b>\n\n", len(tours)))

	if len(tours) == 0 {
		sb.WriteString(NoResultsMessage)
		return sb.String()
	}

	for _, t := range tours {
		c := BuildCard(t)
		sb.WriteString(fmt.Sprintf("<b>%s</b> · %s\n", html.EscapeString(c.Title), html.EscapeString(c.PriceLabel)))
		if c.Company != "" {
			sb.WriteString(fmt.Sprintf("<i>%s</i> · %s\n", html.EscapeString(c.Tag), html.EscapeString(c.Company)))
		} else {
			sb.WriteString(fmt.Sprintf("<i>%s</i>\n", html.EscapeString(c.Tag)))
		}
		sb.WriteString(html.EscapeString(c.Description))
		sb.WriteString("\n")
		if c.Duration != "" {
			sb.WriteString(fmt.Sprintf("⏱ %s\n", html.EscapeString(c.Duration)))
		}
		if c.FreeCancel {
			sb.WriteString("✅ Free cancellation\n")
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// ConsoleView assembles the plain-text view printed in CLI mode.
func ConsoleView(tours []models.Tour) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d tours found\n", len(tours)))

	if len(tours) == 0 {
		sb.WriteString(NoResultsMessage)
		sb.WriteString("\n")
		return sb.String()
	}

	for i, t := range tours {
		c := BuildCard(t)
		sb.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, c.Title))
		sb.WriteString(fmt.Sprintf("   Price: %s\n", c.PriceLabel))
		sb.WriteString(fmt.Sprintf("   Category: %s\n", c.Tag))
		if c.Company != "" {
			sb.WriteString(fmt.Sprintf("   Operator: %s\n", c.Company))
		}
		sb.WriteString(fmt.Sprintf("   %s\n", c.Description))
		if c.Duration != "" {
			sb.WriteString(fmt.Sprintf("   Duration: %s\n", c.Duration))
		}
		if c.FreeCancel {
			sb.WriteString("   Free cancellation\n")
		}
		if c.BookingLink != "" {
			sb.WriteString(fmt.Sprintf("   Book: %s\n", c.BookingLink))
		}
	}

	return sb.String()
}

// priceLabel formats the price for display. A tour without a price gets the
// fixed placeholder rather than $0.
func priceLabel(price *float64) string {
	if price == nil {
		return checkPriceLabel
	}
	return "$" + strconv.FormatFloat(*price, 'f', -1, 64)
}

func categoryTag(tags []string) string {
	if len(tags) == 0 {
		return defaultTag
	}
	return tags[0]
}

func description(s string) string {
	if s == "" {
		return fallbackDescription
	}
	return s
}

// truncateDescription cuts the text to DescriptionLimit characters, trimming
// trailing whitespace from the cut before appending the ellipsis.
func truncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= DescriptionLimit {
		return s
	}
	cut := strings.TrimRight(string(runes[:DescriptionLimit]), " \t\n\r")
	return cut + ellipsis
}

// cleanDuration strips a leading "Duration" label word, collapses embedded
// line breaks to single spaces and trims surrounding whitespace. An absent
// duration comes back empty so the caller can omit the line.
func cleanDuration(s string) string {
	s = durationLabelRE.ReplaceAllString(s, "")
	s = lineBreakRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
