package filter

import (
	"sort"
	"strings"

	"tourcat/models"
	"tourcat/pricebucket"
)

// State holds the three filter selections read from the UI controls.
// An empty value means the corresponding filter imposes no constraint.
// State is read fresh on every filter-triggering event, never cached.
type State struct {
	Activity string
	Bucket   pricebucket.Bucket
	Search   string
}

// activityKeywords expands a category token into the keywords it covers.
// Tokens without an entry match as their own sole keyword.
var activityKeywords = map[string][]string{
	"airboat":  {"airboat", "boat"},
	"wildlife": {"wildlife", "gator", "alligator", "animal", "bird"},
	"kayak":    {"kayak", "canoe", "paddle"},
	"sunset":   {"sunset", "evening", "night"},
	"private":  {"private", "vip"},
}

// Categories lists the known activity categories in display order.
func Categories() []string {
	return []string{"airboat", "wildlife", "kayak", "sunset", "private"}
}

// MatchActivity reports whether a tour belongs to the given activity
// category. Each keyword of the category is tested as a case-insensitive
// substring of the tour's space-joined tags and its name.
func MatchActivity(t models.Tour, category string) bool {
	if category == "" {
		return true
	}
	keywords, ok := activityKeywords[strings.ToLower(category)]
	if !ok {
		keywords = []string{category}
	}
	haystack := strings.ToLower(strings.Join(t.Tags, " ") + " " + t.Name)
	for _, keyword := range keywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// MatchSearch reports whether the trimmed, lowercased query is a substring
// of the tour's combined searchable text (name, company, description, tags).
func MatchSearch(t models.Tour, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	parts := []string{t.Name, t.Company, t.Description}
	parts = append(parts, t.Tags...)
	return strings.Contains(strings.ToLower(strings.Join(parts, " ")), query)
}

// Apply returns the tours that pass all three matchers, preserving the
// working set's relative order. The working set is never modified; the
// result is always a fresh slice, recomputed in full.
func Apply(tours []models.Tour, s State) []models.Tour {
	matched := []models.Tour{}
	for _, t := range tours {
		if !MatchActivity(t, s.Activity) {
			continue
		}
		if !s.Bucket.Match(t.Price) {
			continue
		}
		if !MatchSearch(t, s.Search) {
			continue
		}
		matched = append(matched, t)
	}
	return matched
}

// SortByQuality returns a new slice ordered by quality score descending.
// Missing scores sort as zero; tours with equal scores keep the relative
// order they arrived in.
func SortByQuality(tours []models.Tour) []models.Tour {
	sorted := make([]models.Tour, len(tours))
	copy(sorted, tours)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Quality() > sorted[j].Quality()
	})
	return sorted
}
