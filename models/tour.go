package models

// Tour represents one tour offering in the catalog.
// Optional fields are pointers so that "absent" stays distinct from a zero
// value; a tour with no price is not a free tour.
type Tour struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Company          string   `json:"company"`
	Description      string   `json:"description"`
	Tags             []string `json:"tags"`
	Price            *float64 `json:"price"`
	DurationText     string   `json:"durationText"`
	FreeCancellation *bool    `json:"freeCancellation"`
	Image            string   `json:"image"`
	BookingLink      string   `json:"bookingLink"`
	QualityScore     *float64 `json:"qualityScore"`
}

// Quality returns the ordering score, treating a missing score as zero.
func (t Tour) Quality() float64 {
	if t.QualityScore == nil {
		return 0
	}
	return *t.QualityScore
}

// PriceOrZero returns the price, or zero when the tour has none. Only for
// reporting contexts (analytics values); filtering must use Price directly
// to keep "no price" distinct from "free".
func (t Tour) PriceOrZero() float64 {
	if t.Price == nil {
		return 0
	}
	return *t.Price
}

// HasFreeCancellation reports whether the tour advertises free cancellation.
func (t Tour) HasFreeCancellation() bool {
	return t.FreeCancellation != nil && *t.FreeCancellation
}
