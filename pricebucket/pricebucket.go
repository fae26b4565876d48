package pricebucket

// Bucket identifies one of the fixed price ranges used for coarse filtering.
// The empty bucket means "any price".
type Bucket string

const (
	Any     Bucket = ""
	Budget  Bucket = "0-50"
	Mid     Bucket = "50-100"
	Upper   Bucket = "100-200"
	Premium Bucket = "200+"
)

// Buckets lists the selectable buckets in display order, Any first.
func Buckets() []Bucket {
	return []Bucket{Any, Budget, Mid, Upper, Premium}
}

// Label returns the human-readable form shown on the price selector.
func (b Bucket) Label() string {
	switch b {
	case Budget:
		return "$0-$50"
	case Mid:
		return "$50-$100"
	case Upper:
		return "$100-$200"
	case Premium:
		return "$200+"
	}
	return "Any price"
}

// Match reports whether a price falls in the bucket. Named ranges are
// inclusive on their upper bound, so a $50 tour belongs to "0-50" and not
// to "50-100". A nil price matches Any but never a named bucket. A bucket
// value outside the fixed set imposes no constraint at all, priced or not:
// bucket values come from our own selector keyboard, so an unknown one
// means version skew, and showing everything degrades better than showing
// nothing.
func (b Bucket) Match(price *float64) bool {
	if b == Any {
		return true
	}
	switch b {
	case Budget, Mid, Upper, Premium:
	default:
		return true
	}
	if price == nil {
		return false
	}
	p := *price
	switch b {
	case Budget:
		return p <= 50
	case Mid:
		return p > 50 && p <= 100
	case Upper:
		return p > 100 && p <= 200
	default:
		return p > 200
	}
}
