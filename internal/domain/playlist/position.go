package playlist

// Allocate computes a sort position between two optional neighbors.
// A nil pointer means the neighbor is absent. Items keep their positions
// forever; inserting between two items only ever assigns a new midpoint,
// so no existing item is renumbered.
//
// Repeated midpoint insertion between the same two neighbors halves the
// gap each time and exhausts float64 precision after roughly 50 nestings;
// there is no rebalancing routine, so that is the practical nesting bound.
func Allocate(prev, next *float64) float64 {
	switch {
	case prev == nil && next == nil:
		return 1.0
	case prev == nil:
		return *next - 1
	case next == nil:
		return *prev + 1
	default:
		return (*prev + *next) / 2
	}
}
