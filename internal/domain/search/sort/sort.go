package sort

// Order is the result ordering strategy.
type Order string

// Sort order constants.
const (
	// Relevance orders by combined score descending.
	Relevance Order = "relevance"
	// Recent orders by creation time descending.
	Recent Order = "recent"
	// Popular orders by view+like counters descending.
	Popular Order = "popular"
	// Alphabetical orders by title or name ascending.
	Alphabetical Order = "alphabetical"
)

// IsValid checks if the order is one of the supported values.
func (o Order) IsValid() bool {
	return o == Relevance || o == Recent || o == Popular || o == Alphabetical
}
