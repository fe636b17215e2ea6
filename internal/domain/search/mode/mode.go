package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Hybrid combines semantic and text search with weighted scoring.
	Hybrid Mode = "hybrid"
	// Semantic uses vector similarity only.
	Semantic Mode = "semantic"
	// Text uses lexical relevance only.
	Text Mode = "text"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Semantic || m == Text
}

// UsesSemantic reports whether the mode requires a query embedding.
func (m Mode) UsesSemantic() bool { return m == Hybrid || m == Semantic }

// UsesText reports whether the mode runs a lexical sub-search.
func (m Mode) UsesText() bool { return m == Hybrid || m == Text }
