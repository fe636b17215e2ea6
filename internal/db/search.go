package db

// Condition is a single conjunctive pre-filter clause for FT.SEARCH.
// Either Values (TAG any-of) or Range is set.
type Condition struct {
	Key    string
	Values []string
	Range  *Range
	Negate bool
}

// Range is a numeric bound pair; nil pointers mean unbounded.
type Range struct {
	Min     *float64
	Max     *float64
	MinExcl bool
	MaxExcl bool
}

// TagMatch builds a TAG any-of condition.
func TagMatch(key string, values ...string) Condition {
	return Condition{Key: key, Values: values}
}

// NumRange builds a numeric range condition.
func NumRange(key string, min, max *float64) Condition {
	return Condition{Key: key, Range: &Range{Min: min, Max: max}}
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Conditions   []Condition
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for full-text relevance search.
type TextQuery struct {
	IndexName    string
	TextFields   []string
	Query        string
	Conditions   []Condition
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search. For KNN queries the
// score is cosine similarity in [0,1]; for text queries it is the BM25 rank.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
