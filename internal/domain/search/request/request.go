package request

import (
	"fmt"
	"strings"

	"github.com/stonesoup-hq/soupsearch/internal/domain/search/filters"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/mode"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/scope"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/sort"
)

// Search parameter limits.
const (
	MaxQueryLength   = 500
	DefaultPageSize  = 20
	MaxPageSize      = 100
	DefaultThreshold = 0.7
)

// Params holds raw search parameters before validation.
type Params struct {
	Query string
	Mode  mode.Mode
	Scope scope.Scope
	Sort  sort.Order

	Page     int
	PageSize int

	StoryFilters  filters.Story
	MemberFilters filters.Member

	// SemanticThreshold of 0 means "use the default".
	SemanticThreshold float64

	BoostRecent  bool
	BoostPopular bool

	ExplainScores      bool
	IncludeHighlights  bool
	GenerateSummary    bool
	IncludeSuggestions bool
}

// Request is a validated search query. Created once per search call and
// never persisted.
type Request struct {
	query string
	mode  mode.Mode
	scope scope.Scope
	sort  sort.Order

	page     int
	pageSize int

	storyFilters  filters.Story
	memberFilters filters.Member

	semanticThreshold float64

	boostRecent  bool
	boostPopular bool

	explainScores      bool
	includeHighlights  bool
	generateSummary    bool
	includeSuggestions bool
}

// New validates and normalizes search parameters.
// Defaults: mode=hybrid, scope=all, sort=relevance, page=1, page_size=20,
// semantic_threshold=0.7. Page size is capped at 100.
func New(p Params) (Request, error) {
	q := strings.TrimSpace(p.Query)
	if q == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(q) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}

	m := p.Mode
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid search mode: %q", m)
	}

	sc := p.Scope
	if sc == "" {
		sc = scope.All
	}
	if !sc.IsValid() {
		return Request{}, fmt.Errorf("invalid search scope: %q", sc)
	}

	so := p.Sort
	if so == "" {
		so = sort.Relevance
	}
	if !so.IsValid() {
		return Request{}, fmt.Errorf("invalid sort order: %q", so)
	}

	if p.Page < 0 {
		return Request{}, fmt.Errorf("page must be >= 1")
	}
	page := p.Page
	if page == 0 {
		page = 1
	}

	if p.PageSize < 0 || p.PageSize > MaxPageSize {
		return Request{}, fmt.Errorf("page_size must be between 1 and %d", MaxPageSize)
	}
	pageSize := p.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	threshold := p.SemanticThreshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return Request{}, fmt.Errorf("semantic_threshold must be between 0 and 1")
	}

	return Request{
		query:              q,
		mode:               m,
		scope:              sc,
		sort:               so,
		page:               page,
		pageSize:           pageSize,
		storyFilters:       p.StoryFilters,
		memberFilters:      p.MemberFilters,
		semanticThreshold:  threshold,
		boostRecent:        p.BoostRecent,
		boostPopular:       p.BoostPopular,
		explainScores:      p.ExplainScores,
		includeHighlights:  p.IncludeHighlights,
		generateSummary:    p.GenerateSummary,
		includeSuggestions: p.IncludeSuggestions,
	}, nil
}

// Query returns the trimmed search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.mode }

// Scope returns the entity scope.
func (r *Request) Scope() scope.Scope { return r.scope }

// Sort returns the result ordering.
func (r *Request) Sort() sort.Order { return r.sort }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// PageSize returns the page size.
func (r *Request) PageSize() int { return r.pageSize }

// Offset returns the pagination offset derived from page and page size.
func (r *Request) Offset() int { return (r.page - 1) * r.pageSize }

// StoryFilters returns the story predicates.
func (r *Request) StoryFilters() filters.Story { return r.storyFilters }

// MemberFilters returns the member predicates.
func (r *Request) MemberFilters() filters.Member { return r.memberFilters }

// SemanticThreshold returns the minimum cosine similarity for vector matches.
func (r *Request) SemanticThreshold() float64 { return r.semanticThreshold }

// BoostRecent reports whether recency feeds the relevance score.
func (r *Request) BoostRecent() bool { return r.boostRecent }

// BoostPopular reports whether engagement feeds the relevance score.
func (r *Request) BoostPopular() bool { return r.boostPopular }

// ExplainScores reports whether score explanations are returned.
func (r *Request) ExplainScores() bool { return r.explainScores }

// IncludeHighlights reports whether matched-term highlights are returned.
func (r *Request) IncludeHighlights() bool { return r.includeHighlights }

// GenerateSummary reports whether an AI summary is requested.
func (r *Request) GenerateSummary() bool { return r.generateSummary }

// IncludeSuggestions reports whether query suggestions are requested.
func (r *Request) IncludeSuggestions() bool { return r.includeSuggestions }
