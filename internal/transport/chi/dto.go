package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stonesoup-hq/soupsearch/internal/domain/search/filters"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/mode"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/request"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/scope"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/sort"
)

// Error codes returned in the error response body.
const (
	codeBadRequest     = "bad_request"
	codeUnauthorized   = "unauthorized"
	codeTenantRequired = "cauldron_required"
	codeNotFound       = "not_found"
	codeProviderError  = "provider_error"
	codeInternal       = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// searchRequest is the POST /search body.
type searchRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode,omitempty"`
	Scope string `json:"scope,omitempty"`
	Sort  string `json:"sort,omitempty"`

	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`

	StoryFilters  *storyFiltersDTO  `json:"story_filters,omitempty"`
	MemberFilters *memberFiltersDTO `json:"member_filters,omitempty"`

	SemanticThreshold float64 `json:"semantic_threshold,omitempty"`

	BoostRecent  bool `json:"boost_recent,omitempty"`
	BoostPopular bool `json:"boost_popular,omitempty"`

	ExplainScores      bool `json:"explain_scores,omitempty"`
	IncludeHighlights  bool `json:"include_highlights,omitempty"`
	GenerateSummary    bool `json:"generate_summary,omitempty"`
	IncludeSuggestions bool `json:"include_suggestions,omitempty"`
}

type storyFiltersDTO struct {
	Tags        []string   `json:"tags,omitempty"`
	Skills      []string   `json:"skills,omitempty"`
	Categories  []string   `json:"categories,omitempty"`
	Company     string     `json:"company,omitempty"`
	DateFrom    *time.Time `json:"date_from,omitempty"`
	DateTo      *time.Time `json:"date_to,omitempty"`
	AIGenerated *bool      `json:"ai_generated,omitempty"`
}

type memberFiltersDTO struct {
	Skills     []string `json:"skills,omitempty"`
	Locations  []string `json:"locations,omitempty"`
	Industries []string `json:"industries,omitempty"`

	AvailableOnly bool `json:"available_only,omitempty"`
	VerifiedOnly  bool `json:"verified_only,omitempty"`

	MinExperience *float64 `json:"min_experience,omitempty"`
	MaxExperience *float64 `json:"max_experience,omitempty"`
	MinRate       *float64 `json:"min_rate,omitempty"`
	MaxRate       *float64 `json:"max_rate,omitempty"`
}

// quickSearchRequest is the POST /search/quick body.
type quickSearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// summaryRequest is the POST /search/summary body.
type summaryRequest struct {
	searchRequest
	SummaryType string `json:"summary_type,omitempty"`
}

// toParams maps the wire request onto domain search parameters.
func (r *searchRequest) toParams() request.Params {
	p := request.Params{
		Query:              r.Query,
		Mode:               mode.Mode(r.Mode),
		Scope:              scope.Scope(r.Scope),
		Sort:               sort.Order(r.Sort),
		Page:               r.Page,
		PageSize:           r.PageSize,
		SemanticThreshold:  r.SemanticThreshold,
		BoostRecent:        r.BoostRecent,
		BoostPopular:       r.BoostPopular,
		ExplainScores:      r.ExplainScores,
		IncludeHighlights:  r.IncludeHighlights,
		GenerateSummary:    r.GenerateSummary,
		IncludeSuggestions: r.IncludeSuggestions,
	}

	if f := r.StoryFilters; f != nil {
		p.StoryFilters = filters.Story{
			Tags:        f.Tags,
			Skills:      f.Skills,
			Categories:  f.Categories,
			Company:     f.Company,
			DateFrom:    f.DateFrom,
			DateTo:      f.DateTo,
			AIGenerated: f.AIGenerated,
		}
	}
	if f := r.MemberFilters; f != nil {
		p.MemberFilters = filters.Member{
			Skills:        f.Skills,
			Locations:     f.Locations,
			Industries:    f.Industries,
			AvailableOnly: f.AvailableOnly,
			VerifiedOnly:  f.VerifiedOnly,
			MinExperience: f.MinExperience,
			MaxExperience: f.MaxExperience,
			MinRate:       f.MinRate,
			MaxRate:       f.MaxRate,
		}
	}

	return p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
