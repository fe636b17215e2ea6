// Package response defines the client-facing result envelope assembled
// from ranker output. Assembly is a pure transformation; all I/O happens
// in the rankers.
package response

import (
	"time"

	"github.com/stonesoup-hq/soupsearch/internal/domain/member"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/candidate"
	"github.com/stonesoup-hq/soupsearch/internal/domain/story"
)

// Status distinguishes a fully-served search from a degraded one.
type Status string

const (
	// StatusOK means every sub-search that should have run did run.
	StatusOK Status = "ok"
	// StatusDegraded means at least one sub-search was skipped or failed;
	// empty results may mean "couldn't search" rather than "no matches".
	StatusDegraded Status = "degraded"
)

// Degraded subsystem names reported in Diagnostics.
const (
	SubsystemEmbedding      = "embedding"
	SubsystemStorySemantic  = "story_semantic"
	SubsystemStoryText      = "story_text"
	SubsystemMemberSemantic = "member_semantic"
	SubsystemMemberText     = "member_text"
)

// Diagnostics reports whether the search ran at full fidelity.
type Diagnostics struct {
	Status   Status   `json:"status"`
	Degraded []string `json:"degraded,omitempty"`
}

// Metadata describes how a search was executed.
type Metadata struct {
	Query              string   `json:"query"`
	ExecutionTimeMS    float64  `json:"execution_time_ms"`
	TotalResults       int      `json:"total_results"`
	SemanticSearchUsed bool     `json:"semantic_search_used"`
	FiltersApplied     []string `json:"filters_applied,omitempty"`
	SortApplied        string   `json:"sort_applied"`
}

// StoryResult is a single story hit in the envelope.
type StoryResult struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`

	Score            float64                `json:"score"`
	ScoreExplanation *candidate.Explanation `json:"score_explanation,omitempty"`
	Highlights       map[string][]string    `json:"highlights,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CauldronID string    `json:"cauldron_id"`

	Story story.Story `json:"story"`

	ContentQuality  float64  `json:"content_quality"`
	EngagementScore float64  `json:"engagement_score"`
	RecencyScore    float64  `json:"recency_score"`
	MemberNames     []string `json:"member_names"`
	SkillMatches    []string `json:"skill_matches"`
}

// MemberResult is a single member hit in the envelope.
type MemberResult struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`

	Score            float64                `json:"score"`
	ScoreExplanation *candidate.Explanation `json:"score_explanation,omitempty"`
	Highlights       map[string][]string    `json:"highlights,omitempty"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CauldronID string    `json:"cauldron_id"`

	Member member.Member `json:"member"`

	ProfileCompleteness float64    `json:"profile_completeness"`
	SkillMatch          float64    `json:"skill_match"`
	AvailabilityStatus  string     `json:"availability_status"`
	LastActive          *time.Time `json:"last_active,omitempty"`
}

// Suggestion is a proposed follow-up query.
type Suggestion struct {
	Query       string  `json:"query"`
	Type        string  `json:"type"` // completion, related, popular
	Score       float64 `json:"score"`
	Category    string  `json:"category,omitempty"`
	ResultCount int     `json:"result_count"`
	Popular     bool    `json:"popular"`
}

// Summary is an AI-generated (or fallback) digest of a result set.
type Summary struct {
	Summary         string    `json:"summary"`
	KeyInsights     []string  `json:"key_insights"`
	ConfidenceScore float64   `json:"confidence_score"`
	ModelUsed       string    `json:"model_used"`
	ResultCount     int       `json:"result_count"`
	Query           string    `json:"query"`
	SummaryType     string    `json:"summary_type"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Envelope is the full search response.
type Envelope struct {
	StoryResults []StoryResult `json:"story_results"`
	StoryTotal   int           `json:"story_total"`

	MemberResults []MemberResult `json:"member_results"`
	MemberTotal   int            `json:"member_total"`

	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`

	Metadata    Metadata    `json:"search_metadata"`
	Diagnostics Diagnostics `json:"diagnostics"`

	HybridExplanation string       `json:"hybrid_explanation,omitempty"`
	Suggestions       []Suggestion `json:"suggestions,omitempty"`
	AISummary         *string      `json:"ai_summary,omitempty"`
}
