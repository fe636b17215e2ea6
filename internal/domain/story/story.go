// Package story defines the Story entity: the primary searchable content
// unit of a cauldron. Stories are authored by members and carry an optional
// embedding generated asynchronously after publication.
package story

import "time"

// Status is the story lifecycle state.
type Status string

// Story lifecycle states. Only Published stories are eligible for search.
const (
	StatusDraft         Status = "draft"
	StatusPendingReview Status = "pending_review"
	StatusPublished     Status = "published"
	StatusArchived      Status = "archived"
	StatusRejected      Status = "rejected"
)

// IsValid checks that the status is a known lifecycle state.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusPublished, StatusArchived, StatusRejected:
		return true
	}
	return false
}

// Category is the story kind.
type Category string

// Story categories.
const (
	CategoryAchievement        Category = "achievement"
	CategoryExperience         Category = "experience"
	CategorySkillDemonstration Category = "skill_demonstration"
	CategoryTestimonial        Category = "testimonial"
	CategoryCaseStudy          Category = "case_study"
	CategoryThoughtLeadership  Category = "thought_leadership"
)

// IsValid checks that the category is a known story kind.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAchievement, CategoryExperience, CategorySkillDemonstration,
		CategoryTestimonial, CategoryCaseStudy, CategoryThoughtLeadership:
		return true
	}
	return false
}

// Authorship links a member to a story with a role label.
type Authorship struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"` // "author", "contributor"
}

// Story is a narrative unit within a cauldron.
type Story struct {
	ID         string   `json:"id"`
	CauldronID string   `json:"cauldron_id"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Summary    string   `json:"summary,omitempty"`
	Category   Category `json:"category"`
	Status     Status   `json:"status"`

	// Embedding is nil until the async generation pipeline has run;
	// such stories fall back to text-only matching.
	Embedding []float32 `json:"-"`

	Tags        []string `json:"tags"`
	Skills      []string `json:"skills"`
	Company     string   `json:"company,omitempty"`
	AIGenerated bool     `json:"ai_generated"`

	ViewCount int `json:"view_count"`
	LikeCount int `json:"like_count"`

	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`

	Authors []Authorship `json:"authors"`
}

// Searchable reports whether the story is eligible for search.
func (s *Story) Searchable() bool { return s.Status == StatusPublished }

// HasEmbedding reports whether the story carries an embedding vector.
func (s *Story) HasEmbedding() bool { return len(s.Embedding) > 0 }

// MemberIDs returns the ids of all associated members.
func (s *Story) MemberIDs() []string {
	ids := make([]string, 0, len(s.Authors))
	for _, a := range s.Authors {
		ids = append(ids, a.MemberID)
	}
	return ids
}

// Popularity is the engagement counter sum used by the popular sort.
func (s *Story) Popularity() int { return s.ViewCount + s.LikeCount }

// Hit is a story with its raw sub-search score.
type Hit struct {
	Story Story
	Score float64
}
