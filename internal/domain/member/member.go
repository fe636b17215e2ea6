// Package member defines the Member entity: a user profile within a
// cauldron, discoverable both directly and through authored stories.
package member

import "time"

// SocialLinks holds optional profile URLs.
type SocialLinks struct {
	LinkedIn  string   `json:"linkedin_url,omitempty"`
	GitHub    string   `json:"github_url,omitempty"`
	Twitter   string   `json:"twitter_url,omitempty"`
	Website   string   `json:"website_url,omitempty"`
	Portfolio []string `json:"portfolio_urls,omitempty"`
}

// Member is a user profile within a cauldron.
type Member struct {
	ID         string `json:"id"`
	CauldronID string `json:"cauldron_id"`
	Name       string `json:"name"`
	Bio        string `json:"bio,omitempty"`
	Title      string `json:"title,omitempty"`
	Company    string `json:"company,omitempty"`
	Location   string `json:"location,omitempty"`

	YearsOfExperience float64 `json:"years_of_experience,omitempty"`
	HourlyRate        float64 `json:"hourly_rate,omitempty"`

	Skills         []string `json:"skills"`
	ExpertiseAreas []string `json:"expertise_areas"`
	Industries     []string `json:"industries"`

	// ProfileEmbedding is nil until generated; such members fall back
	// to text-only matching.
	ProfileEmbedding []float32 `json:"-"`

	IsActive    bool `json:"is_active"`
	IsVerified  bool `json:"is_verified"`
	IsAvailable bool `json:"is_available"`

	Links SocialLinks `json:"links"`

	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastActiveAt time.Time `json:"last_active_at,omitempty"`
}

// Searchable reports whether the member is eligible for search.
func (m *Member) Searchable() bool { return m.IsActive }

// HasEmbedding reports whether the member carries a profile embedding.
func (m *Member) HasEmbedding() bool { return len(m.ProfileEmbedding) > 0 }

// Headline is the short description used when the bio is empty.
func (m *Member) Headline() string {
	if m.Bio != "" {
		return m.Bio
	}
	if m.Title != "" && m.Company != "" {
		return m.Title + " at " + m.Company
	}
	return "Member profile"
}

// Hit is a member with its raw sub-search score.
type Hit struct {
	Member Member
	Score  float64
}
