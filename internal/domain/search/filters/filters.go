// Package filters defines the hard predicates applied to candidates before
// scoring. All conditions within a set are conjunctive; list-valued
// conditions match any of their values.
package filters

import "time"

// Story filters narrow the story candidate set.
type Story struct {
	Tags       []string
	Skills     []string
	Categories []string
	Company    string
	DateFrom   *time.Time
	DateTo     *time.Time
	// AIGenerated filters to AI-generated (true) or manual (false) stories.
	AIGenerated *bool
}

// IsEmpty reports whether no story filters are set.
func (f Story) IsEmpty() bool {
	return len(f.Tags) == 0 && len(f.Skills) == 0 && len(f.Categories) == 0 &&
		f.Company == "" && f.DateFrom == nil && f.DateTo == nil && f.AIGenerated == nil
}

// Applied lists the names of set filters for search metadata.
func (f Story) Applied() []string {
	var names []string
	if len(f.Tags) > 0 {
		names = append(names, "tags")
	}
	if len(f.Skills) > 0 {
		names = append(names, "skills")
	}
	if len(f.Categories) > 0 {
		names = append(names, "categories")
	}
	if f.Company != "" {
		names = append(names, "company")
	}
	if f.DateFrom != nil || f.DateTo != nil {
		names = append(names, "date_range")
	}
	if f.AIGenerated != nil {
		names = append(names, "ai_generated")
	}
	return names
}

// Member filters narrow the member candidate set.
type Member struct {
	Skills     []string
	Locations  []string
	Industries []string

	AvailableOnly bool
	VerifiedOnly  bool

	MinExperience *float64
	MaxExperience *float64
	MinRate       *float64
	MaxRate       *float64
}

// IsEmpty reports whether no member filters are set.
func (f Member) IsEmpty() bool {
	return len(f.Skills) == 0 && len(f.Locations) == 0 && len(f.Industries) == 0 &&
		!f.AvailableOnly && !f.VerifiedOnly &&
		f.MinExperience == nil && f.MaxExperience == nil &&
		f.MinRate == nil && f.MaxRate == nil
}

// Applied lists the names of set filters for search metadata.
func (f Member) Applied() []string {
	var names []string
	if len(f.Skills) > 0 {
		names = append(names, "member_skills")
	}
	if len(f.Locations) > 0 {
		names = append(names, "member_locations")
	}
	if len(f.Industries) > 0 {
		names = append(names, "member_industries")
	}
	if f.AvailableOnly {
		names = append(names, "available_only")
	}
	if f.VerifiedOnly {
		names = append(names, "verified_only")
	}
	if f.MinExperience != nil || f.MaxExperience != nil {
		names = append(names, "experience_range")
	}
	if f.MinRate != nil || f.MaxRate != nil {
		names = append(names, "rate_range")
	}
	return names
}
