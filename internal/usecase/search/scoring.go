package search

import (
	"strings"
	"time"

	"github.com/stonesoup-hq/soupsearch/internal/domain/member"
	"github.com/stonesoup-hq/soupsearch/internal/domain/story"
)

// boostWeight scales the optional recency and engagement contributions
// added on top of the relevance score.
const boostWeight = 0.1

// engagementScore normalizes view and like counters into [0,1].
// Likes count double.
func engagementScore(s *story.Story) float64 {
	score := float64(s.ViewCount+2*s.LikeCount) / 100
	if score > 1 {
		return 1
	}
	return score
}

// recencyScore decays linearly from 1 to 0 over a year.
func recencyScore(t time.Time, now time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	days := now.Sub(t).Hours() / 24
	score := 1 - days/365
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// contentQuality estimates how complete a story is: substantial content,
// a summary, and tags each contribute.
func contentQuality(s *story.Story) float64 {
	var score float64
	switch {
	case len(s.Content) >= 1000:
		score += 0.5
	case len(s.Content) >= 300:
		score += 0.35
	case len(s.Content) > 0:
		score += 0.2
	}
	if s.Summary != "" {
		score += 0.25
	}
	if len(s.Tags) > 0 {
		score += 0.15
	}
	if len(s.Skills) > 0 {
		score += 0.1
	}
	return score
}

// skillMatches returns the story skills mentioned in the query.
func skillMatches(query string, skills []string) []string {
	q := strings.ToLower(query)
	var matched []string
	for _, skill := range skills {
		if skill != "" && strings.Contains(q, strings.ToLower(skill)) {
			matched = append(matched, skill)
		}
	}
	return matched
}

// skillMatchRatio is the fraction of the member's skills mentioned in
// the query, 0 when the member lists none.
func skillMatchRatio(query string, skills []string) float64 {
	if len(skills) == 0 {
		return 0
	}
	return float64(len(skillMatches(query, skills))) / float64(len(skills))
}

// profileCompleteness is the fraction of profile sections filled in.
func profileCompleteness(m *member.Member) float64 {
	fields := []bool{
		m.Name != "",
		m.Bio != "",
		m.Title != "",
		m.Company != "",
		m.Location != "",
		len(m.Skills) > 0,
		len(m.ExpertiseAreas) > 0,
		len(m.Industries) > 0,
		m.YearsOfExperience > 0,
		hasLinks(&m.Links),
	}

	filled := 0
	for _, ok := range fields {
		if ok {
			filled++
		}
	}
	return float64(filled) / float64(len(fields))
}

func hasLinks(l *member.SocialLinks) bool {
	return l.LinkedIn != "" || l.GitHub != "" || l.Twitter != "" ||
		l.Website != "" || len(l.Portfolio) > 0
}

// availabilityStatus maps member flags onto the wire status string.
func availabilityStatus(m *member.Member) string {
	switch {
	case !m.IsActive:
		return "inactive"
	case m.IsAvailable:
		return "available"
	default:
		return "unavailable"
	}
}
