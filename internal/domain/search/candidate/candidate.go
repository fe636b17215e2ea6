// Package candidate defines the internal scored-result tuple flowing
// between ranking stages. A candidate is a tagged union over story and
// member so combination and sort code is exhaustive rather than
// branch-on-string.
package candidate

import (
	"sort"
	"strings"
	"time"

	"github.com/stonesoup-hq/soupsearch/internal/domain/member"
	sortorder "github.com/stonesoup-hq/soupsearch/internal/domain/search/sort"
	"github.com/stonesoup-hq/soupsearch/internal/domain/story"
)

// Kind tags the entity type wrapped by a candidate.
type Kind int

const (
	// KindStory wraps a story.
	KindStory Kind = iota
	// KindMember wraps a member.
	KindMember
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	if k == KindMember {
		return "member"
	}
	return "story"
}

// Explanation is the structured score breakdown attached to a candidate.
type Explanation struct {
	TextSimilarity     *float64 `json:"text_similarity,omitempty"`
	SemanticSimilarity *float64 `json:"semantic_similarity,omitempty"`
	RecencyBoost       float64  `json:"recency_boost,omitempty"`
	EngagementBoost    float64  `json:"engagement_boost,omitempty"`
	FinalScore         float64  `json:"final_score"`
	Rationale          string   `json:"explanation"`
}

// AppendRationale concatenates an additional rationale fragment.
func (e *Explanation) AppendRationale(fragment string) {
	if e.Rationale == "" {
		e.Rationale = fragment
		return
	}
	e.Rationale += " " + fragment
}

// Candidate is a scored ranking-pipeline entry. Exactly one of Story or
// Member is set, matching Kind.
type Candidate struct {
	Kind        Kind
	Story       *story.Story
	Member      *member.Member
	Score       float64
	Explanation Explanation
}

// FromStory wraps a story with its score and explanation.
func FromStory(s story.Story, score float64, expl Explanation) Candidate {
	return Candidate{Kind: KindStory, Story: &s, Score: score, Explanation: expl}
}

// FromMember wraps a member with its score and explanation.
func FromMember(m member.Member, score float64, expl Explanation) Candidate {
	return Candidate{Kind: KindMember, Member: &m, Score: score, Explanation: expl}
}

// ID returns the wrapped entity's identifier.
func (c *Candidate) ID() string {
	switch c.Kind {
	case KindMember:
		return c.Member.ID
	default:
		return c.Story.ID
	}
}

// CauldronID returns the wrapped entity's tenant.
func (c *Candidate) CauldronID() string {
	switch c.Kind {
	case KindMember:
		return c.Member.CauldronID
	default:
		return c.Story.CauldronID
	}
}

// DisplayTitle returns the story title or member name.
func (c *Candidate) DisplayTitle() string {
	switch c.Kind {
	case KindMember:
		return c.Member.Name
	default:
		return c.Story.Title
	}
}

// Popularity returns the engagement counter used by the popular sort.
// Members have no engagement counters and sort last.
func (c *Candidate) Popularity() int {
	if c.Kind == KindStory {
		return c.Story.Popularity()
	}
	return 0
}

// Sort orders candidates in place by the given order. Equal primary keys
// fall back to ascending id so pagination is reproducible.
func Sort(cands []Candidate, order sortorder.Order) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := &cands[i], &cands[j]
		switch order {
		case sortorder.Recent:
			at, bt := createdAt(a), createdAt(b)
			if !at.Equal(bt) {
				return at.After(bt)
			}
		case sortorder.Popular:
			if a.Popularity() != b.Popularity() {
				return a.Popularity() > b.Popularity()
			}
		case sortorder.Alphabetical:
			at, bt := strings.ToLower(a.DisplayTitle()), strings.ToLower(b.DisplayTitle())
			if at != bt {
				return at < bt
			}
		default: // relevance
			if a.Score != b.Score {
				return a.Score > b.Score
			}
		}
		return a.ID() < b.ID()
	})
}

// Page slices the full sorted candidate list by offset and limit,
// returning the page and the pre-pagination total.
func Page(cands []Candidate, offset, limit int) ([]Candidate, int) {
	total := len(cands)
	if offset >= total {
		return nil, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return cands[offset:end], total
}

func createdAt(c *Candidate) time.Time {
	switch c.Kind {
	case KindMember:
		return c.Member.CreatedAt
	default:
		return c.Story.CreatedAt
	}
}
