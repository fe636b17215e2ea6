package search

import (
	"time"

	"github.com/stonesoup-hq/soupsearch/internal/domain/search/candidate"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/request"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/scope"
)

// assemble sorts, paginates, and maps candidates into the client
// envelope. Pure transformation: all I/O happened in the rankers.
func assemble(
	req *request.Request,
	storyCands, memberCands []candidate.Candidate,
	diag response.Diagnostics,
	semanticUsed bool,
	started time.Time,
) *response.Envelope {
	candidate.Sort(storyCands, req.Sort())
	candidate.Sort(memberCands, req.Sort())

	storyPage, storyTotal := candidate.Page(storyCands, req.Offset(), req.PageSize())
	memberPage, memberTotal := candidate.Page(memberCands, req.Offset(), req.PageSize())

	env := &response.Envelope{
		StoryResults:  make([]response.StoryResult, 0, len(storyPage)),
		StoryTotal:    storyTotal,
		MemberResults: make([]response.MemberResult, 0, len(memberPage)),
		MemberTotal:   memberTotal,
		Page:          req.Page(),
		PageSize:      req.PageSize(),
		HasNext:       req.Offset()+req.PageSize() < storyTotal || req.Offset()+req.PageSize() < memberTotal,
		HasPrevious:   req.Page() > 1,
		Diagnostics:   diag,
	}

	now := time.Now()
	for i := range storyPage {
		env.StoryResults = append(env.StoryResults, storyResult(req, &storyPage[i], now))
	}
	for i := range memberPage {
		env.MemberResults = append(env.MemberResults, memberResult(req, &memberPage[i]))
	}

	env.Metadata = response.Metadata{
		Query:              req.Query(),
		ExecutionTimeMS:    float64(time.Since(started).Microseconds()) / 1000,
		TotalResults:       storyTotal + memberTotal,
		SemanticSearchUsed: semanticUsed,
		FiltersApplied:     appliedFilters(req),
		SortApplied:        string(req.Sort()),
	}

	if req.Mode().UsesSemantic() && req.Mode().UsesText() {
		env.HybridExplanation = "Results combine semantic similarity and keyword relevance; " +
			"members are also discovered through their linked stories."
	}

	return env
}

func storyResult(req *request.Request, c *candidate.Candidate, now time.Time) response.StoryResult {
	st := c.Story
	r := response.StoryResult{
		ID:              st.ID,
		Type:            c.Kind.String(),
		Title:           st.Title,
		Content:         st.Content,
		Score:           c.Score,
		CreatedAt:       st.CreatedAt,
		UpdatedAt:       st.UpdatedAt,
		CauldronID:      st.CauldronID,
		Story:           *st,
		ContentQuality:  contentQuality(st),
		EngagementScore: engagementScore(st),
		RecencyScore:    recencyScore(st.CreatedAt, now),
		SkillMatches:    skillMatches(req.Query(), st.Skills),
	}

	if req.ExplainScores() {
		expl := c.Explanation
		r.ScoreExplanation = &expl
	}
	if req.IncludeHighlights() {
		r.Highlights = extractHighlights(req.Query(), map[string]string{
			"title":   st.Title,
			"content": st.Content,
			"summary": st.Summary,
		})
	}
	return r
}

func memberResult(req *request.Request, c *candidate.Candidate) response.MemberResult {
	m := c.Member
	r := response.MemberResult{
		ID:                  m.ID,
		Type:                c.Kind.String(),
		Title:               m.Name,
		Content:             m.Headline(),
		Score:               c.Score,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		CauldronID:          m.CauldronID,
		Member:              *m,
		ProfileCompleteness: profileCompleteness(m),
		SkillMatch:          skillMatchRatio(req.Query(), m.Skills),
		AvailabilityStatus:  availabilityStatus(m),
	}

	if !m.LastActiveAt.IsZero() {
		t := m.LastActiveAt
		r.LastActive = &t
	}
	if req.ExplainScores() {
		expl := c.Explanation
		r.ScoreExplanation = &expl
	}
	if req.IncludeHighlights() {
		r.Highlights = extractHighlights(req.Query(), map[string]string{
			"name": m.Name,
			"bio":  m.Bio,
		})
	}
	return r
}

func appliedFilters(req *request.Request) []string {
	var names []string
	if req.Scope() != scope.Members {
		names = append(names, req.StoryFilters().Applied()...)
	}
	if req.Scope() != scope.Stories {
		names = append(names, req.MemberFilters().Applied()...)
	}
	return names
}
