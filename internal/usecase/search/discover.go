package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stonesoup-hq/soupsearch/internal/domain/search/candidate"
	"github.com/stonesoup-hq/soupsearch/internal/logger"
)

// Story-first discovery scoring: a member linked to any relevant story
// enters at discoveryBase, and each additional linking story adds
// discoveryPerStory. Links outweigh profile-text similarity on purpose:
// evidence of relevant work beats self-description.
const (
	discoveryBase     = 0.8
	discoveryPerStory = 0.1
)

// discoverMembers derives member candidates from the scored story set and
// merges them with the direct member candidates. A member found both ways
// keeps the discovery score; a member found only directly passes through
// unchanged.
func (s *Service) discoverMembers(
	ctx context.Context, cauldronID string,
	storyCands []candidate.Candidate, direct []candidate.Candidate,
) []candidate.Candidate {
	linkCounts := make(map[string]int)
	for i := range storyCands {
		for _, id := range storyCands[i].Story.MemberIDs() {
			linkCounts[id]++
		}
	}
	if len(linkCounts) == 0 {
		return direct
	}

	ids := make([]string, 0, len(linkCounts))
	for id := range linkCounts {
		ids = append(ids, id)
	}

	members, err := s.members.GetMulti(ctx, cauldronID, ids)
	if err != nil {
		// Discovery is additive; the direct results still stand.
		logger.FromContext(ctx).Warn("Member discovery fetch failed", zap.Error(err))
		return direct
	}

	discovered := make(map[string]candidate.Candidate, len(members))
	for _, m := range members {
		if !m.Searchable() {
			continue
		}
		n := linkCounts[m.ID]
		score := discoveryBase + discoveryPerStory*float64(n)
		expl := candidate.Explanation{
			FinalScore: score,
			Rationale:  discoveryRationale(n),
		}
		discovered[m.ID] = candidate.FromMember(m, score, expl)
	}

	merged := make([]candidate.Candidate, 0, len(direct)+len(discovered))
	for _, c := range direct {
		if dc, ok := discovered[c.ID()]; ok {
			// Keep the sub-search similarities visible in the explanation.
			dc.Explanation.SemanticSimilarity = c.Explanation.SemanticSimilarity
			dc.Explanation.TextSimilarity = c.Explanation.TextSimilarity
			merged = append(merged, dc)
			delete(discovered, c.ID())
			continue
		}
		merged = append(merged, c)
	}
	for _, c := range discovered {
		merged = append(merged, c)
	}
	return merged
}

func discoveryRationale(n int) string {
	return fmt.Sprintf("Discovered through %d relevant stories", n)
}
