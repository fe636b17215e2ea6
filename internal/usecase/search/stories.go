package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stonesoup-hq/soupsearch/internal/domain/search/candidate"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/request"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/sort"
	"github.com/stonesoup-hq/soupsearch/internal/domain/story"
	"github.com/stonesoup-hq/soupsearch/internal/logger"
)

// rankStories runs the semantic and text story sub-searches, fuses the
// scores, and returns unsorted candidates. A failed sub-search degrades
// to empty results and reports itself; it never fails the search.
func (s *Service) rankStories(
	ctx context.Context, cauldronID string,
	req *request.Request, vector []float32,
) ([]candidate.Candidate, []string) {
	var (
		wg       sync.WaitGroup
		semHits  []story.Hit
		textHits []story.Hit
		semErr   error
		textErr  error
	)

	runSemantic := vector != nil && req.Mode().UsesSemantic()
	// Text search always runs as the fallback when no vector is available.
	runText := req.Mode().UsesText() || vector == nil

	if runSemantic {
		wg.Add(1)
		go func() {
			defer wg.Done()
			semHits, semErr = s.stories.SemanticSearch(
				ctx, cauldronID, vector, req.StoryFilters(), s.cfg.CandidateLimit,
			)
		}()
	}
	if runText {
		wg.Add(1)
		go func() {
			defer wg.Done()
			textHits, textErr = s.stories.TextSearch(
				ctx, cauldronID, req.Query(), req.StoryFilters(), s.cfg.CandidateLimit,
			)
		}()
	}
	wg.Wait()

	var degraded []string
	if semErr != nil {
		degraded = append(degraded, response.SubsystemStorySemantic)
		logger.FromContext(ctx).Warn("Story semantic search failed", zap.Error(semErr))
		semHits = nil
	}
	if textErr != nil {
		degraded = append(degraded, response.SubsystemStoryText)
		logger.FromContext(ctx).Warn("Story text search failed", zap.Error(textErr))
		textHits = nil
	}

	// Semantic hits below the similarity threshold are noise, not matches.
	semHits = thresholdStoryHits(semHits, req.SemanticThreshold())

	return s.fuseStories(semHits, textHits, req), degraded
}

func thresholdStoryHits(hits []story.Hit, threshold float64) []story.Hit {
	kept := hits[:0]
	for _, h := range hits {
		if h.Score >= threshold {
			kept = append(kept, h)
		}
	}
	return kept
}

// fuseStories merges the two hit lists by story id and computes the
// weighted hybrid score for each.
func (s *Service) fuseStories(
	semHits, textHits []story.Hit, req *request.Request,
) []candidate.Candidate {
	type fused struct {
		story  story.Story
		scores subScores
	}

	byID := make(map[string]*fused, len(semHits)+len(textHits))
	order := make([]string, 0, len(semHits)+len(textHits))

	for _, h := range semHits {
		byID[h.Story.ID] = &fused{story: h.Story, scores: subScores{semantic: ptr(h.Score)}}
		order = append(order, h.Story.ID)
	}
	for _, h := range textHits {
		if f, ok := byID[h.Story.ID]; ok {
			f.scores.text = ptr(h.Score)
			continue
		}
		byID[h.Story.ID] = &fused{story: h.Story, scores: subScores{text: ptr(h.Score)}}
		order = append(order, h.Story.ID)
	}

	now := time.Now()
	cands := make([]candidate.Candidate, 0, len(order))
	for _, id := range order {
		f := byID[id]
		score, expl := combineWeighted(f.scores, s.cfg.SemanticWeight, s.cfg.TextWeight)
		score, expl = applyStoryBoosts(&f.story, score, expl, req, now)
		cands = append(cands, candidate.FromStory(f.story, score, expl))
	}
	return cands
}

// applyStoryBoosts folds optional recency and engagement signals into the
// relevance score. Boosts only apply under relevance ordering; explicit
// sorts already express the caller's preference.
func applyStoryBoosts(
	st *story.Story, score float64, expl candidate.Explanation,
	req *request.Request, now time.Time,
) (float64, candidate.Explanation) {
	if req.Sort() != sort.Relevance {
		return score, expl
	}

	if req.BoostRecent() {
		boost := boostWeight * recencyScore(st.CreatedAt, now)
		score += boost
		expl.RecencyBoost = boost
	}
	if req.BoostPopular() {
		boost := boostWeight * engagementScore(st)
		score += boost
		expl.EngagementBoost = boost
	}
	expl.FinalScore = score
	return score, expl
}
