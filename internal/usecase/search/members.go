package search

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/stonesoup-hq/soupsearch/internal/domain/member"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/candidate"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/request"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
	"github.com/stonesoup-hq/soupsearch/internal/logger"
)

// rankMembers runs the semantic and text member sub-searches and fuses
// the scores. Failed sub-searches degrade to empty results.
func (s *Service) rankMembers(
	ctx context.Context, cauldronID string,
	req *request.Request, vector []float32,
) ([]candidate.Candidate, []string) {
	var (
		wg       sync.WaitGroup
		semHits  []member.Hit
		textHits []member.Hit
		semErr   error
		textErr  error
	)

	runSemantic := vector != nil && req.Mode().UsesSemantic()
	runText := req.Mode().UsesText() || vector == nil

	if runSemantic {
		wg.Add(1)
		go func() {
			defer wg.Done()
			semHits, semErr = s.members.SemanticSearch(
				ctx, cauldronID, vector, req.MemberFilters(), s.cfg.CandidateLimit,
			)
		}()
	}
	if runText {
		wg.Add(1)
		go func() {
			defer wg.Done()
			textHits, textErr = s.members.TextSearch(
				ctx, cauldronID, req.Query(), req.MemberFilters(), s.cfg.CandidateLimit,
			)
		}()
	}
	wg.Wait()

	var degraded []string
	if semErr != nil {
		degraded = append(degraded, response.SubsystemMemberSemantic)
		logger.FromContext(ctx).Warn("Member semantic search failed", zap.Error(semErr))
		semHits = nil
	}
	if textErr != nil {
		degraded = append(degraded, response.SubsystemMemberText)
		logger.FromContext(ctx).Warn("Member text search failed", zap.Error(textErr))
		textHits = nil
	}

	semHits = thresholdMemberHits(semHits, req.SemanticThreshold())

	return s.fuseMembers(semHits, textHits), degraded
}

func thresholdMemberHits(hits []member.Hit, threshold float64) []member.Hit {
	kept := hits[:0]
	for _, h := range hits {
		if h.Score >= threshold {
			kept = append(kept, h)
		}
	}
	return kept
}

// fuseMembers merges the two hit lists by member id and computes the
// weighted hybrid score for each.
func (s *Service) fuseMembers(semHits, textHits []member.Hit) []candidate.Candidate {
	type fused struct {
		member member.Member
		scores subScores
	}

	byID := make(map[string]*fused, len(semHits)+len(textHits))
	order := make([]string, 0, len(semHits)+len(textHits))

	for _, h := range semHits {
		byID[h.Member.ID] = &fused{member: h.Member, scores: subScores{semantic: ptr(h.Score)}}
		order = append(order, h.Member.ID)
	}
	for _, h := range textHits {
		if f, ok := byID[h.Member.ID]; ok {
			f.scores.text = ptr(h.Score)
			continue
		}
		byID[h.Member.ID] = &fused{member: h.Member, scores: subScores{text: ptr(h.Score)}}
		order = append(order, h.Member.ID)
	}

	cands := make([]candidate.Candidate, 0, len(order))
	for _, id := range order {
		f := byID[id]
		score, expl := combineWeighted(f.scores, s.cfg.SemanticWeight, s.cfg.TextWeight)
		cands = append(cands, candidate.FromMember(f.member, score, expl))
	}
	return cands
}
