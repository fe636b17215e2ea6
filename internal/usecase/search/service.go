// Package search implements the hybrid discovery engine: semantic and
// keyword sub-searches over stories and members, weighted score fusion,
// story-first member discovery, and envelope assembly.
package search

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stonesoup-hq/soupsearch/internal/domain"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/candidate"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/mode"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/request"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/scope"
	"github.com/stonesoup-hq/soupsearch/internal/logger"
	"github.com/stonesoup-hq/soupsearch/internal/metrics"
)

// Config holds the ranking knobs.
type Config struct {
	// SemanticWeight and TextWeight scale the two sub-search scores
	// during hybrid fusion. They should sum to 1.
	SemanticWeight float64
	TextWeight     float64
	// CandidateLimit is the per-sub-search candidate pool size.
	CandidateLimit int
}

// Service coordinates the search pipeline. suggester and summarizer are
// optional; without them the corresponding envelope sections stay empty.
type Service struct {
	stories    StoryStore
	members    MemberStore
	embed      Embedder
	suggester  Suggester
	summarizer Summarizer
	cfg        Config
	metrics    *metrics.SearchMetrics
}

// New creates a search service.
func New(
	stories StoryStore, members MemberStore, embed Embedder,
	suggester Suggester, summarizer Summarizer,
	cfg Config, m *metrics.SearchMetrics,
) *Service {
	return &Service{
		stories:    stories,
		members:    members,
		embed:      embed,
		suggester:  suggester,
		summarizer: summarizer,
		cfg:        cfg,
		metrics:    m,
	}
}

// Search executes a full search. Sub-search failures degrade the response
// instead of failing it; the only errors returned are caller mistakes.
func (s *Service) Search(
	ctx context.Context, cauldronID string, req *request.Request,
) (*response.Envelope, error) {
	if cauldronID == "" {
		return nil, domain.ErrTenantRequired
	}

	started := time.Now()
	log := logger.FromContext(ctx)

	var degraded []string

	// Vectorize the query. On failure the search falls back to text-only
	// matching rather than failing outright.
	var vector []float32
	if req.Mode().UsesSemantic() {
		embResult, err := s.embed.Embed(ctx, req.Query())
		if err != nil {
			degraded = append(degraded, response.SubsystemEmbedding)
			log.Warn("Query embedding failed, falling back to text search",
				zap.String("cauldron_id", cauldronID), zap.Error(err))
		} else {
			vector = embResult.Embedding
		}
	}

	var storyCands, memberCands []candidate.Candidate

	switch req.Scope() {
	case scope.Stories:
		var d []string
		storyCands, d = s.rankStories(ctx, cauldronID, req, vector)
		degraded = append(degraded, d...)

	case scope.Members:
		var d []string
		memberCands, d = s.rankMembers(ctx, cauldronID, req, vector)
		degraded = append(degraded, d...)

	default:
		var wg sync.WaitGroup
		var storyDeg, memberDeg []string

		wg.Add(2)
		go func() {
			defer wg.Done()
			storyCands, storyDeg = s.rankStories(ctx, cauldronID, req, vector)
		}()
		go func() {
			defer wg.Done()
			memberCands, memberDeg = s.rankMembers(ctx, cauldronID, req, vector)
		}()
		wg.Wait()
		degraded = append(degraded, storyDeg...)
		degraded = append(degraded, memberDeg...)

		// Members linked to relevant stories surface even when their
		// own profile text never matched.
		memberCands = s.discoverMembers(ctx, cauldronID, storyCands, memberCands)
	}

	diag := response.Diagnostics{Status: response.StatusOK, Degraded: degraded}
	if len(degraded) > 0 {
		diag.Status = response.StatusDegraded
	}

	env := assemble(req, storyCands, memberCands, diag, vector != nil, started)
	s.enrichMemberNames(ctx, cauldronID, env)

	s.recordQuery(ctx, cauldronID, req.Query())

	if req.IncludeSuggestions() && s.suggester != nil {
		suggestions, err := s.suggester.Suggest(ctx, cauldronID, req.Query(), 5)
		if err != nil {
			log.Warn("Suggestion generation failed", zap.Error(err))
		} else {
			env.Suggestions = suggestions
		}
	}

	if req.GenerateSummary() && s.summarizer != nil {
		summary, err := s.summarizer.Summarize(ctx, req.Query(), env, "overview")
		if err != nil {
			log.Warn("Summary generation failed", zap.Error(err))
		} else {
			env.AISummary = &summary.Summary
		}
	}

	s.observe(req, env, time.Since(started), degraded)
	return env, nil
}

// Quick runs a hybrid search with summaries, suggestions and highlights
// enabled, for the one-box search experience.
func (s *Service) Quick(
	ctx context.Context, cauldronID, query string, limit int,
) (*response.Envelope, error) {
	params := request.Params{
		Query:              query,
		Mode:               mode.Hybrid,
		PageSize:           limit,
		GenerateSummary:    true,
		IncludeSuggestions: true,
		IncludeHighlights:  true,
	}
	req, err := request.New(params)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, cauldronID, &req)
}

// enrichMemberNames resolves the author names shown on story results.
func (s *Service) enrichMemberNames(ctx context.Context, cauldronID string, env *response.Envelope) {
	idSet := make(map[string]bool)
	for i := range env.StoryResults {
		for _, a := range env.StoryResults[i].Story.Authors {
			idSet[a.MemberID] = true
		}
	}
	if len(idSet) == 0 {
		return
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	members, err := s.members.GetMulti(ctx, cauldronID, ids)
	if err != nil {
		logger.FromContext(ctx).Warn("Author name resolution failed", zap.Error(err))
		return
	}

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.Name
	}

	for i := range env.StoryResults {
		r := &env.StoryResults[i]
		for _, a := range r.Story.Authors {
			if name, ok := names[a.MemberID]; ok {
				r.MemberNames = append(r.MemberNames, name)
			}
		}
	}
}

// recordQuery bumps the popularity counter feeding suggestions.
// Best-effort: a counter failure never degrades the search.
func (s *Service) recordQuery(ctx context.Context, cauldronID, query string) {
	if s.suggester == nil {
		return
	}
	if err := s.suggester.Record(ctx, cauldronID, query); err != nil {
		logger.FromContext(ctx).Warn("Query popularity record failed", zap.Error(err))
	}
}

func (s *Service) observe(
	req *request.Request, env *response.Envelope,
	elapsed time.Duration, degraded []string,
) {
	if s.metrics == nil {
		return
	}

	status := string(env.Diagnostics.Status)
	s.metrics.Requests.WithLabelValues(string(req.Mode()), string(req.Scope()), status).Inc()
	s.metrics.Duration.WithLabelValues(string(req.Mode()), string(req.Scope())).Observe(elapsed.Seconds())
	s.metrics.Results.Observe(float64(env.Metadata.TotalResults))
	for _, subsystem := range degraded {
		s.metrics.Degraded.WithLabelValues(subsystem).Inc()
	}
}
