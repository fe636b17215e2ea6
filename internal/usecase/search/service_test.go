package search

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stonesoup-hq/soupsearch/internal/domain"
	"github.com/stonesoup-hq/soupsearch/internal/domain/member"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/request"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/scope"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/sort"
	"github.com/stonesoup-hq/soupsearch/internal/domain/story"
)

func mustRequest(t *testing.T, p request.Params) *request.Request {
	t.Helper()
	req, err := request.New(p)
	if err != nil {
		t.Fatalf("invalid request params: %v", err)
	}
	return &req
}

func TestSearch_TenantRequired(t *testing.T) {
	svc := newTestService(&mockStoryStore{}, &mockMemberStore{}, &mockEmbedder{})
	req := mustRequest(t, request.Params{Query: "go"})

	if _, err := svc.Search(context.Background(), "", req); !errors.Is(err, domain.ErrTenantRequired) {
		t.Fatalf("expected ErrTenantRequired, got %v", err)
	}
}

func TestSearch_HybridWeighting(t *testing.T) {
	st := publishedStory("s1", "Go pipelines")
	stories := &mockStoryStore{
		semHits:  []story.Hit{{Story: st, Score: 0.9}},
		textHits: []story.Hit{{Story: st, Score: 0.6}},
	}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := newTestService(stories, &mockMemberStore{}, embed)

	req := mustRequest(t, request.Params{Query: "go pipelines", Scope: scope.Stories, ExplainScores: true})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.StoryResults) != 1 {
		t.Fatalf("expected 1 story result, got %d", len(env.StoryResults))
	}

	got := env.StoryResults[0].Score
	want := 0.9*0.7 + 0.6*0.3
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected score %v, got %v", want, got)
	}

	expl := env.StoryResults[0].ScoreExplanation
	if expl == nil {
		t.Fatal("expected score explanation")
	}
	if expl.SemanticSimilarity == nil || *expl.SemanticSimilarity != 0.9 {
		t.Errorf("expected semantic similarity 0.9, got %v", expl.SemanticSimilarity)
	}
	if expl.TextSimilarity == nil || *expl.TextSimilarity != 0.6 {
		t.Errorf("expected text similarity 0.6, got %v", expl.TextSimilarity)
	}
	if env.Diagnostics.Status != response.StatusOK {
		t.Errorf("expected ok status, got %q", env.Diagnostics.Status)
	}
}

func TestSearch_ThresholdFiltersSemanticHits(t *testing.T) {
	weak := publishedStory("s-weak", "Barely related")
	strong := publishedStory("s-strong", "Spot on")
	stories := &mockStoryStore{
		semHits: []story.Hit{
			{Story: strong, Score: 0.85},
			{Story: weak, Score: 0.55},
		},
	}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := newTestService(stories, &mockMemberStore{}, embed)

	req := mustRequest(t, request.Params{Query: "q", Scope: scope.Stories})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.StoryResults) != 1 || env.StoryResults[0].ID != "s-strong" {
		t.Fatalf("expected only s-strong above threshold, got %d results", len(env.StoryResults))
	}
}

func TestSearch_BoostsUnderRelevanceSort(t *testing.T) {
	st := publishedStory("s1", "Fresh and popular")
	st.CreatedAt = time.Now()
	st.ViewCount = 0
	st.LikeCount = 25 // engagement (0+2*25)/100 = 0.5

	stories := &mockStoryStore{semHits: []story.Hit{{Story: st, Score: 0.9}}}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := newTestService(stories, &mockMemberStore{}, embed)

	req := mustRequest(t, request.Params{
		Query:         "fresh",
		Scope:         scope.Stories,
		BoostRecent:   true,
		BoostPopular:  true,
		ExplainScores: true,
	})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.StoryResults) != 1 {
		t.Fatalf("expected 1 story result, got %d", len(env.StoryResults))
	}

	// 0.9*0.7 base, +0.1*~1 recency (just created), +0.1*0.5 engagement.
	got := env.StoryResults[0].Score
	want := 0.9*0.7 + 0.1 + 0.05
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("expected boosted score ~%v, got %v", want, got)
	}

	expl := env.StoryResults[0].ScoreExplanation
	if expl == nil {
		t.Fatal("expected score explanation")
	}
	if math.Abs(expl.RecencyBoost-0.1) > 1e-3 {
		t.Errorf("expected recency boost ~0.1, got %v", expl.RecencyBoost)
	}
	if math.Abs(expl.EngagementBoost-0.05) > 1e-9 {
		t.Errorf("expected engagement boost 0.05, got %v", expl.EngagementBoost)
	}
	if math.Abs(expl.FinalScore-got) > 1e-9 {
		t.Errorf("expected final score %v in explanation, got %v", got, expl.FinalScore)
	}
}

func TestSearch_BoostsSkippedUnderExplicitSort(t *testing.T) {
	st := publishedStory("s1", "Fresh and popular")
	st.CreatedAt = time.Now()
	st.LikeCount = 25

	stories := &mockStoryStore{semHits: []story.Hit{{Story: st, Score: 0.9}}}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := newTestService(stories, &mockMemberStore{}, embed)

	req := mustRequest(t, request.Params{
		Query:         "fresh",
		Scope:         scope.Stories,
		Sort:          sort.Recent,
		BoostRecent:   true,
		BoostPopular:  true,
		ExplainScores: true,
	})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.StoryResults) != 1 {
		t.Fatalf("expected 1 story result, got %d", len(env.StoryResults))
	}

	got := env.StoryResults[0].Score
	want := 0.9 * 0.7
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected unboosted score %v, got %v", want, got)
	}

	expl := env.StoryResults[0].ScoreExplanation
	if expl == nil {
		t.Fatal("expected score explanation")
	}
	if expl.RecencyBoost != 0 || expl.EngagementBoost != 0 {
		t.Errorf("expected no boosts under recent sort, got %v/%v",
			expl.RecencyBoost, expl.EngagementBoost)
	}
}

func TestSearch_EmbeddingFailureDegradesToText(t *testing.T) {
	st := publishedStory("s1", "Keyword hit")
	stories := &mockStoryStore{textHits: []story.Hit{{Story: st, Score: 0.6}}}
	embed := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc := newTestService(stories, &mockMemberStore{}, embed)

	req := mustRequest(t, request.Params{Query: "keyword", Scope: scope.Stories})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("expected degraded response, got error: %v", err)
	}

	if env.Diagnostics.Status != response.StatusDegraded {
		t.Errorf("expected degraded status, got %q", env.Diagnostics.Status)
	}
	found := false
	for _, s := range env.Diagnostics.Degraded {
		if s == response.SubsystemEmbedding {
			found = true
		}
	}
	if !found {
		t.Errorf("expected embedding in degraded list, got %v", env.Diagnostics.Degraded)
	}
	if env.Metadata.SemanticSearchUsed {
		t.Error("expected semantic_search_used=false after embedding failure")
	}
	if len(env.StoryResults) != 1 {
		t.Errorf("expected text results to survive, got %d", len(env.StoryResults))
	}
}

func TestSearch_StoreFailureYieldsEmptyDegraded(t *testing.T) {
	stories := &mockStoryStore{
		semErr:  errors.New("conn refused"),
		textErr: errors.New("conn refused"),
	}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := newTestService(stories, &mockMemberStore{}, embed)

	req := mustRequest(t, request.Params{Query: "q", Scope: scope.Stories})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("expected degraded response, got error: %v", err)
	}

	if len(env.StoryResults) != 0 || env.StoryTotal != 0 {
		t.Errorf("expected empty results, got %d/%d", len(env.StoryResults), env.StoryTotal)
	}
	if env.Diagnostics.Status != response.StatusDegraded {
		t.Errorf("expected degraded status, got %q", env.Diagnostics.Status)
	}
	if len(env.Diagnostics.Degraded) != 2 {
		t.Errorf("expected 2 degraded subsystems, got %v", env.Diagnostics.Degraded)
	}
}

func TestSearch_ZeroResults(t *testing.T) {
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := newTestService(&mockStoryStore{}, &mockMemberStore{}, embed)

	req := mustRequest(t, request.Params{Query: "nothing matches this"})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.StoryTotal != 0 || env.MemberTotal != 0 {
		t.Errorf("expected zero totals, got %d/%d", env.StoryTotal, env.MemberTotal)
	}
	if env.Diagnostics.Status != response.StatusOK {
		t.Errorf("expected ok status for genuine zero results, got %q", env.Diagnostics.Status)
	}
	if env.HasNext || env.HasPrevious {
		t.Error("expected no pagination flags on empty result")
	}
}

func TestSearch_DiscoversMembersThroughStories(t *testing.T) {
	ana := activeMember("mem-ana", "Ana")
	st := publishedStory("s1", "Zero Waste Manufacturing", "mem-ana")

	stories := &mockStoryStore{semHits: []story.Hit{{Story: st, Score: 0.92}}}
	members := &mockMemberStore{byID: map[string]member.Member{"mem-ana": ana}}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := newTestService(stories, members, embed)

	req := mustRequest(t, request.Params{Query: "zero waste", ExplainScores: true})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.MemberResults) != 1 {
		t.Fatalf("expected 1 discovered member, got %d", len(env.MemberResults))
	}

	got := env.MemberResults[0]
	if got.ID != "mem-ana" {
		t.Errorf("expected mem-ana, got %q", got.ID)
	}
	want := 0.8 + 0.1
	if math.Abs(got.Score-want) > 1e-9 {
		t.Errorf("expected discovery score %v, got %v", want, got.Score)
	}
	if got.ScoreExplanation == nil || got.ScoreExplanation.Rationale != "Discovered through 1 relevant stories" {
		t.Errorf("unexpected rationale: %+v", got.ScoreExplanation)
	}
}

func TestSearch_DiscoveryScalesWithLinkedStories(t *testing.T) {
	one := activeMember("mem-one", "One Story")
	two := activeMember("mem-two", "Two Stories")

	stories := &mockStoryStore{semHits: []story.Hit{
		{Story: publishedStory("s1", "A", "mem-one", "mem-two"), Score: 0.9},
		{Story: publishedStory("s2", "B", "mem-two"), Score: 0.85},
	}}
	members := &mockMemberStore{byID: map[string]member.Member{
		"mem-one": one, "mem-two": two,
	}}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := newTestService(stories, members, embed)

	req := mustRequest(t, request.Params{Query: "q"})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.MemberResults) != 2 {
		t.Fatalf("expected 2 members, got %d", len(env.MemberResults))
	}
	if env.MemberResults[0].ID != "mem-two" {
		t.Errorf("expected the member with more linked stories first, got %q", env.MemberResults[0].ID)
	}
	if env.MemberResults[0].Score <= env.MemberResults[1].Score {
		t.Errorf("expected strictly higher score for more links: %v vs %v",
			env.MemberResults[0].Score, env.MemberResults[1].Score)
	}
}

func TestSearch_DiscoveryOverridesDirectScore(t *testing.T) {
	ana := activeMember("mem-ana", "Ana")

	stories := &mockStoryStore{semHits: []story.Hit{
		{Story: publishedStory("s1", "A", "mem-ana"), Score: 0.9},
	}}
	members := &mockMemberStore{
		semHits: []member.Hit{{Member: ana, Score: 0.75}},
		byID:    map[string]member.Member{"mem-ana": ana},
	}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := newTestService(stories, members, embed)

	req := mustRequest(t, request.Params{Query: "q"})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.MemberResults) != 1 {
		t.Fatalf("expected 1 member (merged), got %d", len(env.MemberResults))
	}
	want := 0.8 + 0.1
	if math.Abs(env.MemberResults[0].Score-want) > 1e-9 {
		t.Errorf("expected discovery score to win: want %v, got %v", want, env.MemberResults[0].Score)
	}
}

func TestSearch_Pagination(t *testing.T) {
	var hits []story.Hit
	for i := 1; i <= 15; i++ {
		hits = append(hits, story.Hit{
			Story: publishedStory("s"+strconv.Itoa(i), "T"),
			Score: 0.99 - float64(i)*0.001,
		})
	}
	stories := &mockStoryStore{semHits: hits}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := newTestService(stories, &mockMemberStore{}, embed)

	req := mustRequest(t, request.Params{Query: "q", Scope: scope.Stories, Page: 2, PageSize: 10})
	env, err := svc.Search(context.Background(), "caul-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if env.StoryTotal != 15 {
		t.Errorf("expected total 15, got %d", env.StoryTotal)
	}
	if len(env.StoryResults) != 5 {
		t.Errorf("expected 5 results on page 2, got %d", len(env.StoryResults))
	}
	if env.HasNext {
		t.Error("expected has_next=false on the last page")
	}
	if !env.HasPrevious {
		t.Error("expected has_previous=true on page 2")
	}
}

func TestSearch_RecordsQueryPopularity(t *testing.T) {
	sugg := &mockSuggester{}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := New(&mockStoryStore{}, &mockMemberStore{}, embed, sugg, nil, testConfig(), nil)

	req := mustRequest(t, request.Params{Query: "go experts"})
	if _, err := svc.Search(context.Background(), "caul-1", req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sugg.recorded) != 1 || sugg.recorded[0] != "go experts" {
		t.Errorf("expected query recorded once, got %v", sugg.recorded)
	}
}

func TestQuick_ForcesFullExperience(t *testing.T) {
	st := publishedStory("s1", "Hit")
	stories := &mockStoryStore{textHits: []story.Hit{{Story: st, Score: 0.5}}}
	sugg := &mockSuggester{suggestions: []response.Suggestion{{Query: "hit experts", Type: "related"}}}
	summ := &mockSummarizer{summary: response.Summary{Summary: "One story found."}}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: testVector()}}
	svc := New(stories, &mockMemberStore{}, embed, sugg, summ, testConfig(), nil)

	env, err := svc.Quick(context.Background(), "caul-1", "hit", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summ.calls != 1 {
		t.Errorf("expected summary generated, calls=%d", summ.calls)
	}
	if env.AISummary == nil || *env.AISummary != "One story found." {
		t.Errorf("expected ai_summary set, got %v", env.AISummary)
	}
	if len(env.Suggestions) != 1 {
		t.Errorf("expected suggestions attached, got %d", len(env.Suggestions))
	}
}

func TestQuick_RejectsEmptyQuery(t *testing.T) {
	svc := newTestService(&mockStoryStore{}, &mockMemberStore{}, &mockEmbedder{})
	if _, err := svc.Quick(context.Background(), "caul-1", "  ", 5); err == nil {
		t.Error("expected validation error for blank query")
	}
}
