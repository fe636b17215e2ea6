package search

import (
	"context"

	"github.com/stonesoup-hq/soupsearch/internal/domain"
	"github.com/stonesoup-hq/soupsearch/internal/domain/member"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/filters"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
	"github.com/stonesoup-hq/soupsearch/internal/domain/story"
)

// --- Mocks ---

type mockStoryStore struct {
	semHits  []story.Hit
	textHits []story.Hit
	semErr   error
	textErr  error
}

func (m *mockStoryStore) SemanticSearch(
	_ context.Context, _ string, _ []float32, _ filters.Story, _ int,
) ([]story.Hit, error) {
	return m.semHits, m.semErr
}

func (m *mockStoryStore) TextSearch(
	_ context.Context, _, _ string, _ filters.Story, _ int,
) ([]story.Hit, error) {
	return m.textHits, m.textErr
}

type mockMemberStore struct {
	semHits  []member.Hit
	textHits []member.Hit
	semErr   error
	textErr  error

	byID map[string]member.Member

	getMultiErr   error
	getMultiCalls int
}

func (m *mockMemberStore) SemanticSearch(
	_ context.Context, _ string, _ []float32, _ filters.Member, _ int,
) ([]member.Hit, error) {
	return m.semHits, m.semErr
}

func (m *mockMemberStore) TextSearch(
	_ context.Context, _, _ string, _ filters.Member, _ int,
) ([]member.Hit, error) {
	return m.textHits, m.textErr
}

func (m *mockMemberStore) GetMulti(_ context.Context, _ string, ids []string) ([]member.Member, error) {
	m.getMultiCalls++
	if m.getMultiErr != nil {
		return nil, m.getMultiErr
	}
	var out []member.Member
	for _, id := range ids {
		if mem, ok := m.byID[id]; ok {
			out = append(out, mem)
		}
	}
	return out, nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

type mockSuggester struct {
	suggestions []response.Suggestion
	suggestErr  error
	recorded    []string
	recordErr   error
}

func (m *mockSuggester) Suggest(
	_ context.Context, _, _ string, _ int,
) ([]response.Suggestion, error) {
	return m.suggestions, m.suggestErr
}

func (m *mockSuggester) Record(_ context.Context, _, query string) error {
	m.recorded = append(m.recorded, query)
	return m.recordErr
}

type mockSummarizer struct {
	summary response.Summary
	err     error
	calls   int
}

func (m *mockSummarizer) Summarize(
	_ context.Context, _ string, _ *response.Envelope, _ string,
) (response.Summary, error) {
	m.calls++
	return m.summary, m.err
}

// --- Helpers ---

func testVector() []float32 { return []float32{0.1, 0.2, 0.3} }

func testConfig() Config {
	return Config{SemanticWeight: 0.7, TextWeight: 0.3, CandidateLimit: 50}
}

func newTestService(stories *mockStoryStore, members *mockMemberStore, embed *mockEmbedder) *Service {
	return New(stories, members, embed, nil, nil, testConfig(), nil)
}

func publishedStory(id, title string, authors ...string) story.Story {
	s := story.Story{
		ID:         id,
		CauldronID: "caul-1",
		Title:      title,
		Content:    "content of " + title,
		Status:     story.StatusPublished,
	}
	for _, a := range authors {
		s.Authors = append(s.Authors, story.Authorship{MemberID: a, Role: "author"})
	}
	return s
}

func activeMember(id, name string) member.Member {
	return member.Member{ID: id, CauldronID: "caul-1", Name: name, IsActive: true}
}
