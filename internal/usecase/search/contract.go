package search

import (
	"context"

	"github.com/stonesoup-hq/soupsearch/internal/domain"
	"github.com/stonesoup-hq/soupsearch/internal/domain/member"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/filters"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
	"github.com/stonesoup-hq/soupsearch/internal/domain/story"
)

// StoryStore defines the storage contract for story sub-searches.
type StoryStore interface {
	SemanticSearch(
		ctx context.Context, cauldronID string,
		vector []float32, f filters.Story, limit int,
	) ([]story.Hit, error)

	TextSearch(
		ctx context.Context, cauldronID, query string,
		f filters.Story, limit int,
	) ([]story.Hit, error)
}

// MemberStore defines the storage contract for member sub-searches and
// the id fetch used by story-first discovery.
type MemberStore interface {
	SemanticSearch(
		ctx context.Context, cauldronID string,
		vector []float32, f filters.Member, limit int,
	) ([]member.Hit, error)

	TextSearch(
		ctx context.Context, cauldronID, query string,
		f filters.Member, limit int,
	) ([]member.Hit, error)

	GetMulti(ctx context.Context, cauldronID string, ids []string) ([]member.Member, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Suggester produces follow-up query suggestions and records executed
// queries for popularity ranking.
type Suggester interface {
	Suggest(ctx context.Context, cauldronID, prefix string, limit int) ([]response.Suggestion, error)
	Record(ctx context.Context, cauldronID, query string) error
}

// Summarizer digests a result set into a natural-language summary.
type Summarizer interface {
	Summarize(ctx context.Context, query string, env *response.Envelope, summaryType string) (response.Summary, error)
}
