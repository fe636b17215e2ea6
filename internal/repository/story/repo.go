// Package story implements story persistence and search over an FT-indexed
// hash store. Stories live under <prefix>story:<id> and are searched through
// a single index shared by all cauldrons; tenant isolation happens through a
// mandatory cauldron_id condition on every query.
package story

import (
	"context"
	"fmt"

	"github.com/stonesoup-hq/soupsearch/internal/db"
	domstory "github.com/stonesoup-hq/soupsearch/internal/domain/story"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/filters"
)

// store is the consumer interface for story persistence (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/search.StoryStore.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a story repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) indexName() string {
	return r.keyPrefix + "story:idx"
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "story:" + id
}

// EnsureIndex creates the story FT index if it does not exist.
func (r *Repo) EnsureIndex(ctx context.Context, dim, m, efConstruct int) error {
	name := r.indexName()

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check story index: %w", err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(name).
		Prefix(r.keyPrefix + "story:").
		Text(fieldTitle).
		Text(fieldContent).
		Text(fieldTagText).
		Tag(fieldCauldronID).
		Tag(fieldStatus).
		Tag(fieldCategory).
		Tag(fieldTags).
		Tag(fieldSkills).
		Tag(fieldCompany).
		Tag(fieldAIGenerated).
		Numeric(fieldViewCount).
		Numeric(fieldLikeCount).
		Numeric(fieldCreatedAt).
		VectorHNSW(fieldVector, dim, db.DistanceCosine, m, efConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build story index: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create story index: %w", err)
	}
	return nil
}

// SemanticSearch returns published stories by vector similarity, most
// similar first. Scores are cosine similarity in [0,1].
func (r *Repo) SemanticSearch(
	ctx context.Context, cauldronID string,
	vector []float32, f filters.Story, limit int,
) ([]domstory.Hit, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Conditions:   buildConditions(cauldronID, f),
		Vector:       vector,
		K:            limit,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("story knn search: %w", err)
	}

	return parseHits(sr)
}

// TextSearch returns published stories by full-text relevance over the
// title, content and tag text fields.
func (r *Repo) TextSearch(
	ctx context.Context, cauldronID, query string,
	f filters.Story, limit int,
) ([]domstory.Hit, error) {
	q := &db.TextQuery{
		IndexName:    r.indexName(),
		TextFields:   []string{fieldTitle, fieldContent, fieldTagText},
		Query:        query,
		Conditions:   buildConditions(cauldronID, f),
		TopK:         limit,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("story text search: %w", err)
	}

	return parseHits(sr)
}

// Get returns a single story by id.
func (r *Repo) Get(ctx context.Context, id string) (domstory.Story, error) {
	fields, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domstory.Story{}, fmt.Errorf("get story %s: %w", id, err)
	}
	return parseHashFields(fields)
}

// Put stores a story.
func (r *Repo) Put(ctx context.Context, s *domstory.Story) error {
	if err := r.store.HSet(ctx, r.key(s.ID), buildHashFields(s)); err != nil {
		return fmt.Errorf("put story %s: %w", s.ID, err)
	}
	return nil
}

// PutMulti stores several stories in one round trip.
func (r *Repo) PutMulti(ctx context.Context, stories []domstory.Story) error {
	items := make([]db.HashSetItem, 0, len(stories))
	for i := range stories {
		items = append(items, db.HashSetItem{
			Key:    r.key(stories[i].ID),
			Fields: buildHashFields(&stories[i]),
		})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("put stories: %w", err)
	}
	return nil
}

func parseHits(sr *db.SearchResult) ([]domstory.Hit, error) {
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	hits := make([]domstory.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		s, err := parseHashFields(entry.Fields)
		if err != nil {
			return nil, fmt.Errorf("parse story %s: %w", entry.Key, err)
		}
		hits = append(hits, domstory.Hit{Story: s, Score: entry.Score})
	}
	return hits, nil
}

// buildConditions compiles filters into FT pre-filter clauses. Tenant and
// published-only constraints are always present.
func buildConditions(cauldronID string, f filters.Story) []db.Condition {
	conds := []db.Condition{
		db.TagMatch(fieldCauldronID, cauldronID),
		db.TagMatch(fieldStatus, string(domstory.StatusPublished)),
	}

	if len(f.Tags) > 0 {
		conds = append(conds, db.TagMatch(fieldTags, f.Tags...))
	}
	if len(f.Skills) > 0 {
		conds = append(conds, db.TagMatch(fieldSkills, f.Skills...))
	}
	if len(f.Categories) > 0 {
		conds = append(conds, db.TagMatch(fieldCategory, f.Categories...))
	}
	if f.Company != "" {
		conds = append(conds, db.TagMatch(fieldCompany, f.Company))
	}
	if f.DateFrom != nil || f.DateTo != nil {
		var min, max *float64
		if f.DateFrom != nil {
			v := float64(f.DateFrom.Unix())
			min = &v
		}
		if f.DateTo != nil {
			v := float64(f.DateTo.Unix())
			max = &v
		}
		conds = append(conds, db.NumRange(fieldCreatedAt, min, max))
	}
	if f.AIGenerated != nil {
		conds = append(conds, db.TagMatch(fieldAIGenerated, boolTag(*f.AIGenerated)))
	}

	return conds
}
