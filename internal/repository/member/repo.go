// Package member implements member persistence and search over an
// FT-indexed hash store. Members live under <prefix>member:<id>; every
// query carries a mandatory cauldron_id condition for tenant isolation.
package member

import (
	"context"
	"fmt"

	"github.com/stonesoup-hq/soupsearch/internal/db"
	dommember "github.com/stonesoup-hq/soupsearch/internal/domain/member"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/filters"
)

// store is the consumer interface for member persistence (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements usecase/search.MemberStore.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a member repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) indexName() string {
	return r.keyPrefix + "member:idx"
}

func (r *Repo) key(id string) string {
	return r.keyPrefix + "member:" + id
}

// EnsureIndex creates the member FT index if it does not exist.
func (r *Repo) EnsureIndex(ctx context.Context, dim, m, efConstruct int) error {
	name := r.indexName()

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check member index: %w", err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(name).
		Prefix(r.keyPrefix + "member:").
		Text(fieldName).
		Text(fieldBio).
		Text(fieldTitle).
		Text(fieldSkillText).
		Tag(fieldCauldronID).
		Tag(fieldIsActive).
		Tag(fieldIsVerified).
		Tag(fieldIsAvailable).
		Tag(fieldSkills).
		Tag(fieldLocation).
		Tag(fieldIndustries).
		Numeric(fieldExperience).
		Numeric(fieldHourlyRate).
		Numeric(fieldCreatedAt).
		VectorHNSW(fieldVector, dim, db.DistanceCosine, m, efConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build member index: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create member index: %w", err)
	}
	return nil
}

// SemanticSearch returns active members by profile-vector similarity.
// Scores are cosine similarity in [0,1].
func (r *Repo) SemanticSearch(
	ctx context.Context, cauldronID string,
	vector []float32, f filters.Member, limit int,
) ([]dommember.Hit, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Conditions:   buildConditions(cauldronID, f),
		Vector:       vector,
		K:            limit,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("member knn search: %w", err)
	}

	return parseHits(sr)
}

// TextSearch returns active members by full-text relevance over the name,
// bio, title and skill text fields.
func (r *Repo) TextSearch(
	ctx context.Context, cauldronID, query string,
	f filters.Member, limit int,
) ([]dommember.Hit, error) {
	q := &db.TextQuery{
		IndexName:    r.indexName(),
		TextFields:   []string{fieldName, fieldBio, fieldTitle, fieldSkillText},
		Query:        query,
		Conditions:   buildConditions(cauldronID, f),
		TopK:         limit,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("member text search: %w", err)
	}

	return parseHits(sr)
}

// GetMulti fetches members by id in one round trip, skipping ids that do
// not exist or belong to a different cauldron.
func (r *Repo) GetMulti(ctx context.Context, cauldronID string, ids []string) ([]dommember.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, r.key(id))
	}

	fieldSets, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get members: %w", err)
	}

	members := make([]dommember.Member, 0, len(fieldSets))
	for _, fields := range fieldSets {
		if len(fields) == 0 {
			continue
		}
		m, err := parseHashFields(fields)
		if err != nil {
			return nil, fmt.Errorf("parse member: %w", err)
		}
		if m.CauldronID != cauldronID {
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

// Put stores a member.
func (r *Repo) Put(ctx context.Context, m *dommember.Member) error {
	if err := r.store.HSet(ctx, r.key(m.ID), buildHashFields(m)); err != nil {
		return fmt.Errorf("put member %s: %w", m.ID, err)
	}
	return nil
}

// PutMulti stores several members in one round trip.
func (r *Repo) PutMulti(ctx context.Context, members []dommember.Member) error {
	items := make([]db.HashSetItem, 0, len(members))
	for i := range members {
		items = append(items, db.HashSetItem{
			Key:    r.key(members[i].ID),
			Fields: buildHashFields(&members[i]),
		})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("put members: %w", err)
	}
	return nil
}

func parseHits(sr *db.SearchResult) ([]dommember.Hit, error) {
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	hits := make([]dommember.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		m, err := parseHashFields(entry.Fields)
		if err != nil {
			return nil, fmt.Errorf("parse member %s: %w", entry.Key, err)
		}
		hits = append(hits, dommember.Hit{Member: m, Score: entry.Score})
	}
	return hits, nil
}

// buildConditions compiles filters into FT pre-filter clauses. Tenant and
// active-only constraints are always present.
func buildConditions(cauldronID string, f filters.Member) []db.Condition {
	conds := []db.Condition{
		db.TagMatch(fieldCauldronID, cauldronID),
		db.TagMatch(fieldIsActive, "true"),
	}

	if len(f.Skills) > 0 {
		conds = append(conds, db.TagMatch(fieldSkills, f.Skills...))
	}
	if len(f.Locations) > 0 {
		conds = append(conds, db.TagMatch(fieldLocation, f.Locations...))
	}
	if len(f.Industries) > 0 {
		conds = append(conds, db.TagMatch(fieldIndustries, f.Industries...))
	}
	if f.AvailableOnly {
		conds = append(conds, db.TagMatch(fieldIsAvailable, "true"))
	}
	if f.VerifiedOnly {
		conds = append(conds, db.TagMatch(fieldIsVerified, "true"))
	}
	if f.MinExperience != nil || f.MaxExperience != nil {
		conds = append(conds, db.NumRange(fieldExperience, f.MinExperience, f.MaxExperience))
	}
	if f.MinRate != nil || f.MaxRate != nil {
		conds = append(conds, db.NumRange(fieldHourlyRate, f.MinRate, f.MaxRate))
	}

	return conds
}
