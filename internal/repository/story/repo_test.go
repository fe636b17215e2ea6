package story

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stonesoup-hq/soupsearch/internal/db"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/filters"
	domstory "github.com/stonesoup-hq/soupsearch/internal/domain/story"
)

type mockStore struct {
	knnQuery  *db.KNNQuery
	textQuery *db.TextQuery
	knnResult *db.SearchResult
	hashes    map[string]map[string]string
	indexDefs []*db.IndexDefinition
	indexup   bool
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.knnQuery = q
	if m.knnResult != nil {
		return m.knnResult, nil
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchText(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	m.textQuery = q
	return &db.SearchResult{}, nil
}

func (m *mockStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hashes == nil {
		m.hashes = make(map[string]map[string]string)
	}
	m.hashes[key] = fields
	return nil
}

func (m *mockStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	for _, item := range items {
		if err := m.HSet(context.Background(), item.Key, item.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	return m.hashes[key], nil
}

func (m *mockStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	m.indexDefs = append(m.indexDefs, def)
	return nil
}

func (m *mockStore) IndexExists(_ context.Context, _ string) (bool, error) {
	return m.indexup, nil
}

func condFor(t *testing.T, conds []db.Condition, key string) db.Condition {
	t.Helper()
	for _, c := range conds {
		if c.Key == key {
			return c
		}
	}
	t.Fatalf("expected condition on %q, got %v", key, conds)
	return db.Condition{}
}

func TestSemanticSearch_AlwaysScopesToCauldronAndPublished(t *testing.T) {
	s := &mockStore{}
	repo := New(s, "stonesoup:")

	_, err := repo.SemanticSearch(context.Background(), "acme", []float32{0.1}, filters.Story{}, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.knnQuery.IndexName != "stonesoup:story:idx" {
		t.Errorf("unexpected index %q", s.knnQuery.IndexName)
	}
	if s.knnQuery.K != 20 {
		t.Errorf("expected k=20, got %d", s.knnQuery.K)
	}

	tenant := condFor(t, s.knnQuery.Conditions, fieldCauldronID)
	if !reflect.DeepEqual(tenant.Values, []string{"acme"}) {
		t.Errorf("unexpected tenant condition %v", tenant.Values)
	}
	status := condFor(t, s.knnQuery.Conditions, fieldStatus)
	if !reflect.DeepEqual(status.Values, []string{"published"}) {
		t.Errorf("unexpected status condition %v", status.Values)
	}
}

func TestTextSearch_CompilesFilters(t *testing.T) {
	s := &mockStore{}
	repo := New(s, "stonesoup:")

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	aiGen := false
	f := filters.Story{
		Tags:        []string{"sustainability"},
		Categories:  []string{"case_study", "experience"},
		Company:     "GreenWorks",
		DateFrom:    &from,
		AIGenerated: &aiGen,
	}

	_, err := repo.TextSearch(context.Background(), "acme", "zero waste", f, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conds := s.textQuery.Conditions
	if got := condFor(t, conds, fieldTags).Values; !reflect.DeepEqual(got, []string{"sustainability"}) {
		t.Errorf("unexpected tags condition %v", got)
	}
	if got := condFor(t, conds, fieldCategory).Values; len(got) != 2 {
		t.Errorf("unexpected categories condition %v", got)
	}
	if got := condFor(t, conds, fieldAIGenerated).Values; !reflect.DeepEqual(got, []string{"false"}) {
		t.Errorf("unexpected ai_generated condition %v", got)
	}

	dates := condFor(t, conds, fieldCreatedAt)
	if dates.Range == nil || dates.Range.Min == nil || *dates.Range.Min != float64(from.Unix()) {
		t.Errorf("unexpected date condition %+v", dates.Range)
	}
	if dates.Range.Max != nil {
		t.Errorf("expected open upper bound, got %v", *dates.Range.Max)
	}
}

func TestSemanticSearch_ParsesHits(t *testing.T) {
	published := domstory.Story{
		ID:         "story-1",
		CauldronID: "acme",
		Title:      "Zero Waste Manufacturing",
		Content:    "Body",
		Category:   domstory.CategoryCaseStudy,
		Status:     domstory.StatusPublished,
		CreatedAt:  time.Unix(5000, 0).UTC(),
		UpdatedAt:  time.Unix(5000, 0).UTC(),
	}
	s := &mockStore{
		knnResult: &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{
				{Key: "stonesoup:story:story-1", Score: 0.92, Fields: buildHashFields(&published)},
			},
		},
	}
	repo := New(s, "stonesoup:")

	hits, err := repo.SemanticSearch(context.Background(), "acme", []float32{0.1}, filters.Story{}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Score != 0.92 {
		t.Errorf("expected score 0.92, got %v", hits[0].Score)
	}
	if hits[0].Story.Title != "Zero Waste Manufacturing" {
		t.Errorf("unexpected story %+v", hits[0].Story)
	}
}

func TestEnsureIndex_SkipsWhenPresent(t *testing.T) {
	s := &mockStore{indexup: true}
	repo := New(s, "stonesoup:")

	if err := repo.EnsureIndex(context.Background(), 1536, 32, 400); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.indexDefs) != 0 {
		t.Errorf("expected no index creation, got %d", len(s.indexDefs))
	}
}

func TestEnsureIndex_CreatesWhenMissing(t *testing.T) {
	s := &mockStore{}
	repo := New(s, "stonesoup:")

	if err := repo.EnsureIndex(context.Background(), 1536, 32, 400); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.indexDefs) != 1 {
		t.Fatalf("expected one index definition, got %d", len(s.indexDefs))
	}
	if s.indexDefs[0].Name != "stonesoup:story:idx" {
		t.Errorf("unexpected index name %q", s.indexDefs[0].Name)
	}
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := &mockStore{}
	repo := New(s, "stonesoup:")

	in := domstory.Story{
		ID:         "story-9",
		CauldronID: "acme",
		Title:      "Event Pipeline Rebuild",
		Content:    "Body",
		Category:   domstory.CategoryExperience,
		Status:     domstory.StatusPublished,
		CreatedAt:  time.Unix(7000, 0).UTC(),
		UpdatedAt:  time.Unix(7000, 0).UTC(),
	}
	if err := repo.Put(context.Background(), &in); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.Get(context.Background(), "story-9")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}
}
