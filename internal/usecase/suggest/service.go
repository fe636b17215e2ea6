// Package suggest turns recorded query popularity into follow-up query
// suggestions for the search box.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/stonesoup-hq/soupsearch/internal/domain"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
)

// PopularityStore persists per-cauldron query usage counters.
type PopularityStore interface {
	Record(ctx context.Context, cauldronID, query string) error
	Top(ctx context.Context, cauldronID, prefix string, limit int) ([]domain.PopularQuery, error)
}

// expansions are appended after popular completions when there is room.
var expansions = []string{"%s experts", "%s case studies", "%s success stories"}

// Service produces search suggestions.
type Service struct {
	store PopularityStore
}

// New creates a suggestion service.
func New(store PopularityStore) *Service {
	return &Service{store: store}
}

// Record notes that a query was executed.
func (s *Service) Record(ctx context.Context, cauldronID, query string) error {
	return s.store.Record(ctx, cauldronID, query)
}

// Suggest returns up to limit suggestions for a query prefix: popular
// completions first, then generic expansions of the prefix itself.
func (s *Service) Suggest(
	ctx context.Context, cauldronID, prefix string, limit int,
) ([]response.Suggestion, error) {
	if limit <= 0 {
		limit = 5
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, nil
	}

	popular, err := s.store.Top(ctx, cauldronID, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}

	seen := make(map[string]bool, limit)
	suggestions := make([]response.Suggestion, 0, limit)

	maxCount := int64(1)
	if len(popular) > 0 && popular[0].Count > maxCount {
		maxCount = popular[0].Count
	}

	for _, p := range popular {
		if len(suggestions) >= limit {
			break
		}
		// The prefix itself is what the user already typed.
		if p.Query == strings.ToLower(prefix) {
			continue
		}
		seen[p.Query] = true
		suggestions = append(suggestions, response.Suggestion{
			Query:       p.Query,
			Type:        "popular",
			Score:       float64(p.Count) / float64(maxCount),
			ResultCount: int(p.Count),
			Popular:     true,
		})
	}

	for _, pattern := range expansions {
		if len(suggestions) >= limit {
			break
		}
		q := strings.ToLower(fmt.Sprintf(pattern, prefix))
		if seen[q] {
			continue
		}
		seen[q] = true
		suggestions = append(suggestions, response.Suggestion{
			Query: q,
			Type:  "related",
			Score: 0.5,
		})
	}

	return suggestions, nil
}
