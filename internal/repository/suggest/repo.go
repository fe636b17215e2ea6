// Package suggest tracks per-cauldron query popularity counters used to
// rank search suggestions. Counters live under <prefix>suggest:<cauldron>:<query>
// and expire after a rolling window so stale queries age out.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/stonesoup-hq/soupsearch/internal/db"
	"github.com/stonesoup-hq/soupsearch/internal/domain"
)

// counterTTL is the rolling retention window for popularity counters.
const counterTTL = 30 * 24 * time.Hour

// store is the consumer interface for popularity counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/suggest.PopularityStore.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a suggestion popularity repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

func (r *Repo) key(cauldronID, query string) string {
	return r.keyPrefix + "suggest:" + cauldronID + ":" + normalize(query)
}

// Record bumps the counter for a searched query. The TTL is only set when
// the counter is new, so the window measures time since first use.
func (r *Repo) Record(ctx context.Context, cauldronID, query string) error {
	query = normalize(query)
	if query == "" {
		return nil
	}

	key := r.key(cauldronID, query)
	if _, err := r.store.IncrBy(ctx, key, 1); err != nil {
		return fmt.Errorf("record query %q: %w", query, err)
	}
	if err := r.store.Expire(ctx, key, counterTTL, true); err != nil {
		return fmt.Errorf("expire query counter %q: %w", query, err)
	}
	return nil
}

// Top returns the cauldron's most-searched queries matching the prefix,
// highest count first.
func (r *Repo) Top(ctx context.Context, cauldronID, prefix string, limit int) ([]domain.PopularQuery, error) {
	pattern := r.keyPrefix + "suggest:" + cauldronID + ":" + escapeGlob(normalize(prefix)) + "*"

	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan query counters: %w", err)
	}

	stripPrefix := r.keyPrefix + "suggest:" + cauldronID + ":"
	queries := make([]domain.PopularQuery, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				// Counter expired between SCAN and GET.
				continue
			}
			return nil, fmt.Errorf("get query counter %s: %w", key, err)
		}
		count, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			continue
		}
		queries = append(queries, domain.PopularQuery{
			Query: strings.TrimPrefix(key, stripPrefix),
			Count: count,
		})
	}

	sort.Slice(queries, func(i, j int) bool {
		if queries[i].Count != queries[j].Count {
			return queries[i].Count > queries[j].Count
		}
		return queries[i].Query < queries[j].Query
	})

	if limit > 0 && len(queries) > limit {
		queries = queries[:limit]
	}
	return queries, nil
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// escapeGlob escapes SCAN MATCH metacharacters inside the user prefix.
func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`,
)
