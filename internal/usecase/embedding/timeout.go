// Package embedding holds embedder decorators applied between the
// transport client and the search service.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/stonesoup-hq/soupsearch/internal/domain"
)

// TimeoutEmbedder bounds embedding calls so a slow provider degrades the
// search instead of stalling it.
type TimeoutEmbedder struct {
	inner   domain.Embedder
	timeout time.Duration
}

// NewTimeoutEmbedder wraps an embedder with a per-call timeout.
func NewTimeoutEmbedder(inner domain.Embedder, timeout time.Duration) *TimeoutEmbedder {
	return &TimeoutEmbedder{inner: inner, timeout: timeout}
}

// Embed delegates to the inner embedder under a deadline.
func (t *TimeoutEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	result, err := t.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed with timeout %s: %w", t.timeout, err)
	}
	return result, nil
}
