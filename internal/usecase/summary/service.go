// Package summary digests a search result set into a short natural
// language overview, with a deterministic fallback when the language
// model is unavailable.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stonesoup-hq/soupsearch/internal/domain/search/response"
	"github.com/stonesoup-hq/soupsearch/internal/logger"
)

// maxResultsInPrompt caps how many results feed the model prompt.
const maxResultsInPrompt = 5

// Summary types. Unknown types get the overview prompt.
const (
	TypeOverview        = "overview"
	TypeDetailed        = "detailed"
	TypeInsights        = "insights"
	TypeRecommendations = "recommendations"
)

// ChatModel generates a completion from system and user prompts.
type ChatModel interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Service generates result-set summaries. model may be nil, in which
// case every summary is the deterministic fallback.
type Service struct {
	model     ChatModel
	modelName string
}

// New creates a summary service.
func New(model ChatModel, modelName string) *Service {
	return &Service{model: model, modelName: modelName}
}

// Summarize produces a summary of the result set. Model failures fall
// back to a deterministic summary; the caller always gets a usable one.
func (s *Service) Summarize(
	ctx context.Context, query string, env *response.Envelope, summaryType string,
) (response.Summary, error) {
	if summaryType == "" {
		summaryType = TypeOverview
	}

	resultCount := env.StoryTotal + env.MemberTotal

	if s.model != nil && resultCount > 0 {
		text, err := s.model.Complete(ctx, systemPrompt(summaryType), userPrompt(query, env))
		if err == nil && strings.TrimSpace(text) != "" {
			return response.Summary{
				Summary:         strings.TrimSpace(text),
				KeyInsights:     keyInsights(env),
				ConfidenceScore: 0.8,
				ModelUsed:       s.modelName,
				ResultCount:     resultCount,
				Query:           query,
				SummaryType:     summaryType,
				GeneratedAt:     time.Now().UTC(),
			}, nil
		}
		if err != nil {
			logger.FromContext(ctx).Warn("Summary model failed, using fallback",
				zap.String("model", s.modelName), zap.Error(err))
		}
	}

	return response.Summary{
		Summary:         fallbackSummary(query, env),
		KeyInsights:     keyInsights(env),
		ConfidenceScore: 0.3,
		ModelUsed:       "fallback",
		ResultCount:     resultCount,
		Query:           query,
		SummaryType:     summaryType,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

func systemPrompt(summaryType string) string {
	base := "You summarize talent marketplace search results. " +
		"Do not invent results."
	switch summaryType {
	case TypeDetailed:
		return base + " Write a detailed analysis: talent by skill area, " +
			"experience levels, notable achievements and specific examples " +
			"from the top results. Two to three paragraphs."
	case TypeInsights:
		return base + " Extract three to five insights about the talent " +
			"pool: skill availability, unique expertise areas, standout profiles."
	case TypeRecommendations:
		return base + " Give specific, actionable recommendations: top " +
			"candidates with reasons, and alternative searches to try."
	default:
		return base + " Write a concise overview of the available talent " +
			"and expertise. Two to three sentences."
	}
}

func userPrompt(query string, env *response.Envelope) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Query: %q\n", query)
	fmt.Fprintf(&b, "Total: %d stories, %d members\n", env.StoryTotal, env.MemberTotal)

	for i, r := range env.StoryResults {
		if i >= maxResultsInPrompt {
			break
		}
		fmt.Fprintf(&b, "Story: %s (category %s, score %.2f)\n", r.Title, r.Story.Category, r.Score)
	}
	for i, r := range env.MemberResults {
		if i >= maxResultsInPrompt {
			break
		}
		fmt.Fprintf(&b, "Member: %s, %s (score %.2f)\n", r.Title, r.Content, r.Score)
	}
	return b.String()
}

// fallbackSummary is the deterministic template used when no model is
// configured or the model call failed.
func fallbackSummary(query string, env *response.Envelope) string {
	total := env.StoryTotal + env.MemberTotal
	if total == 0 {
		return fmt.Sprintf("No results found for %q.", query)
	}

	parts := make([]string, 0, 2)
	if env.StoryTotal > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", env.StoryTotal, plural(env.StoryTotal, "story", "stories")))
	}
	if env.MemberTotal > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", env.MemberTotal, plural(env.MemberTotal, "member", "members")))
	}

	summary := fmt.Sprintf("Found %s for %q.", strings.Join(parts, " and "), query)
	if len(env.StoryResults) > 0 {
		summary += fmt.Sprintf(" Top result: %q.", env.StoryResults[0].Title)
	} else if len(env.MemberResults) > 0 {
		summary += fmt.Sprintf(" Top result: %s.", env.MemberResults[0].Title)
	}
	return summary
}

func keyInsights(env *response.Envelope) []string {
	var insights []string
	for i, r := range env.StoryResults {
		if i >= 3 {
			break
		}
		insights = append(insights, r.Title)
	}
	for i, r := range env.MemberResults {
		if len(insights) >= 5 || i >= 2 {
			break
		}
		insights = append(insights, r.Title)
	}
	return insights
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
