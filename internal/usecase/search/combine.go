package search

import (
	"fmt"

	"github.com/stonesoup-hq/soupsearch/internal/domain/search/candidate"
)

// subScores holds one entity's raw sub-search scores during hybrid
// combination. A nil pointer means the entity did not appear in that
// sub-search.
type subScores struct {
	semantic *float64
	text     *float64
}

// combineWeighted fuses semantic and text sub-search scores into a single
// relevance score. Each present component contributes its weighted score;
// a miss contributes nothing, so an entity found by both sub-searches
// outranks one with the same scores found by only one.
func combineWeighted(scores subScores, semanticWeight, textWeight float64) (float64, candidate.Explanation) {
	var final float64
	expl := candidate.Explanation{
		SemanticSimilarity: scores.semantic,
		TextSimilarity:     scores.text,
	}

	if scores.semantic != nil {
		final += *scores.semantic * semanticWeight
		expl.Rationale = fmt.Sprintf("Semantic match (%.3f)", *scores.semantic)
	}
	if scores.text != nil {
		final += *scores.text * textWeight
		if expl.Rationale == "" {
			expl.Rationale = fmt.Sprintf("Keyword match (%.3f)", *scores.text)
		} else {
			expl.AppendRationale(fmt.Sprintf("+ keyword match (%.3f)", *scores.text))
		}
	}

	expl.FinalScore = final
	return final, expl
}

func ptr(f float64) *float64 { return &f }
