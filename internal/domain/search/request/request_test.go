package request

import (
	"strings"
	"testing"

	"github.com/stonesoup-hq/soupsearch/internal/domain/search/mode"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/scope"
	"github.com/stonesoup-hq/soupsearch/internal/domain/search/sort"
)

func TestNew_Defaults(t *testing.T) {
	req, err := New(Params{Query: "  sustainability  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Query() != "sustainability" {
		t.Errorf("expected trimmed query, got %q", req.Query())
	}
	if req.Mode() != mode.Hybrid {
		t.Errorf("expected default mode hybrid, got %q", req.Mode())
	}
	if req.Scope() != scope.All {
		t.Errorf("expected default scope all, got %q", req.Scope())
	}
	if req.Sort() != sort.Relevance {
		t.Errorf("expected default sort relevance, got %q", req.Sort())
	}
	if req.Page() != 1 || req.PageSize() != DefaultPageSize {
		t.Errorf("expected page 1/size %d, got %d/%d", DefaultPageSize, req.Page(), req.PageSize())
	}
	if req.SemanticThreshold() != DefaultThreshold {
		t.Errorf("expected default threshold %v, got %v", DefaultThreshold, req.SemanticThreshold())
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	if _, err := New(Params{Query: "   "}); err == nil {
		t.Error("expected error for blank query")
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	if _, err := New(Params{Query: strings.Repeat("x", MaxQueryLength+1)}); err == nil {
		t.Error("expected error for overlong query")
	}
}

func TestNew_InvalidEnums(t *testing.T) {
	cases := []Params{
		{Query: "q", Mode: "fuzzy"},
		{Query: "q", Scope: "everything"},
		{Query: "q", Sort: "random"},
	}
	for _, p := range cases {
		if _, err := New(p); err == nil {
			t.Errorf("expected error for params %+v", p)
		}
	}
}

func TestNew_PageBounds(t *testing.T) {
	if _, err := New(Params{Query: "q", Page: -1}); err == nil {
		t.Error("expected error for negative page")
	}
	if _, err := New(Params{Query: "q", PageSize: MaxPageSize + 1}); err == nil {
		t.Error("expected error for page size over cap")
	}
}

func TestNew_ThresholdBounds(t *testing.T) {
	if _, err := New(Params{Query: "q", SemanticThreshold: 1.5}); err == nil {
		t.Error("expected error for threshold above 1")
	}

	req, err := New(Params{Query: "q", SemanticThreshold: 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.SemanticThreshold() != 0.5 {
		t.Errorf("expected threshold 0.5, got %v", req.SemanticThreshold())
	}
}

func TestOffset(t *testing.T) {
	req, err := New(Params{Query: "q", Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Offset() != 20 {
		t.Errorf("expected offset 20, got %d", req.Offset())
	}
}
