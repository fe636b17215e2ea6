package story

import (
	"reflect"
	"testing"
	"time"

	domstory "github.com/stonesoup-hq/soupsearch/internal/domain/story"
)

func TestHashFields_RoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	in := domstory.Story{
		ID:          "story-1",
		CauldronID:  "acme",
		Title:       "Zero Waste Manufacturing",
		Content:     "How we cut landfill output by 90 percent.",
		Summary:     "Circular production line redesign.",
		Category:    domstory.CategoryCaseStudy,
		Status:      domstory.StatusPublished,
		Tags:        []string{"sustainability", "manufacturing"},
		Skills:      []string{"lean", "lifecycle-analysis"},
		Company:     "GreenWorks",
		AIGenerated: true,
		ViewCount:   120,
		LikeCount:   14,
		Authors: []domstory.Authorship{
			{MemberID: "mem-ana", Role: "lead"},
			{MemberID: "mem-jonas", Role: "contributor"},
		},
		CreatedAt:  created,
		UpdatedAt:  created.Add(48 * time.Hour),
		OccurredAt: created.Add(-30 * 24 * time.Hour),
		Embedding:  []float32{0.25, -0.5, 1.5},
	}

	got, err := parseHashFields(buildHashFields(&in))
	if err != nil {
		t.Fatalf("parseHashFields: %v", err)
	}

	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}
}

func TestHashFields_OmitsOptionalFields(t *testing.T) {
	in := domstory.Story{
		ID:         "story-2",
		CauldronID: "acme",
		Title:      "Short",
		Content:    "Body",
		Category:   domstory.CategoryExperience,
		Status:     domstory.StatusDraft,
		CreatedAt:  time.Unix(1000, 0).UTC(),
		UpdatedAt:  time.Unix(1000, 0).UTC(),
	}

	fields := buildHashFields(&in)

	for _, name := range []string{fieldSummary, fieldCompany, fieldOccurredAt, fieldAuthors, fieldVector} {
		if _, ok := fields[name]; ok {
			t.Errorf("expected %s to be omitted when empty", name)
		}
	}

	got, err := parseHashFields(fields)
	if err != nil {
		t.Fatalf("parseHashFields: %v", err)
	}
	if got.OccurredAt != (time.Time{}) {
		t.Errorf("expected zero occurred_at, got %v", got.OccurredAt)
	}
	if got.Authors != nil {
		t.Errorf("expected nil authors, got %v", got.Authors)
	}
}

func TestDecodeAuthors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []domstory.Authorship
	}{
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "single",
			in:   "mem-1:lead",
			want: []domstory.Authorship{{MemberID: "mem-1", Role: "lead"}},
		},
		{
			name: "skips malformed pairs",
			in:   "mem-1:lead,broken,:orphan,mem-2:contributor",
			want: []domstory.Authorship{
				{MemberID: "mem-1", Role: "lead"},
				{MemberID: "mem-2", Role: "contributor"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeAuthors(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeAuthors(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0, -1, 0.333, 9001}
	got := bytesToVector(vectorToBytes(in))

	if !reflect.DeepEqual(got, in) {
		t.Errorf("vector round trip = %v, want %v", got, in)
	}
}

func TestBytesToVector_RejectsTruncatedBlob(t *testing.T) {
	if got := bytesToVector([]byte{1, 2, 3}); got != nil {
		t.Errorf("expected nil for truncated blob, got %v", got)
	}
}
