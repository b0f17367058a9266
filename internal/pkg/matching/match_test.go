package matching

import (
	"reflect"
	"testing"
)

func TestCalculateMatchScore(t *testing.T) {
	tests := []struct {
		name        string
		content     []string
		channel     []string
		preferred   []string
		excluded    []string
		wantScore   int
		wantReason  Reason
		wantMatched []string
	}{
		{
			name:        "excluded tag rejects",
			content:     []string{"food", "sale"},
			channel:     []string{"food", "sale"},
			preferred:   []string{"food"},
			excluded:    []string{"sale"},
			wantScore:   -100,
			wantReason:  ReasonGeneral,
			wantMatched: []string{},
		},
		{
			name:        "preferred and exact",
			content:     []string{"food"},
			channel:     []string{"food"},
			preferred:   []string{"food"},
			wantScore:   200,
			wantReason:  ReasonExact,
			wantMatched: []string{"food"},
		},
		{
			name:        "no overlap",
			content:     []string{"food"},
			channel:     []string{"tech"},
			wantScore:   0,
			wantReason:  ReasonGeneral,
			wantMatched: []string{},
		},
		{
			name:        "partial with relevance",
			content:     []string{"food", "drink"},
			channel:     []string{"food", "tech", "news", "sport"},
			wantScore:   35, // 30 + 20*(1/4)
			wantReason:  ReasonPartial,
			wantMatched: []string{"food"},
		},
		{
			name:        "preferred keeps label over partial",
			content:     []string{"food", "drink"},
			channel:     []string{"food"},
			preferred:   []string{"drink"},
			wantScore:   100, // 50 + 30 + 20
			wantReason:  ReasonPreferred,
			wantMatched: []string{"food"},
		},
		{
			name:        "preferred only without channel tags",
			content:     []string{"food"},
			preferred:   []string{"food"},
			wantScore:   50,
			wantReason:  ReasonPreferred,
			wantMatched: []string{},
		},
		{
			name:        "relevance rounds",
			content:     []string{"a", "b", "x"},
			channel:     []string{"a", "b", "c"},
			wantScore:   73, // 60 + 13.33
			wantReason:  ReasonPartial,
			wantMatched: []string{"a", "b"},
		},
		{
			name:        "empty content tags",
			content:     nil,
			channel:     []string{"food"},
			wantScore:   0,
			wantReason:  ReasonGeneral,
			wantMatched: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateMatchScore(tt.content, tt.channel, tt.preferred, tt.excluded)
			if got.Score != tt.wantScore {
				t.Fatalf("score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Reason != tt.wantReason {
				t.Fatalf("reason = %s, want %s", got.Reason, tt.wantReason)
			}
			if !reflect.DeepEqual(got.MatchedTags, tt.wantMatched) {
				t.Fatalf("matched = %v, want %v", got.MatchedTags, tt.wantMatched)
			}
		})
	}
}

func TestExcludedAlwaysNegative(t *testing.T) {
	content := []string{"a", "b", "c"}
	for _, excl := range content {
		got := CalculateMatchScore(content, content, content, []string{excl})
		if got.Score != ExcludedScore {
			t.Fatalf("excluded %q: score = %d, want %d", excl, got.Score, ExcludedScore)
		}
	}
}

func TestExactWhenAllContentTagsMatched(t *testing.T) {
	got := CalculateMatchScore([]string{"a", "b"}, []string{"b", "a", "c"}, nil, nil)
	if got.Reason != ReasonExact {
		t.Fatalf("reason = %s, want exact", got.Reason)
	}
	// 60 + 100 + 20*(2/3)
	if got.Score != 173 {
		t.Fatalf("score = %d, want 173", got.Score)
	}
}
