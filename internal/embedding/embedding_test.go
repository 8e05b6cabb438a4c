package embedding

import (
	"context"
	"fmt"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/mentorflow/mentor-match/internal/cohort"
)

type stubEmbedder struct {
	calls      int
	batchSizes []int
	err        error
}

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float64, error) {
	s.calls++
	s.batchSizes = append(s.batchSizes, len(texts))
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		// deterministic fake vector derived from the text length
		out[i] = []float64{float64(len(text)), 1}
	}
	return out, nil
}

func TestCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{"identical direction", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"length mismatch degrades to zero", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"zero norm degrades to zero", []float64{0, 0}, []float64{1, 2}, 0},
		{"empty input", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeywordSimilarity(t *testing.T) {
	t.Parallel()

	if got := KeywordSimilarity("", "anything"); got != 0 {
		t.Fatalf("empty keywords should score 0, got %v", got)
	}
	if got := KeywordSimilarity("completely different", "nothing shared here"); got != 0 {
		t.Fatalf("disjoint texts should score 0, got %v", got)
	}

	same := KeywordSimilarity("public speaking coaching", "public speaking coaching")
	if same <= 0.9 || same > 1 {
		t.Fatalf("identical texts should score near 1, got %v", same)
	}

	partial := KeywordSimilarity("grow public speaking skills", "mentoring on public speaking")
	if partial <= 0 || partial >= same {
		t.Fatalf("partial overlap should land between 0 and full overlap, got %v", partial)
	}
}

func TestTokenizeDropsNoiseAndLowercases(t *testing.T) {
	got := Tokenize("Go, K8s & a B2B-platform!")
	want := []string{"go", "k8s", "b2b-platform"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
}

func TestSimilarityFnUsesCachedVectors(t *testing.T) {
	stub := &stubEmbedder{}
	service := NewService(stub, zap.NewNop())

	c := &cohort.Cohort{
		ID:      "spring-2026",
		Mentees: []*cohort.MenteeProfile{{ID: "me1", Goals: "learn public speaking"}},
		Mentors: []*cohort.MentorProfile{{ID: "mn1", Bio: "public speaking mentor"}},
	}

	if _, err := service.SimilarityFn(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one embed call, got %d", stub.calls)
	}

	// A repeat run over the same cohort hits the cache only.
	if _, err := service.SimilarityFn(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("repeat run should not re-embed, got %d calls", stub.calls)
	}
}

func TestVectorsBatchesLargeCohorts(t *testing.T) {
	stub := &stubEmbedder{}
	service := NewService(stub, zap.NewNop())

	c := &cohort.Cohort{ID: "big"}
	for i := 0; i < 130; i++ {
		c.Mentees = append(c.Mentees, &cohort.MenteeProfile{
			ID:    fmt.Sprintf("me%d", i),
			Goals: fmt.Sprintf("goal %d", i),
		})
	}

	if _, err := service.SimilarityFn(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 2 {
		t.Fatalf("expected 2 batches for 130 texts, got %d", stub.calls)
	}
	if stub.batchSizes[0] != 100 || stub.batchSizes[1] != 30 {
		t.Fatalf("unexpected batch sizes: %v", stub.batchSizes)
	}
}

func TestSimilarityFnPropagatesEmbedderFailure(t *testing.T) {
	stub := &stubEmbedder{err: fmt.Errorf("service down")}
	service := NewService(stub, zap.NewNop())

	c := &cohort.Cohort{
		ID:      "spring-2026",
		Mentees: []*cohort.MenteeProfile{{ID: "me1", Goals: "goals"}},
	}

	if _, err := service.SimilarityFn(context.Background(), c); err == nil {
		t.Fatalf("expected error so the caller can fall back to keyword similarity")
	}
}

func TestKeywordFallbackComparesProfiles(t *testing.T) {
	fn := KeywordFallback()

	mentee := &cohort.MenteeProfile{ID: "me1", Goals: "improve public speaking"}
	mentor := &cohort.MentorProfile{ID: "mn1", Bio: "coaching public speaking for engineers"}
	stranger := &cohort.MentorProfile{ID: "mn2", Bio: "quarterly tax planning"}

	if fn(mentee, mentor) <= fn(mentee, stranger) {
		t.Fatalf("related profiles must out-score unrelated ones")
	}
}
