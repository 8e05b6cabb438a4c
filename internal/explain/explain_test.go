package explain

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/mentorflow/mentor-match/internal/cohort"
	"github.com/mentorflow/mentor-match/internal/matching"
)

type stubGenerator struct {
	mu         sync.Mutex
	calls      int
	lastPrompt string
	response   string
	err        error
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testOutput() (*cohort.Cohort, *matching.Output) {
	c := &cohort.Cohort{
		ID:      "spring-2026",
		Mentees: []*cohort.MenteeProfile{{ID: "me1", Name: "Ada", Goals: "grow into a lead role"}},
		Mentors: []*cohort.MentorProfile{{ID: "mn1", Name: "Grace", Bio: "led platform teams"}},
	}
	out := &matching.Output{
		Results: []matching.Result{
			{
				MenteeID:   "me1",
				MenteeName: "Ada",
				Recommendations: []matching.Recommendation{
					{
						MentorID:   "mn1",
						MentorName: "Grace",
						Score: matching.MatchScore{
							TotalScore: 87,
							Reasons:    []string{"Strong capability overlap"},
						},
					},
				},
			},
		},
	}
	return c, out
}

func TestGeminiExplainerBuildsPrompt(t *testing.T) {
	stub := &stubGenerator{response: "Ada and Grace both care about growing leaders."}
	explainer := NewGeminiExplainer(stub, zap.NewNop(), 0)

	text, err := explainer.Explain(context.Background(), Request{
		MenteeID:      "me1",
		MenteeName:    "Ada",
		MenteeSummary: "grow into a lead role",
		MentorID:      "mn1",
		MentorName:    "Grace",
		MentorSummary: "led platform teams",
		TotalScore:    87,
		Reasons:       []string{"Strong capability overlap"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if text != "Ada and Grace both care about growing leaders." {
		t.Fatalf("unexpected explanation: %q", text)
	}
	if !strings.Contains(stub.lastPrompt, "Ada — grow into a lead role") {
		t.Fatalf("mentee summary missing from prompt: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "87 out of 100") {
		t.Fatalf("score missing from prompt: %s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "- Strong capability overlap") {
		t.Fatalf("reasons missing from prompt: %s", stub.lastPrompt)
	}
}

func TestAnnotateFillsExplanations(t *testing.T) {
	stub := &stubGenerator{response: "A good pairing."}
	annotator := NewAnnotator(NewGeminiExplainer(stub, zap.NewNop(), 0), zap.NewNop())

	c, out := testOutput()
	annotator.Annotate(context.Background(), c, out)

	if got := out.Results[0].Recommendations[0].Explanation; got != "A good pairing." {
		t.Fatalf("unexpected explanation: %q", got)
	}
}

func TestAnnotateCachesPerPair(t *testing.T) {
	stub := &stubGenerator{response: "A good pairing."}
	annotator := NewAnnotator(NewGeminiExplainer(stub, zap.NewNop(), 0), zap.NewNop())

	c, out := testOutput()
	annotator.Annotate(context.Background(), c, out)

	_, again := testOutput()
	annotator.Annotate(context.Background(), c, again)

	if stub.calls != 1 {
		t.Fatalf("expected one generator call across repeat runs, got %d", stub.calls)
	}
	if got := again.Results[0].Recommendations[0].Explanation; got != "A good pairing." {
		t.Fatalf("cached explanation not applied: %q", got)
	}
}

func TestAnnotateToleratesFailures(t *testing.T) {
	stub := &stubGenerator{err: fmt.Errorf("service down")}
	annotator := NewAnnotator(NewGeminiExplainer(stub, zap.NewNop(), 0), zap.NewNop())

	c, out := testOutput()
	annotator.Annotate(context.Background(), c, out)

	if got := out.Results[0].Recommendations[0].Explanation; got != "" {
		t.Fatalf("failed explanation must stay empty, got %q", got)
	}
}
