package matching

import (
	"testing"

	"github.com/mentorflow/mentor-match/internal/capability"
	"github.com/mentorflow/mentor-match/internal/cohort"
)

func newTestScorer() *FeatureScorer {
	return NewFeatureScorer(capability.NewIndex())
}

func TestCapabilityMatchTiers(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer()

	tests := []struct {
		name   string
		mentee *cohort.MenteeProfile
		mentor *cohort.MentorProfile
		want   float64
	}{
		{
			name:   "primary exact against mentor primary",
			mentee: &cohort.MenteeProfile{ID: "me", PrimaryCapability: "Empathy"},
			mentor: &cohort.MentorProfile{ID: "mn", PrimaryCapability: "Empathy"},
			want:   1.0,
		},
		{
			name:   "primary exact against mentor secondary",
			mentee: &cohort.MenteeProfile{ID: "me", PrimaryCapability: "Empathy"},
			mentor: &cohort.MentorProfile{ID: "mn", PrimaryCapability: "Networking", SecondaryCapabilities: []string{"Empathy"}},
			want:   1.0,
		},
		{
			name:   "mentee secondary exact is the cross-positional tier",
			mentee: &cohort.MenteeProfile{ID: "me", PrimaryCapability: "Empathy", SecondaryCapability: "Networking"},
			mentor: &cohort.MentorProfile{ID: "mn", PrimaryCapability: "Networking"},
			want:   0.7,
		},
		{
			name:   "same cluster primary pairing",
			mentee: &cohort.MenteeProfile{ID: "me", PrimaryCapability: "Empathy"},
			mentor: &cohort.MentorProfile{ID: "mn", PrimaryCapability: "Emotional Intelligence"},
			want:   0.55,
		},
		{
			name:   "same cluster at secondary level",
			mentee: &cohort.MenteeProfile{ID: "me", PrimaryCapability: "Empathy"},
			mentor: &cohort.MentorProfile{ID: "mn", PrimaryCapability: "Public Speaking", SecondaryCapabilities: []string{"Giving Feedback"}},
			want:   0.4,
		},
		{
			name:   "no relation at all",
			mentee: &cohort.MenteeProfile{ID: "me", PrimaryCapability: "Empathy"},
			mentor: &cohort.MentorProfile{ID: "mn", PrimaryCapability: "Strategic Thinking"},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := scorer.Score(tt.mentee, tt.mentor, 0)
			if got.CapabilityMatch != tt.want {
				t.Fatalf("CapabilityMatch = %v, want %v", got.CapabilityMatch, tt.want)
			}
		})
	}
}

func TestLegacyTopicsJaccard(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer()

	mentee := &cohort.MenteeProfile{ID: "me", TopicsToLearn: []string{"Go", "Kubernetes"}}
	mentor := &cohort.MentorProfile{ID: "mn", TopicsToMentor: []string{"go", "Terraform"}}

	got := scorer.Score(mentee, mentor, 0)
	want := 1.0 / 3.0
	if got.CapabilityMatch != want {
		t.Fatalf("legacy CapabilityMatch = %v, want %v", got.CapabilityMatch, want)
	}
	if got.DomainMatch != 0 {
		t.Fatalf("DomainMatch must be 0 for legacy pairs, got %v", got.DomainMatch)
	}
}

func TestLegacyEmptyTopicsScoreZero(t *testing.T) {
	scorer := newTestScorer()

	got := scorer.Score(&cohort.MenteeProfile{ID: "me"}, &cohort.MentorProfile{ID: "mn", TopicsToMentor: []string{"go"}}, 0)
	if got.CapabilityMatch != 0 {
		t.Fatalf("expected 0 overlap for empty topic set, got %v", got.CapabilityMatch)
	}
}

func TestMixedSchemaPairFallsBackToLegacy(t *testing.T) {
	scorer := newTestScorer()

	// Mentee on the new survey, mentor on legacy topics: capabilities double
	// as topic tags so the pair still scores.
	mentee := &cohort.MenteeProfile{ID: "me", PrimaryCapability: "Networking"}
	mentor := &cohort.MentorProfile{ID: "mn", TopicsToMentor: []string{"networking"}}

	got := scorer.Score(mentee, mentor, 0)
	if got.CapabilityMatch != 1.0 {
		t.Fatalf("expected full topic overlap, got %v", got.CapabilityMatch)
	}
}

func TestRoleSeniorityFit(t *testing.T) {
	t.Parallel()

	scorer := newTestScorer()

	tests := []struct {
		name          string
		menteeYears   int
		mentorYears   int
		wantSeniorFit float64
	}{
		{"mentor more senior", 1, 8, 1.0},
		{"equal band", 4, 5, 1.0},
		{"one band below", 8, 4, 0.5},
		{"two bands below", 12, 4, 0.25},
		{"three bands below", 12, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mentee := &cohort.MenteeProfile{ID: "me", ExperienceYears: tt.menteeYears}
			mentor := &cohort.MentorProfile{ID: "mn", ExperienceYears: tt.mentorYears}
			got := scorer.Score(mentee, mentor, 0)
			if got.RoleSeniorityFit != tt.wantSeniorFit {
				t.Fatalf("RoleSeniorityFit = %v, want %v", got.RoleSeniorityFit, tt.wantSeniorFit)
			}
		})
	}
}

func TestTimezoneBonusAndCapacityPenalty(t *testing.T) {
	scorer := newTestScorer()

	mentee := &cohort.MenteeProfile{ID: "me", Timezone: "Europe – Central European Time (CET)"}

	near := &cohort.MentorProfile{ID: "mn1", Timezone: "UK & Ireland (GMT/BST)", CapacityRemaining: 1}
	far := &cohort.MentorProfile{ID: "mn2", Timezone: "US – Pacific Time (PST)", CapacityRemaining: 3}

	fNear := scorer.Score(mentee, near, 0)
	if fNear.TzOverlapBonus != 1 {
		t.Fatalf("expected tz bonus for 1h distance, got %v", fNear.TzOverlapBonus)
	}
	if fNear.CapacityPenalty != 0.1 {
		t.Fatalf("expected last-slot penalty 0.1, got %v", fNear.CapacityPenalty)
	}

	fFar := scorer.Score(mentee, far, 0)
	if fFar.TzOverlapBonus != 0 {
		t.Fatalf("expected no tz bonus for 9h distance, got %v", fFar.TzOverlapBonus)
	}
	if fFar.CapacityPenalty != 0 {
		t.Fatalf("expected no capacity penalty, got %v", fFar.CapacityPenalty)
	}
}

func TestSemanticSimilarityClamped(t *testing.T) {
	scorer := newTestScorer()

	mentee := &cohort.MenteeProfile{ID: "me"}
	mentor := &cohort.MentorProfile{ID: "mn"}

	if got := scorer.Score(mentee, mentor, 1.7).SemanticSimilarity; got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
	if got := scorer.Score(mentee, mentor, -0.3).SemanticSimilarity; got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
}

func TestAllSixFeaturesPopulatedForBothSchemas(t *testing.T) {
	scorer := newTestScorer()

	pairs := []struct {
		name   string
		mentee *cohort.MenteeProfile
		mentor *cohort.MentorProfile
	}{
		{
			name:   "capability schema",
			mentee: &cohort.MenteeProfile{ID: "me", PrimaryCapability: "Empathy"},
			mentor: &cohort.MentorProfile{ID: "mn", PrimaryCapability: "Empathy", CapacityRemaining: 2},
		},
		{
			name:   "legacy schema",
			mentee: &cohort.MenteeProfile{ID: "me", TopicsToLearn: []string{"go"}},
			mentor: &cohort.MentorProfile{ID: "mn", TopicsToMentor: []string{"go"}, CapacityRemaining: 2},
		},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			f := scorer.Score(tt.mentee, tt.mentor, 0.5)
			for name, v := range map[string]float64{
				"capability_match":    f.CapabilityMatch,
				"domain_match":        f.DomainMatch,
				"role_seniority_fit":  f.RoleSeniorityFit,
				"semantic_similarity": f.SemanticSimilarity,
				"tz_overlap_bonus":    f.TzOverlapBonus,
				"capacity_penalty":    f.CapacityPenalty,
			} {
				if v < 0 || v > 1 {
					t.Fatalf("feature %s = %v out of [0,1]", name, v)
				}
			}
		})
	}
}
