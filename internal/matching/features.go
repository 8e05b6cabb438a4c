package matching

import (
	"strings"

	"github.com/mentorflow/mentor-match/internal/capability"
	"github.com/mentorflow/mentor-match/internal/cohort"
	"github.com/mentorflow/mentor-match/internal/timezone"
)

// Features holds one scalar per matching dimension for a single ordered
// (mentee, mentor) pair. All values live in [0,1]; CapacityPenalty is a
// positive magnitude in [0,0.1] subtracted at scoring time. Features are
// recomputed on every run and never persisted on their own.
type Features struct {
	CapabilityMatch    float64 `json:"capability_match"`
	DomainMatch        float64 `json:"domain_match"`
	RoleSeniorityFit   float64 `json:"role_seniority_fit"`
	SemanticSimilarity float64 `json:"semantic_similarity"`
	TzOverlapBonus     float64 `json:"tz_overlap_bonus"`
	CapacityPenalty    float64 `json:"capacity_penalty"`
}

// Capability match tiers. The exact values are user-facing: admins see them
// reflected in score breakdowns on the review screen.
const (
	tierPrimaryExact     = 1.0
	tierSecondaryExact   = 0.7
	tierPrimaryCluster   = 0.55
	tierSecondaryCluster = 0.4
)

const (
	tzBonusMaxDistanceHours = 2
	lastSlotPenalty         = 0.1
)

// FeatureScorer computes Features for a pair. The cluster index is injected
// so tests can run against alternate vocabularies.
type FeatureScorer struct {
	clusters *capability.Index
}

// NewFeatureScorer creates a scorer over the given capability vocabulary.
func NewFeatureScorer(clusters *capability.Index) *FeatureScorer {
	return &FeatureScorer{clusters: clusters}
}

// Score computes all six features for one pair. The semantic similarity is
// supplied by the orchestration layer (embedding vectors or the keyword
// fallback); the scorer only clamps it.
func (s *FeatureScorer) Score(mentee *cohort.MenteeProfile, mentor *cohort.MentorProfile, semantic float64) Features {
	features, _ := s.scorePair(mentee, mentor, semantic)
	return features
}

func (s *FeatureScorer) scorePair(mentee *cohort.MenteeProfile, mentor *cohort.MentorProfile, semantic float64) (Features, pairSchema) {
	in := normalizeMentee(mentee)
	out := normalizeMentor(mentor)
	return s.score(in, out, semantic), in.pairSchema(out)
}

func (s *FeatureScorer) score(mentee menteeInput, mentor mentorInput, semantic float64) Features {
	f := Features{
		RoleSeniorityFit:   seniorityFit(mentee.band, mentor.band),
		SemanticSimilarity: clamp01(semantic),
	}

	if mentee.pairSchema(mentor) == schemaCapability {
		f.CapabilityMatch = s.capabilityMatch(mentee.desired, mentor.offered)
		f.DomainMatch = clamp01(tokenJaccard(mentee.detail, mentor.detail))
	} else {
		f.CapabilityMatch = clamp01(setJaccard(mentee.topics, mentor.topics))
	}

	if timezone.DistanceHours(mentee.timezone, mentor.timezone) <= tzBonusMaxDistanceHours {
		f.TzOverlapBonus = 1
	}

	if mentor.capacity == 1 {
		f.CapacityPenalty = lastSlotPenalty
	}

	return f
}

// capabilityMatch walks the tiers from strongest to weakest and returns the
// first that holds. desired and offered are in priority order, primary first.
func (s *FeatureScorer) capabilityMatch(desired, offered []string) float64 {
	if len(desired) == 0 || len(offered) == 0 {
		return 0
	}

	if containsFold(offered, desired[0]) {
		return tierPrimaryExact
	}

	for _, d := range desired[1:] {
		if containsFold(offered, d) {
			return tierSecondaryExact
		}
	}

	if s.clusters.SameCluster(desired[0], offered[0]) {
		return tierPrimaryCluster
	}

	for _, d := range desired {
		for _, o := range offered {
			if s.clusters.SameCluster(d, o) {
				return tierSecondaryCluster
			}
		}
	}

	return 0
}

func seniorityFit(menteeBand, mentorBand int) float64 {
	switch gap := menteeBand - mentorBand; {
	case gap <= 0:
		return 1
	case gap == 1:
		return 0.5
	case gap == 2:
		return 0.25
	default:
		return 0
	}
}

func setJaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for v := range a {
		if _, ok := b[v]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func tokenJaccard(a, b []string) float64 {
	return setJaccard(toSet(a), toSet(b))
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
