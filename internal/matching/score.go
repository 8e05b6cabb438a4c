package matching

import "fmt"

// MatchScore is the weighted total for one pair together with the features it
// derives from and advisory, human-readable reasons.
type MatchScore struct {
	TotalScore float64  `json:"total_score"`
	Features   Features `json:"features"`
	Reasons    []string `json:"reasons"`
}

// Weight profiles. These are user-facing configuration defaults surfaced on
// the admin dashboard, not incidental constants; both profiles sum to 100
// before the capacity penalty is subtracted.
type weightProfile struct {
	capability float64
	semantic   float64
	domain     float64
	industry   float64
	seniority  float64
	tz         float64
	language   float64
	capacity   float64
}

// The industry and language terms always contribute their full weight; they
// predate per-feature scoring and are kept so historical scores stay
// comparable. Both profiles sum to 100 before the capacity penalty.
var capabilityWeights = weightProfile{
	capability: 45,
	semantic:   30,
	domain:     5,
	seniority:  10,
	tz:         5,
	language:   5,
	capacity:   10,
}

var legacyWeights = weightProfile{
	capability: 45,
	semantic:   20,
	industry:   15,
	seniority:  10,
	tz:         5,
	language:   5,
	capacity:   10,
}

const maxTotalScore = 100

// scoreFeatures combines features into a 0-100 total using the weight profile
// selected by the pair's schema.
func scoreFeatures(f Features, schema pairSchema) MatchScore {
	w := capabilityWeights
	if schema == schemaLegacy {
		w = legacyWeights
	}

	total := w.capability*f.CapabilityMatch +
		w.semantic*f.SemanticSimilarity +
		w.domain*f.DomainMatch +
		w.industry +
		w.seniority*f.RoleSeniorityFit +
		w.tz*f.TzOverlapBonus +
		w.language -
		w.capacity*f.CapacityPenalty

	if total < 0 {
		total = 0
	}
	if total > maxTotalScore {
		total = maxTotalScore
	}

	return MatchScore{
		TotalScore: total,
		Features:   f,
		Reasons:    reasons(f, schema),
	}
}

// reasons thresholds each feature into short strings shown on the review
// screen. Purely advisory; order is fixed so output stays deterministic.
func reasons(f Features, schema pairSchema) []string {
	out := make([]string, 0, 6)

	overlapLabel := "capability"
	if schema == schemaLegacy {
		overlapLabel = "topic"
	}

	switch {
	case f.CapabilityMatch >= 0.7:
		out = append(out, fmt.Sprintf("Strong %s overlap", overlapLabel))
	case f.CapabilityMatch >= 0.4:
		out = append(out, fmt.Sprintf("Related %s focus (same theme)", overlapLabel))
	}

	switch {
	case f.SemanticSimilarity >= 0.75:
		out = append(out, "Goals and mentoring focus align closely")
	case f.SemanticSimilarity >= 0.5:
		out = append(out, "Goals broadly align with mentoring focus")
	}

	if f.DomainMatch >= 0.5 {
		out = append(out, "Shared focus in capability details")
	}

	switch {
	case f.RoleSeniorityFit >= 1:
		out = append(out, "Mentor is at least as senior")
	case f.RoleSeniorityFit >= 0.5:
		out = append(out, "Mentor is close in seniority")
	}

	if f.TzOverlapBonus >= 1 {
		out = append(out, "Timezones within 2 hours")
	}

	if f.CapacityPenalty > 0 {
		out = append(out, "Mentor is at their last open slot")
	}

	return out
}

// lessCandidates is the documented tie-break order for candidates with equal
// totals: higher capability overlap, then higher semantic similarity, then
// more remaining capacity, then mentor name ascending as the final
// deterministic step.
func lessCandidates(a, b candidate) bool {
	if a.score.TotalScore != b.score.TotalScore {
		return a.score.TotalScore > b.score.TotalScore
	}
	if a.score.Features.CapabilityMatch != b.score.Features.CapabilityMatch {
		return a.score.Features.CapabilityMatch > b.score.Features.CapabilityMatch
	}
	if a.score.Features.SemanticSimilarity != b.score.Features.SemanticSimilarity {
		return a.score.Features.SemanticSimilarity > b.score.Features.SemanticSimilarity
	}
	if a.mentor.CapacityRemaining != b.mentor.CapacityRemaining {
		return a.mentor.CapacityRemaining > b.mentor.CapacityRemaining
	}
	if a.mentor.Name != b.mentor.Name {
		return a.mentor.Name < b.mentor.Name
	}
	return a.mentor.ID < b.mentor.ID
}
