package embedding

import (
	"math"
	"strings"

	"github.com/mentorflow/mentor-match/internal/cohort"
	"github.com/mentorflow/mentor-match/internal/matching"
)

// KeywordSimilarity is the degraded similarity used when no embedding vectors
// are available: a blend of exact-word Jaccard overlap and keyword coverage
// with partial credit for substring matches.
func KeywordSimilarity(a, b string) float64 {
	keywords := Tokenize(a)
	if len(keywords) == 0 {
		return 0
	}

	target := strings.ToLower(b)
	targetWords := Tokenize(target)
	targetSet := make(map[string]bool, len(targetWords))
	for _, w := range targetWords {
		targetSet[w] = true
	}

	var matched int
	var weighted float64
	for _, kw := range keywords {
		switch {
		case targetSet[kw]:
			matched++
			weighted += 1.0
		case strings.Contains(target, kw):
			matched++
			weighted += 0.7 // partial substring match
		}
	}

	if matched == 0 {
		return 0
	}

	overlap := float64(matched)
	union := float64(len(keywords) + len(targetSet) - matched)
	jaccard := overlap / math.Max(union, 1)
	coverage := weighted / float64(len(keywords))

	score := 0.4*jaccard + 0.6*coverage
	if score > 1 {
		score = 1
	}
	return score
}

// Tokenize splits text into lowercase word tokens, dropping single characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '_' || r == '-' ||
			r > 127)
	})
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.ToLower(f)
		if len(w) > 1 {
			result = append(result, w)
		}
	}
	return result
}

// KeywordFallback builds a SimilarityFn over profile texts alone, for runs
// where the embedding collaborator is disabled or unavailable.
func KeywordFallback() matching.SimilarityFn {
	return func(mentee *cohort.MenteeProfile, mentor *cohort.MentorProfile) float64 {
		return KeywordSimilarity(mentee.GoalText(), mentor.OfferingText())
	}
}
