// Package matching implements the mentor-mentee matching pipeline: the hard
// eligibility filter, per-pair feature scoring, weighted totals with a
// documented tie-break order, and the batch / top-3 orchestration over a
// cohort. The pipeline is deterministic: identical inputs produce identical
// output, with no randomness anywhere.
package matching

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mentorflow/mentor-match/internal/capability"
	"github.com/mentorflow/mentor-match/internal/cohort"
)

const topRecommendations = 3

// SimilarityFn supplies the semantic similarity for one pair, typically a
// cosine over cached embedding vectors or the keyword fallback. A nil
// function scores the semantic dimension as 0.
type SimilarityFn func(mentee *cohort.MenteeProfile, mentor *cohort.MentorProfile) float64

// Engine runs matching over one cohort. It holds no state between runs;
// in-run capacity counters are local to a single Run call.
type Engine struct {
	scorer     *FeatureScorer
	similarity SimilarityFn
	logger     *zap.Logger
	now        func() time.Time
	newRunID   func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithSimilarity sets the semantic similarity source.
func WithSimilarity(fn SimilarityFn) Option {
	return func(e *Engine) { e.similarity = fn }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the timestamp source, for tests that need reproducible
// output metadata.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRunID overrides run id generation.
func WithRunID(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newRunID = fn
		}
	}
}

// NewEngine creates an engine scoring against the given capability
// vocabulary.
func NewEngine(clusters *capability.Index, opts ...Option) *Engine {
	e := &Engine{
		scorer:   NewFeatureScorer(clusters),
		logger:   zap.NewNop(),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type candidate struct {
	mentor *cohort.MentorProfile
	score  MatchScore
}

// Run matches every mentee in the cohort against the hard-filter-eligible
// mentors and returns the full result set. Empty populations and mentees with
// no eligible mentor are normal empty-result outcomes, not errors; Run fails
// only on malformed input.
func (e *Engine) Run(c *cohort.Cohort, filters Filters, mode Mode) (*Output, error) {
	if c == nil {
		return nil, fmt.Errorf("cohort is required")
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cohort: %w", err)
	}

	out := &Output{
		RunID:     e.newRunID(),
		Mode:      mode,
		Timestamp: e.now().UTC(),
		Results:   make([]Result, 0, len(c.Mentees)),
	}
	out.Stats.Mentees = len(c.Mentees)
	out.Stats.Mentors = len(c.Mentors)

	// Capacity counters scoped to this run. Batch assignments drain them;
	// the caller's source-of-truth values are never touched.
	remaining := make(map[string]int, len(c.Mentors))
	for _, mentor := range c.Mentors {
		remaining[mentor.ID] = mentor.CapacityRemaining
	}

	var scoreSum float64
	var scored int

	for _, mentee := range c.Mentees {
		candidates := e.rankCandidates(mentee, c.Mentors, filters)
		out.Stats.EligiblePairs += len(candidates)

		result := Result{
			MenteeID:        mentee.ID,
			MenteeName:      mentee.Name,
			Recommendations: make([]Recommendation, 0, topRecommendations),
		}

		for i, cand := range candidates {
			if i == topRecommendations {
				break
			}
			result.Recommendations = append(result.Recommendations, Recommendation{
				MentorID:   cand.mentor.ID,
				MentorName: cand.mentor.Name,
				Score:      cand.score,
			})
		}

		if len(candidates) > 0 {
			scoreSum += candidates[0].score.TotalScore
			scored++
		}

		if mode == ModeBatch {
			if assigned := assignFirstAvailable(candidates, remaining); assigned != nil {
				result.ProposedAssignment = &Assignment{
					MentorID:   assigned.ID,
					MentorName: assigned.Name,
				}
				out.Stats.Matched++
			} else {
				out.Stats.Unmatched++
				e.logger.Debug("mentee left unassigned",
					zap.String("mentee_id", mentee.ID),
					zap.Int("candidates", len(candidates)),
				)
			}
		}

		out.Results = append(out.Results, result)
	}

	if scored > 0 {
		out.Stats.AverageScore = math.Round(scoreSum/float64(scored)*100) / 100
	}

	e.logger.Info("matching run completed",
		zap.String("run_id", out.RunID),
		zap.String("mode", string(mode)),
		zap.Int("mentees", out.Stats.Mentees),
		zap.Int("mentors", out.Stats.Mentors),
		zap.Int("matched", out.Stats.Matched),
		zap.Int("unmatched", out.Stats.Unmatched),
	)

	return out, nil
}

// rankCandidates filters, scores and sorts all mentors for one mentee.
// Sorting applies the documented tie-break order, which is a total order, so
// the result is fully deterministic.
func (e *Engine) rankCandidates(mentee *cohort.MenteeProfile, mentors []*cohort.MentorProfile, filters Filters) []candidate {
	candidates := make([]candidate, 0, len(mentors))

	for _, mentor := range mentors {
		if !Eligible(mentee, mentor, filters) {
			continue
		}

		var semantic float64
		if e.similarity != nil {
			semantic = e.similarity(mentee, mentor)
		}

		features, schema := e.scorer.scorePair(mentee, mentor, semantic)
		candidates = append(candidates, candidate{
			mentor: mentor,
			score:  scoreFeatures(features, schema),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return lessCandidates(candidates[i], candidates[j])
	})

	return candidates
}

// assignFirstAvailable walks the ranked candidates and takes the best mentor
// whose in-run capacity has not been exhausted by earlier assignments.
func assignFirstAvailable(candidates []candidate, remaining map[string]int) *cohort.MentorProfile {
	for _, cand := range candidates {
		if remaining[cand.mentor.ID] > 0 {
			remaining[cand.mentor.ID]--
			return cand.mentor
		}
	}
	return nil
}
