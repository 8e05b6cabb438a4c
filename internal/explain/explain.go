// Package explain produces short natural-language explanations for proposed
// matches via an external text-generation collaborator. Explanations are
// strictly cosmetic: a missing or failed explanation never blocks a match.
package explain

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mentorflow/mentor-match/internal/cohort"
	"github.com/mentorflow/mentor-match/internal/matching"
)

// maxConcurrentRequests bounds in-flight explanation calls.
const maxConcurrentRequests = 3

// Request carries everything the collaborator needs to phrase one match.
type Request struct {
	CohortID      string
	MenteeID      string
	MenteeName    string
	MenteeSummary string
	MentorID      string
	MentorName    string
	MentorSummary string
	TotalScore    float64
	Reasons       []string
}

// Explainer is the external collaborator contract.
type Explainer interface {
	Explain(ctx context.Context, req Request) (string, error)
}

// Annotator fills explanation strings on a matching output, caching results
// per (cohort, mentee, mentor) so repeat runs reuse earlier answers.
type Annotator struct {
	explainer Explainer
	logger    *zap.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewAnnotator wraps an explainer with a cache and a logger.
func NewAnnotator(explainer Explainer, logger *zap.Logger) *Annotator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Annotator{
		explainer: explainer,
		logger:    logger,
		cache:     make(map[string]string),
	}
}

// Annotate requests an explanation for every recommendation in the output,
// running at most maxConcurrentRequests calls at a time. Failures are logged
// and leave the recommendation without an explanation.
func (a *Annotator) Annotate(ctx context.Context, c *cohort.Cohort, out *matching.Output) {
	if a == nil || a.explainer == nil || out == nil {
		return
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentRequests)

	for i := range out.Results {
		result := &out.Results[i]
		mentee := findMentee(c, result.MenteeID)

		for j := range result.Recommendations {
			rec := &result.Recommendations[j]

			key := pairKey(c.ID, result.MenteeID, rec.MentorID)
			if cached, ok := a.cached(key); ok {
				rec.Explanation = cached
				continue
			}

			wg.Add(1)
			go func(rec *matching.Recommendation, mentee *cohort.MenteeProfile, menteeID, key string) {
				defer wg.Done()

				sem <- struct{}{}
				defer func() { <-sem }()

				req := Request{
					CohortID:   c.ID,
					MenteeID:   menteeID,
					MentorID:   rec.MentorID,
					MentorName: rec.MentorName,
					TotalScore: rec.Score.TotalScore,
					Reasons:    rec.Score.Reasons,
				}
				if mentee != nil {
					req.MenteeName = mentee.Name
					req.MenteeSummary = mentee.GoalText()
				}
				if mentor := c.FindMentor(rec.MentorID); mentor != nil {
					req.MentorSummary = mentor.OfferingText()
				}

				text, err := a.explainer.Explain(ctx, req)
				if err != nil {
					a.logger.Warn("explanation request failed",
						zap.String("mentee_id", menteeID),
						zap.String("mentor_id", rec.MentorID),
						zap.Error(err),
					)
					return
				}

				rec.Explanation = text
				a.store(key, text)
			}(rec, mentee, result.MenteeID, key)
		}
	}

	wg.Wait()
}

func (a *Annotator) cached(key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	text, ok := a.cache[key]
	return text, ok
}

func (a *Annotator) store(key, text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache[key] = text
}

func pairKey(cohortID, menteeID, mentorID string) string {
	return cohortID + "/" + menteeID + "/" + mentorID
}

func findMentee(c *cohort.Cohort, id string) *cohort.MenteeProfile {
	for _, m := range c.Mentees {
		if m.ID == id {
			return m
		}
	}
	return nil
}
