// Package embedding supplies the semantic-similarity side of matching:
// profile texts are turned into vectors by an external embedding collaborator
// and compared by cosine similarity, with a keyword-overlap fallback when the
// collaborator is unavailable. Vectors are cached per cohort and participant
// so repeat runs never re-issue identical external calls.
package embedding

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mentorflow/mentor-match/internal/cohort"
	"github.com/mentorflow/mentor-match/internal/matching"
)

// maxBatchSize caps how many texts go into a single external request.
const maxBatchSize = 100

// Embedder is the external collaborator turning texts into fixed-length
// vectors, one per input text in order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}

// Service caches vectors and builds similarity functions for matching runs.
type Service struct {
	embedder Embedder
	logger   *zap.Logger

	mu    sync.RWMutex
	cache map[string][]float64
}

// NewService wraps an embedder with a process-wide vector cache.
func NewService(embedder Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		embedder: embedder,
		logger:   logger,
		cache:    make(map[string][]float64),
	}
}

// SimilarityFn embeds every participant's profile text (cache misses only,
// batched) and returns a cosine-similarity function over the resulting
// vectors. An error here means the caller should degrade to KeywordFallback
// rather than fail the run.
func (s *Service) SimilarityFn(ctx context.Context, c *cohort.Cohort) (matching.SimilarityFn, error) {
	ids := make([]string, 0, len(c.Mentees)+len(c.Mentors))
	texts := make([]string, 0, cap(ids))

	for _, m := range c.Mentees {
		ids = append(ids, participantKey(c.ID, "mentee", m.ID))
		texts = append(texts, m.GoalText())
	}
	for _, m := range c.Mentors {
		ids = append(ids, participantKey(c.ID, "mentor", m.ID))
		texts = append(texts, m.OfferingText())
	}

	vectors, err := s.vectors(ctx, ids, texts)
	if err != nil {
		return nil, err
	}

	cohortID := c.ID
	return func(mentee *cohort.MenteeProfile, mentor *cohort.MentorProfile) float64 {
		a := vectors[participantKey(cohortID, "mentee", mentee.ID)]
		b := vectors[participantKey(cohortID, "mentor", mentor.ID)]
		return Cosine(a, b)
	}, nil
}

// vectors resolves one vector per id, reusing cached entries and embedding
// the rest in batches of at most maxBatchSize texts.
func (s *Service) vectors(ctx context.Context, ids, texts []string) (map[string][]float64, error) {
	out := make(map[string][]float64, len(ids))

	missingIDs := make([]string, 0, len(ids))
	missingTexts := make([]string, 0, len(ids))

	s.mu.RLock()
	for i, id := range ids {
		if vec, ok := s.cache[id]; ok {
			out[id] = vec
			continue
		}
		missingIDs = append(missingIDs, id)
		missingTexts = append(missingTexts, texts[i])
	}
	s.mu.RUnlock()

	if len(missingIDs) == 0 {
		return out, nil
	}

	s.logger.Debug("embedding cache misses",
		zap.Int("cached", len(out)),
		zap.Int("missing", len(missingIDs)),
	)

	for start := 0; start < len(missingIDs); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(missingIDs) {
			end = len(missingIDs)
		}

		batch, err := s.embedder.EmbedTexts(ctx, missingTexts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch of %d texts: %w", end-start, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(batch), end-start)
		}

		s.mu.Lock()
		for i, vec := range batch {
			id := missingIDs[start+i]
			s.cache[id] = vec
			out[id] = vec
		}
		s.mu.Unlock()
	}

	return out, nil
}

func participantKey(cohortID, kind, id string) string {
	return cohortID + "/" + kind + "/" + id
}
