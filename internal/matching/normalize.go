package matching

import (
	"strings"

	"github.com/mentorflow/mentor-match/internal/cohort"
)

// pairSchema selects which weight profile and capability algorithm a scored
// pair uses. Capability mode requires both sides to carry the current survey
// schema; everything else falls back to legacy topic matching so that mixed
// cohorts still score every pair.
type pairSchema int

const (
	schemaLegacy pairSchema = iota
	schemaCapability
)

// menteeInput is the canonical feature-input record produced from a profile
// before any scoring happens. Normalizing up front keeps the scorer free of
// schema branches.
type menteeInput struct {
	id        string
	name      string
	desired   []string
	topics    map[string]struct{}
	detail    []string
	band      int
	timezone  string
	scenarios []string
	industry  string
	schema    bool
}

type mentorInput struct {
	id       string
	name     string
	offered  []string
	topics   map[string]struct{}
	detail   []string
	band     int
	timezone string
	capacity int
	industry string
	schema   bool
}

func normalizeMentee(m *cohort.MenteeProfile) menteeInput {
	topics := m.TopicsToLearn
	if len(topics) == 0 {
		topics = m.DesiredCapabilities()
	}
	return menteeInput{
		id:        m.ID,
		name:      m.Name,
		desired:   m.DesiredCapabilities(),
		topics:    toSet(topics),
		detail:    tokenize(m.CapabilityDetail),
		band:      seniorityBand(m.ExperienceYears),
		timezone:  m.Timezone,
		scenarios: m.PracticeScenarios,
		industry:  m.Industry,
		schema:    m.HasCapabilitySchema(),
	}
}

func normalizeMentor(m *cohort.MentorProfile) mentorInput {
	topics := m.TopicsToMentor
	if len(topics) == 0 {
		topics = m.OfferedCapabilities()
	}
	return mentorInput{
		id:       m.ID,
		name:     m.Name,
		offered:  m.OfferedCapabilities(),
		topics:   toSet(topics),
		detail:   tokenize(m.CapabilityDetail),
		band:     seniorityBand(m.ExperienceYears),
		timezone: m.Timezone,
		capacity: m.CapacityRemaining,
		industry: m.Industry,
		schema:   m.HasCapabilitySchema(),
	}
}

func (p menteeInput) pairSchema(mentor mentorInput) pairSchema {
	if p.schema && mentor.schema {
		return schemaCapability
	}
	return schemaLegacy
}

// seniorityBand maps experience years onto four ordinal bands.
func seniorityBand(years int) int {
	switch {
	case years <= 2:
		return 1
	case years <= 5:
		return 2
	case years <= 10:
		return 3
	default:
		return 4
	}
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 1 {
			out = append(out, f)
		}
	}
	return out
}
