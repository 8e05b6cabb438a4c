// Package cohort defines the mentee and mentor profiles that one matching
// cycle runs over, plus file helpers for loading and dumping cohort snapshots.
// Persistence proper (cohort storage, imports, signup forms) lives outside
// this tool; the snapshot file is the exchange format with it.
package cohort

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// MenteeProfile describes a participant looking for a mentor. Profiles come
// in two shapes: the current survey schema carries PrimaryCapability (and an
// optional SecondaryCapability) from the fixed vocabulary, while legacy
// cohorts carry only free-text TopicsToLearn.
type MenteeProfile struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name,omitempty"`
	Role                string   `json:"role,omitempty"`
	ExperienceYears     int      `json:"experience_years,omitempty"`
	Timezone            string   `json:"timezone,omitempty"`
	Languages           []string `json:"languages,omitempty"`
	Industry            string   `json:"industry,omitempty"`
	TopicsToLearn       []string `json:"topics_to_learn,omitempty"`
	PrimaryCapability   string   `json:"primary_capability,omitempty"`
	SecondaryCapability string   `json:"secondary_capability,omitempty"`
	CapabilityDetail    string   `json:"capability_detail,omitempty"`
	Goals               string   `json:"goals,omitempty"`
	PracticeScenarios   []string `json:"practice_scenarios,omitempty"`
}

// MentorProfile describes a participant offering mentoring slots.
// CapacityRemaining is the number of mentees the mentor can still take; the
// engine reads it at run start and never writes it back, the caller applies
// batch deltas to the source of truth after accepting a run.
type MentorProfile struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name,omitempty"`
	Role                  string   `json:"role,omitempty"`
	ExperienceYears       int      `json:"experience_years,omitempty"`
	Timezone              string   `json:"timezone,omitempty"`
	Languages             []string `json:"languages,omitempty"`
	Industry              string   `json:"industry,omitempty"`
	TopicsToMentor        []string `json:"topics_to_mentor,omitempty"`
	PrimaryCapability     string   `json:"primary_capability,omitempty"`
	SecondaryCapabilities []string `json:"secondary_capabilities,omitempty"`
	CapabilityDetail      string   `json:"capability_detail,omitempty"`
	Bio                   string   `json:"bio,omitempty"`
	CapacityRemaining     int      `json:"capacity_remaining"`
	ExcludedScenarios     []string `json:"excluded_scenarios,omitempty"`
}

// Cohort is one bounded group of mentees and mentors matched together.
type Cohort struct {
	ID      string           `json:"id,omitempty"`
	Name    string           `json:"name,omitempty"`
	Mentees []*MenteeProfile `json:"mentees"`
	Mentors []*MentorProfile `json:"mentors"`
}

// Load reads a cohort snapshot from a JSON file.
func Load(path string) (*Cohort, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cohort file: %w", err)
	}
	defer file.Close()

	var c Cohort
	if err := json.NewDecoder(file).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode cohort file %q: %w", path, err)
	}
	return &c, nil
}

// Validate checks the identity fields the matching engine relies on. Upstream
// import validation should make this a no-op; it exists to fail fast on
// hand-edited snapshot files.
func (c *Cohort) Validate() error {
	for i, m := range c.Mentees {
		if m == nil || strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("mentee at index %d is missing an id", i)
		}
	}
	for i, m := range c.Mentors {
		if m == nil || strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("mentor at index %d is missing an id", i)
		}
	}
	return nil
}

// FindMentor returns the mentor with the given id, or nil.
func (c *Cohort) FindMentor(id string) *MentorProfile {
	for _, m := range c.Mentors {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// HasCapabilitySchema reports whether the mentee filled the current survey
// rather than a legacy topics form.
func (m *MenteeProfile) HasCapabilitySchema() bool {
	return strings.TrimSpace(m.PrimaryCapability) != ""
}

// HasCapabilitySchema reports whether the mentor filled the current survey.
func (m *MentorProfile) HasCapabilitySchema() bool {
	return strings.TrimSpace(m.PrimaryCapability) != ""
}

// DesiredCapabilities returns the mentee's capabilities in priority order,
// primary first, skipping blanks.
func (m *MenteeProfile) DesiredCapabilities() []string {
	return nonBlank(m.PrimaryCapability, m.SecondaryCapability)
}

// OfferedCapabilities returns the mentor's capabilities, primary first.
func (m *MentorProfile) OfferedCapabilities() []string {
	return nonBlank(append([]string{m.PrimaryCapability}, m.SecondaryCapabilities...)...)
}

// GoalText returns the free text used to embed the mentee's side of the pair.
func (m *MenteeProfile) GoalText() string {
	return joinText(m.Role, m.Industry, strings.Join(m.TopicsToLearn, ", "), m.PrimaryCapability, m.SecondaryCapability, m.CapabilityDetail, m.Goals)
}

// OfferingText returns the free text used to embed the mentor's side.
func (m *MentorProfile) OfferingText() string {
	return joinText(m.Role, m.Industry, strings.Join(m.TopicsToMentor, ", "), m.PrimaryCapability, strings.Join(m.SecondaryCapabilities, ", "), m.CapabilityDetail, m.Bio)
}

func nonBlank(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinText(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ". ")
}
