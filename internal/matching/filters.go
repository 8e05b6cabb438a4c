package matching

import (
	"strings"

	"github.com/mentorflow/mentor-match/internal/cohort"
	"github.com/mentorflow/mentor-match/internal/timezone"
)

// DefaultMaxTimezoneDifferenceHours is the widest timezone gap a pair may
// have and still be matched.
const DefaultMaxTimezoneDifferenceHours = 6

// Filters configures the hard eligibility gate applied before any scoring.
type Filters struct {
	MaxTimezoneDifferenceHours int
	RequireAvailableCapacity   bool
}

// DefaultFilters returns the production defaults.
func DefaultFilters() Filters {
	return Filters{
		MaxTimezoneDifferenceHours: DefaultMaxTimezoneDifferenceHours,
		RequireAvailableCapacity:   true,
	}
}

// Eligible is the hard filter: a pure predicate over one pair. A mentor that
// fails it never appears among the mentee's candidates for the run.
//
// Rules, all of which must pass:
//  1. When both profiles carry a timezone label, their offset distance must
//     not exceed MaxTimezoneDifferenceHours. Profiles without a label skip
//     the rule and are treated as compatible.
//  2. When RequireAvailableCapacity is set, the mentor must have at least one
//     slot left.
//  3. No mentee practice scenario may appear among the mentor's excluded
//     scenarios. This is a mentor-controlled opt-out mentees cannot override.
func Eligible(mentee *cohort.MenteeProfile, mentor *cohort.MentorProfile, filters Filters) bool {
	if strings.TrimSpace(mentee.Timezone) != "" && strings.TrimSpace(mentor.Timezone) != "" {
		if timezone.DistanceHours(mentee.Timezone, mentor.Timezone) > filters.MaxTimezoneDifferenceHours {
			return false
		}
	}

	if filters.RequireAvailableCapacity && mentor.CapacityRemaining <= 0 {
		return false
	}

	if len(mentee.PracticeScenarios) > 0 && len(mentor.ExcludedScenarios) > 0 {
		excluded := toSet(mentor.ExcludedScenarios)
		for _, scenario := range mentee.PracticeScenarios {
			if _, ok := excluded[strings.ToLower(strings.TrimSpace(scenario))]; ok {
				return false
			}
		}
	}

	return true
}
