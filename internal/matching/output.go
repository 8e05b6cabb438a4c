package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Mode selects how a run terminates: batch auto-assignment or ranked
// candidates for human review.
type Mode string

const (
	// ModeBatch greedily assigns one mentor per mentee, consuming mentor
	// capacity within the run.
	ModeBatch Mode = "batch"
	// ModeTop3 surfaces the three best candidates per mentee without
	// assigning or consuming capacity.
	ModeTop3 Mode = "top3"
)

// ParseMode validates a mode string from config or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBatch:
		return ModeBatch, nil
	case ModeTop3, "":
		return ModeTop3, nil
	default:
		return "", fmt.Errorf("unknown matching mode %q (want %q or %q)", s, ModeBatch, ModeTop3)
	}
}

// Recommendation is one ranked mentor candidate for a mentee. Explanation is
// cosmetic text filled in later by the explanation collaborator; it may stay
// empty without affecting the match.
type Recommendation struct {
	MentorID    string     `json:"mentor_id"`
	MentorName  string     `json:"mentor_name,omitempty"`
	Score       MatchScore `json:"score"`
	Explanation string     `json:"explanation,omitempty"`
}

// Assignment names the mentor proposed for a mentee in batch mode.
type Assignment struct {
	MentorID   string `json:"mentor_id"`
	MentorName string `json:"mentor_name,omitempty"`
}

// Result is the outcome for one mentee: ranked recommendations, best first,
// and in batch mode the proposed assignment. A nil assignment with empty
// recommendations means no mentor passed the hard filter, which is a normal
// terminal outcome.
type Result struct {
	MenteeID           string           `json:"mentee_id"`
	MenteeName         string           `json:"mentee_name,omitempty"`
	Recommendations    []Recommendation `json:"recommendations"`
	ProposedAssignment *Assignment      `json:"proposed_assignment"`
}

// Stats aggregates one run.
type Stats struct {
	Mentees       int     `json:"mentees"`
	Mentors       int     `json:"mentors"`
	EligiblePairs int     `json:"eligible_pairs"`
	Matched       int     `json:"matched"`
	Unmatched     int     `json:"unmatched"`
	AverageScore  float64 `json:"average_score"`
}

// Output is the full result of one engine invocation. It is returned to the
// caller for persistence; the engine itself writes nothing. A later run
// supersedes it rather than mutating it.
type Output struct {
	RunID     string    `json:"run_id"`
	Mode      Mode      `json:"mode"`
	Timestamp time.Time `json:"timestamp"`
	Stats     Stats     `json:"stats"`
	Results   []Result  `json:"results"`
}

// CapacityDeltas returns the net capacity change per mentor implied by the
// run's proposed assignments. The caller applies these to its source of
// truth atomically after accepting the batch; top3 runs produce no deltas.
func (o *Output) CapacityDeltas() map[string]int {
	deltas := make(map[string]int)
	for _, r := range o.Results {
		if r.ProposedAssignment != nil {
			deltas[r.ProposedAssignment.MentorID]--
		}
	}
	return deltas
}

// ToFile writes the output as indented JSON.
func (o *Output) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}

// DumpToTmpFile writes the output to a temporary JSON file and returns its
// name.
func (o *Output) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matching_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return "", err
	}
	return file.Name(), nil
}
