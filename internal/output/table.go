// Package output renders matching results for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mentorflow/mentor-match/internal/matching"
	"github.com/mentorflow/mentor-match/internal/utils"
)

const maxReasonWidth = 60

// ResultsTable writes one row per mentee with their assignment (batch mode)
// or best candidate (top3 mode) plus the runner-up column.
func ResultsTable(w io.Writer, out *matching.Output) error {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No mentees in this run.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MENTEE\tMENTOR\tSCORE\tWHY")
	fmt.Fprintln(tw, "------\t------\t-----\t---")

	for _, result := range out.Results {
		mentor, score, why := resultColumns(result, out.Mode)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", displayName(result.MenteeName, result.MenteeID), mentor, score, why)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d mentees, %d mentors, %d eligible pairs",
		out.Stats.Mentees, out.Stats.Mentors, out.Stats.EligiblePairs)
	if out.Mode == matching.ModeBatch {
		fmt.Fprintf(w, ", %d matched, %d unmatched", out.Stats.Matched, out.Stats.Unmatched)
	}
	fmt.Fprintln(w)
	return nil
}

func resultColumns(result matching.Result, mode matching.Mode) (mentor, score, why string) {
	var top *matching.Recommendation

	if mode == matching.ModeBatch {
		if result.ProposedAssignment == nil {
			return "(unmatched)", "-", "-"
		}
		for i := range result.Recommendations {
			if result.Recommendations[i].MentorID == result.ProposedAssignment.MentorID {
				top = &result.Recommendations[i]
				break
			}
		}
		if top == nil {
			return displayName(result.ProposedAssignment.MentorName, result.ProposedAssignment.MentorID), "-", "-"
		}
	} else {
		if len(result.Recommendations) == 0 {
			return "(no candidates)", "-", "-"
		}
		top = &result.Recommendations[0]
	}

	why = top.Explanation
	if why == "" {
		why = strings.Join(top.Score.Reasons, "; ")
	}
	if why == "" {
		why = "-"
	}

	return displayName(top.MentorName, top.MentorID),
		fmt.Sprintf("%.0f", top.Score.TotalScore),
		utils.TruncateForLog(why, maxReasonWidth)
}

func displayName(name, id string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return id
}
