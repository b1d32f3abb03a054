package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
)

// rankedArchetype is one row of the archetype score table.
type rankedArchetype struct {
	Key   schema.ArchetypeKey
	Score int
}

// rankArchetypes orders scores high to low. Ties keep declaration order.
func rankArchetypes(scores map[schema.ArchetypeKey]int) []rankedArchetype {
	ranked := make([]rankedArchetype, 0, len(schema.AllArchetypes))
	for _, key := range schema.AllArchetypes {
		ranked = append(ranked, rankedArchetype{Key: key, Score: scores[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// revealJSON is the JSON shape of an archetype reveal.
type revealJSON struct {
	schema.RevealResult
	Title string `json:"title,omitempty"`
}

// WriteRevealResult outputs an archetype reveal, dispatching based on the output format configured.
func WriteRevealResult(reveal schema.RevealResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		out := revealJSON{RevealResult: reveal}
		if !reveal.Insufficient {
			out.Title = contract.GetArchetypeTitle(reveal.Archetype)
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, out)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForReveal(w, reveal, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRevealTable(w, reveal, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVResultsForReveal writes the ranked archetype scores.
// An insufficient reveal writes only the header.
func writeCSVResultsForReveal(w io.Writer, reveal schema.RevealResult, intFmt string) error {
	header := []string{"rank", "archetype", "title", "score", "selected"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if reveal.Insufficient {
			return nil
		}
		for i, r := range rankArchetypes(reveal.Scores) {
			row := []string{
				strconv.Itoa(i + 1),
				string(r.Key),
				contract.GetArchetypeTitle(r.Key),
				fmt.Sprintf(intFmt, r.Score),
				strconv.FormatBool(r.Key == reveal.Archetype),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeRevealTable renders the selected archetype, its scores and the metrics behind it.
func writeRevealTable(w io.Writer, reveal schema.RevealResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if reveal.Insufficient {
		if _, err := fmt.Fprintf(w, "🔒 Archetype locked: %d more day(s) of activity needed in the last two weeks\n", reveal.DaysUntilReveal); err != nil {
			return err
		}
		return writeFooter(w, cfg, duration)
	}

	if _, err := fmt.Fprintf(w, "🧬 Archetype: %s (confidence %s)\n", contract.GetColorArchetypeTitle(reveal.Archetype), fmtFloat(reveal.ConfidenceScore)); err != nil {
		return err
	}
	if reveal.Fallback {
		if _, err := fmt.Fprintln(w, "   No archetype stood out, so the default was assigned."); err != nil {
			return err
		}
	}

	var data [][]string
	for i, r := range rankArchetypes(reveal.Scores) {
		if r.Score == 0 && r.Key != reveal.Archetype {
			continue
		}
		data = append(data, []string{strconv.Itoa(i + 1), contract.GetArchetypeTitle(r.Key), strconv.Itoa(r.Score)})
	}
	if err := renderTable(w, []string{"Rank", "Archetype", "Score"}, data); err != nil {
		return err
	}

	f := reveal.Features
	metrics := [][]string{
		{"Days analyzed", strconv.Itoa(f.Records)},
		{"Active days", strconv.Itoa(f.ActiveDays)},
		{"Commits", strconv.Itoa(f.TotalCommits)},
		{"Avg daily commits", fmtFloat(f.AvgDailyCommits)},
		{"Commit variance", fmtFloat(f.CommitVariance)},
		{"Avg coding hours", fmtFloat(f.AvgCodingHours)},
		{"Weekend ratio", fmtFloat(f.WeekendRatio)},
		{"Late-night ratio", fmtFloat(f.LateNightRatio)},
		{"Current streak", strconv.Itoa(f.CurrentStreak)},
	}
	if err := renderTable(w, []string{"Metric", "Value"}, metrics); err != nil {
		return err
	}

	if prev := reveal.Superseded; prev != nil {
		if _, err := fmt.Fprintf(w, "Previously: %s (since %s)\n", contract.GetArchetypeTitle(prev.ArchetypeKey), prev.AssignedAt.Format(contract.DateFormat)); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, duration)
}

// WriteArchetypeHistory outputs the archetype history, newest first.
func WriteArchetypeHistory(history []schema.ArchetypeAssignment, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if history == nil {
			history = []schema.ArchetypeAssignment{}
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, history)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForHistory(w, history, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			data := make([][]string, 0, len(history))
			for i, a := range history {
				data = append(data, []string{
					strconv.Itoa(i + 1),
					contract.GetColorArchetypeTitle(a.ArchetypeKey),
					fmtFloat(a.ConfidenceScore),
					a.AssignedAt.Format(time.DateTime),
					validUntil(a, time.DateTime, "current"),
				})
			}
			if err := renderTable(w, []string{"#", "Archetype", "Confidence", "Assigned", "Valid Until"}, data); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "Showing %d archetype assignment(s) for %s\n", len(history), cfg.User); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// writeCSVResultsForHistory writes one row per assignment.
func writeCSVResultsForHistory(w io.Writer, history []schema.ArchetypeAssignment, fmtFloat func(float64) string) error {
	header := []string{"id", "user_login", "archetype_key", "confidence_score", "assigned_at", "valid_until"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, a := range history {
			row := []string{
				a.ID,
				a.UserLogin,
				string(a.ArchetypeKey),
				fmtFloat(a.ConfidenceScore),
				a.AssignedAt.UTC().Format(time.RFC3339),
				validUntil(a, time.RFC3339, ""),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// validUntil formats the end of validity, or current for the open record.
func validUntil(a schema.ArchetypeAssignment, layout, current string) string {
	if a.ValidUntil == nil {
		return current
	}
	return a.ValidUntil.UTC().Format(layout)
}
