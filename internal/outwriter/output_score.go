package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
)

// scoreJSON is the JSON shape of a productivity score.
type scoreJSON struct {
	schema.ScoreResult
	Label string `json:"label"`
}

// WriteScoreResult outputs the productivity score, dispatching based on the output format configured.
func WriteScoreResult(result schema.ScoreResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, scoreJSON{ScoreResult: result, Label: contract.GetScoreLabel(result.TotalScore)})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForScore(w, result, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeScoreTable renders the per-component breakdown and the final score.
func writeScoreTable(w io.Writer, result schema.ScoreResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	data := make([][]string, 0, len(schema.AllBreakdownKeys))
	for _, key := range schema.AllBreakdownKeys {
		data = append(data, []string{string(key), fmtFloat(result.Breakdown[key])})
	}
	if err := renderTable(w, []string{"Component", "Points"}, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Productivity score: %d/100 (%s)\n", result.TotalScore, contract.GetColorScoreLabel(result.TotalScore)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Consistency multiplier: %s over %d active days\n", fmtFloat(result.ConsistencyMultiplier), result.Stats.ActiveDays); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

// writeCSVResultsForScore writes one row per component followed by the totals.
func writeCSVResultsForScore(w io.Writer, result schema.ScoreResult, fmtFloat func(float64) string, intFmt string) error {
	return writeCSVWithHeader(w, []string{"component", "points"}, func(cw *csv.Writer) error {
		for _, key := range schema.AllBreakdownKeys {
			if err := cw.Write([]string{string(key), fmtFloat(result.Breakdown[key])}); err != nil {
				return err
			}
		}
		if err := cw.Write([]string{"consistency_multiplier", fmtFloat(result.ConsistencyMultiplier)}); err != nil {
			return err
		}
		return cw.Write([]string{"total_score", fmt.Sprintf(intFmt, result.TotalScore)})
	})
}

// WriteStreakResult outputs the current and longest streak.
func WriteStreakResult(info schema.StreakInfo, cfg *contract.Config, duration time.Duration) error {
	lastCommit := formatDate(info.LastCommitDate, "never")

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, info)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"current", "longest", "last_commit_date"}, func(cw *csv.Writer) error {
				return cw.Write([]string{strconv.Itoa(info.Current), strconv.Itoa(info.Longest), formatDate(info.LastCommitDate, "")})
			})
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			data := [][]string{{strconv.Itoa(info.Current), strconv.Itoa(info.Longest), lastCommit}}
			if err := renderTable(w, []string{"Current", "Longest", "Last Commit"}, data); err != nil {
				return err
			}
			if info.Current > 0 {
				if _, err := fmt.Fprintf(w, "🔥 %d day streak, keep it going!\n", info.Current); err != nil {
					return err
				}
			}
			return writeFooter(w, cfg, duration)
		}, "Wrote table")
	}
	return nil
}
