package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
)

// Glyphs for heatmap levels 0 through 4.
var heatmapGlyphs = []rune{'·', '░', '▒', '▓', '█'}

// Width taken by the Rank, Commits and Share columns of the repository table.
const repoReserved = 28

// WriteActivityReport outputs the full activity report, dispatching based on the output format configured.
func WriteActivityReport(report schema.ActivityReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForReport(w, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, report, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// reportSummary lists the headline metrics of a report.
func reportSummary(report schema.ActivityReport, fmtFloat func(float64) string) [][2]string {
	peak := "n/a"
	if report.CommitTimes.PeakHour >= 0 {
		peak = fmt.Sprintf("%02d:00", report.CommitTimes.PeakHour)
	}
	mostActive := report.DayOfWeek.MostActiveDay
	if mostActive == "" {
		mostActive = "n/a"
	}
	return [][2]string{
		{"productivity_score", strconv.Itoa(report.Score.TotalScore)},
		{"current_streak", strconv.Itoa(report.Streak.Current)},
		{"longest_streak", strconv.Itoa(report.Streak.Longest)},
		{"commits", strconv.Itoa(report.Score.Stats.Commits)},
		{"active_days", strconv.Itoa(report.Score.Stats.ActiveDays)},
		{"lines_added", strconv.Itoa(report.CodeVolume.LinesAdded)},
		{"lines_deleted", strconv.Itoa(report.CodeVolume.LinesDeleted)},
		{"net_lines", strconv.Itoa(report.CodeVolume.NetLines)},
		{"avg_changed_per_active_day", fmtFloat(report.CodeVolume.AvgChangedPerActive)},
		{"peak_hour", peak},
		{"most_active_day", mostActive},
		{"burnout_risk", string(report.Burnout.RiskLevel)},
	}
}

// writeCSVResultsForReport flattens the report into section,key,value rows.
func writeCSVResultsForReport(w io.Writer, report schema.ActivityReport, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, []string{"section", "key", "value"}, func(cw *csv.Writer) error {
		write := func(section, key, value string) error {
			return cw.Write([]string{section, key, value})
		}
		for _, row := range reportSummary(report, fmtFloat) {
			if err := write("summary", row[0], row[1]); err != nil {
				return err
			}
		}
		for _, l := range report.Languages {
			if err := write("language", l.Language, strconv.Itoa(l.Count)); err != nil {
				return err
			}
		}
		for _, r := range report.Repos {
			if err := write("repository", r.Repository, strconv.Itoa(r.Commits)); err != nil {
				return err
			}
		}
		for _, d := range report.DayOfWeek.Days {
			if err := write("weekday", d.Name, strconv.Itoa(d.Commits)); err != nil {
				return err
			}
		}
		for _, h := range report.CommitTimes.Hours {
			if err := write("hour", strconv.Itoa(h.Hour), strconv.Itoa(h.Commits)); err != nil {
				return err
			}
		}
		for _, c := range report.Heatmap {
			if err := write("heatmap", c.Date.Format(contract.DateFormat), strconv.Itoa(c.Commits)); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeReportText renders every section of the report as tables.
func writeReportText(w io.Writer, report schema.ActivityReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "📊 Activity report for %s (%s → %s)\n", report.UserLogin,
		report.From.Format(contract.DateFormat), report.To.Format(contract.DateFormat)); err != nil {
		return err
	}

	summary := reportSummary(report, fmtFloat)
	rows := make([][]string, 0, len(summary))
	for _, row := range summary {
		rows = append(rows, []string{row[0], row[1]})
	}
	if err := renderTable(w, []string{"Metric", "Value"}, rows); err != nil {
		return err
	}

	if len(report.Languages) > 0 {
		data := make([][]string, 0, len(report.Languages))
		for _, l := range report.Languages {
			data = append(data, []string{l.Language, strconv.Itoa(l.Count), fmt.Sprintf("%d%%", l.Percentage)})
		}
		if err := renderTable(w, []string{"Language", "Files", "Share"}, data); err != nil {
			return err
		}
	}

	if len(report.Repos) > 0 {
		maxWidth := GetMaxTableTextWidth(cfg, repoReserved)
		data := make([][]string, 0, len(report.Repos))
		for i, r := range report.Repos {
			data = append(data, []string{
				strconv.Itoa(i + 1),
				contract.TruncateText(r.Repository, maxWidth),
				strconv.Itoa(r.Commits),
				fmt.Sprintf("%d%%", r.Percentage),
			})
		}
		if err := renderTable(w, []string{"Rank", "Repository", "Commits", "Share"}, data); err != nil {
			return err
		}
	}

	if report.DayOfWeek.TotalCommits > 0 {
		data := make([][]string, 0, len(report.DayOfWeek.Days))
		for _, d := range report.DayOfWeek.Days {
			data = append(data, []string{d.Name, strconv.Itoa(d.Commits), strconv.Itoa(d.ActiveDays), fmt.Sprintf("%d%%", d.Percentage)})
		}
		if err := renderTable(w, []string{"Day", "Commits", "Active Days", "Share"}, data); err != nil {
			return err
		}

		var hours [][]string
		for _, h := range report.CommitTimes.Hours {
			if h.Commits == 0 {
				continue
			}
			hours = append(hours, []string{fmt.Sprintf("%02d:00", h.Hour), strconv.Itoa(h.Commits), fmt.Sprintf("%d%%", h.Percentage)})
		}
		if err := renderTable(w, []string{"Hour", "Commits", "Share"}, hours); err != nil {
			return err
		}
	}

	if len(report.Heatmap) > 0 {
		if _, err := io.WriteString(w, renderHeatmap(report.Heatmap)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Burnout risk: %s\n", contract.GetColorRiskLabel(report.Burnout.RiskLevel)); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}

// renderHeatmap lays the cells out as a weekday-by-week grid, Sunday on top.
func renderHeatmap(cells []schema.HeatmapCell) string {
	offset := int(cells[0].Date.Weekday())
	cols := (len(cells) + offset + 6) / 7

	grid := make([][]rune, 7)
	for row := range grid {
		grid[row] = []rune(strings.Repeat(" ", cols))
	}
	for i, c := range cells {
		pos := i + offset
		level := min(max(c.Level, 0), len(heatmapGlyphs)-1)
		grid[pos%7][pos/7] = heatmapGlyphs[level]
	}

	var sb strings.Builder
	for row := range grid {
		sb.WriteString(time.Weekday(row).String()[:3])
		sb.WriteString(" ")
		sb.WriteString(string(grid[row]))
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteIngestSummary outputs what an ingest run fetched and stored.
func WriteIngestSummary(summary schema.IngestSummary, cfg *contract.Config, duration time.Duration) error {
	rows := [][2]string{
		{"user_login", summary.UserLogin},
		{"repos", strings.Join(summary.Repos, " ")},
		{"from", summary.From.Format(contract.DateFormat)},
		{"to", summary.To.Format(contract.DateFormat)},
		{"events", strconv.Itoa(summary.Events)},
		{"days", strconv.Itoa(summary.Days)},
		{"written", strconv.Itoa(summary.Written)},
		{"skipped", strconv.Itoa(summary.Skipped)},
	}

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, summary)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKeyValueCSV(w, rows)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			if _, err := fmt.Fprintf(w, "📥 Ingested %d event(s) across %d day(s) for %s: %d written, %d kept\n",
				summary.Events, summary.Days, summary.UserLogin, summary.Written, summary.Skipped); err != nil {
				return err
			}
			return writeFooter(w, cfg, duration)
		}, "Wrote table")
	}
	return nil
}
