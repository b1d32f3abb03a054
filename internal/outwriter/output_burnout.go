package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
)

// Width taken by the Priority and Factor columns of the recommendation table.
const recommendationReserved = 32

// WriteBurnoutResult outputs a burnout assessment, dispatching based on the output format configured.
func WriteBurnoutResult(a schema.BurnoutAssessment, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, a)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKeyValueCSV(w, burnoutRows(a, fmtFloat))
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBurnoutTable(w, a, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// burnoutRows flattens an assessment into metric,value pairs.
func burnoutRows(a schema.BurnoutAssessment, fmtFloat func(float64) string) [][2]string {
	rows := [][2]string{
		{"risk_score", fmtFloat(a.RiskScore)},
		{"risk_level", string(a.RiskLevel)},
		{"has_enough_data", strconv.FormatBool(a.HasEnoughData)},
		{"days_analyzed", strconv.Itoa(a.DaysAnalyzed)},
	}
	factors := a.Factors.AsMap()
	for _, key := range schema.AllFactors {
		rows = append(rows, [2]string{"factor_" + string(key), fmtFloat(factors[key])})
	}
	for _, rec := range a.Recommendations {
		rows = append(rows, [2]string{"recommendation_" + string(rec.Factor), rec.Message})
	}
	return rows
}

// writeBurnoutTable renders the factor table and the recommendations.
func writeBurnoutTable(w io.Writer, a schema.BurnoutAssessment, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	if !a.HasEnoughData {
		if _, err := fmt.Fprintf(w, "⚠️  Burnout risk: %s (%s, %d days analyzed)\n", contract.GetColorRiskLabel(a.RiskLevel), a.Message, a.DaysAnalyzed); err != nil {
			return err
		}
		return writeFooter(w, cfg, duration)
	}

	factors := a.Factors.AsMap()
	data := make([][]string, 0, len(schema.AllFactors))
	for _, key := range schema.AllFactors {
		weight := schema.BurnoutWeights[key]
		data = append(data, []string{
			string(key),
			fmtFloat(factors[key]),
			fmtFloat(weight),
			fmtFloat(factors[key] * weight),
		})
	}
	if err := renderTable(w, []string{"Factor", "Value", "Weight", "Contribution"}, data); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Burnout risk: %s (score %s over %d days)\n", contract.GetColorRiskLabel(a.RiskLevel), fmtFloat(a.RiskScore), a.DaysAnalyzed); err != nil {
		return err
	}

	if len(a.Recommendations) > 0 {
		maxWidth := GetMaxTableTextWidth(cfg, recommendationReserved)
		recs := make([][]string, 0, len(a.Recommendations))
		for _, rec := range a.Recommendations {
			recs = append(recs, []string{
				strings.ToUpper(string(rec.Priority)),
				string(rec.Factor),
				contract.TruncateText(rec.Message, maxWidth),
			})
		}
		if err := renderTable(w, []string{"Priority", "Factor", "Recommendation"}, recs); err != nil {
			return err
		}
	}
	return writeFooter(w, cfg, duration)
}
