package outwriter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/devflow/devflow/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBurnout() schema.BurnoutAssessment {
	return schema.BurnoutAssessment{
		RiskScore: 0.62,
		RiskLevel: schema.RiskHigh,
		Factors: schema.BurnoutFactors{
			LongHours: 0.8,
			NoBreaks:  1,
		},
		Recommendations: []schema.Recommendation{
			{Factor: schema.FactorLongHours, Priority: schema.PriorityHigh, Message: "Reduce daily coding hours."},
			{Factor: schema.FactorNoBreaks, Priority: schema.PriorityHigh, Message: "Take a full day off."},
		},
		HasEnoughData: true,
		DaysAnalyzed:  30,
	}
}

func TestWriteBurnoutResult(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		cfg := textConfig(t, schema.TextOut)
		require.NoError(t, WriteBurnoutResult(sampleBurnout(), cfg, time.Second))

		out := readOutput(t, cfg)
		assert.Contains(t, out, "long_hours")
		assert.Contains(t, out, "Burnout risk: High (score 0.6 over 30 days)")
		assert.Contains(t, out, "Take a full day off.")
		assert.Contains(t, out, "HIGH")
	})

	t.Run("not enough data", func(t *testing.T) {
		cfg := textConfig(t, schema.TextOut)
		a := schema.BurnoutAssessment{RiskLevel: schema.RiskLow, Message: "not enough data", DaysAnalyzed: 3, Recommendations: []schema.Recommendation{}}
		require.NoError(t, WriteBurnoutResult(a, cfg, time.Second))

		out := readOutput(t, cfg)
		assert.Contains(t, out, "Burnout risk: Low (not enough data, 3 days analyzed)")
		assert.NotContains(t, out, "long_hours")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := textConfig(t, schema.CSVOut)
		require.NoError(t, WriteBurnoutResult(sampleBurnout(), cfg, time.Second))

		records := readCSV(t, cfg)
		assert.Equal(t, []string{"metric", "value"}, records[0])
		assert.Equal(t, []string{"risk_level", "high"}, records[2])
		assert.Contains(t, records, []string{"factor_no_breaks", "1.0"})
		assert.Contains(t, records, []string{"recommendation_long_hours", "Reduce daily coding hours."})
		assert.Len(t, records, 1+4+len(schema.AllFactors)+2)
	})

	t.Run("json", func(t *testing.T) {
		cfg := textConfig(t, schema.JSONOut)
		require.NoError(t, WriteBurnoutResult(sampleBurnout(), cfg, time.Second))

		var got schema.BurnoutAssessment
		require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &got))
		assert.Equal(t, sampleBurnout(), got)
	})
}
