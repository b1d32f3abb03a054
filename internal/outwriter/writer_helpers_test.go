package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	statusOut = io.Discard
	os.Exit(m.Run())
}

// textConfig returns a text-mode config writing to a file under t.TempDir.
func textConfig(t *testing.T, mode schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		User:         "octocat",
		Output:       mode,
		OutputFile:   filepath.Join(t.TempDir(), "out"),
		Precision:    1,
		Width:        120,
		StoreBackend: schema.SQLiteBackend,
	}
}

// readOutput returns what a writer left in cfg.OutputFile.
func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(content)
}

// readCSV parses the CSV left in cfg.OutputFile.
func readCSV(t *testing.T, cfg *contract.Config) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(readOutput(t, cfg))).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		precision int
		value     float64
		expected  string
	}{
		{precision: 0, value: 3.14159, expected: "3"},
		{precision: 1, value: 0.25, expected: "0.2"},
		{precision: 2, value: -42.567, expected: "-42.57"},
		{precision: 3, value: 1, expected: "1.000"},
	}

	for _, tt := range tests {
		fmtFloat, intFmt := createFormatters(tt.precision)
		assert.Equal(t, tt.expected, fmtFloat(tt.value))
		assert.Equal(t, "%d", intFmt)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"current": 3}))
	assert.Equal(t, "{\n  \"current\": 3\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"repo", "note"}, func(cw *csv.Writer) error {
		return cw.Write([]string{"octo/hello", "fixes, tests"})
	})
	require.NoError(t, err)
	assert.Equal(t, "repo,note\nocto/hello,\"fixes, tests\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"x"}, func(*csv.Writer) error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
}

func TestWriteKeyValueCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeKeyValueCSV(&buf, [][2]string{{"events", "4"}, {"days", "2"}}))
	assert.Equal(t, "metric,value\nevents,4\ndays,2\n", buf.String())
}

func TestWriteWithFile(t *testing.T) {
	t.Run("writes to file and reports", func(t *testing.T) {
		var status bytes.Buffer
		old := statusOut
		statusOut = &status
		t.Cleanup(func() { statusOut = old })

		path := filepath.Join(t.TempDir(), "result.txt")
		err := writeWithFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "hello")
			return err
		}, "Wrote table")
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(content))
		assert.Equal(t, "💾 Wrote table to "+path+"\n", status.String())
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "result.txt")
		err := writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote table")
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("bad path", func(t *testing.T) {
		err := writeWithFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil }, "Wrote table")
		assert.Error(t, err)
	})
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTable(&buf, []string{"Factor", "Value"}, [][]string{{"long_hours", "0.5"}}))
	out := buf.String()
	assert.Contains(t, out, "long_hours")
	assert.Contains(t, out, "0.5")

	buf.Reset()
	require.NoError(t, renderTable(&buf, []string{"Factor", "Value"}, nil))
	assert.NotEmpty(t, buf.String())
}

func TestWriteFooter(t *testing.T) {
	var buf bytes.Buffer
	cfg := &contract.Config{StoreBackend: schema.PostgreSQLBackend}
	require.NoError(t, writeFooter(&buf, cfg, 1234567*time.Microsecond))
	assert.Equal(t, "Analysis completed in 1.235s. Store backend: postgresql\n", buf.String())
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-14", formatDate(&d, "never"))
	assert.Equal(t, "never", formatDate(nil, "never"))
	assert.Equal(t, "", formatDate(&time.Time{}, ""))
}

func TestGetMaxTableTextWidth(t *testing.T) {
	tests := []struct {
		width, reserved, expected int
	}{
		{width: 120, reserved: 30, expected: 80},
		{width: 40, reserved: 30, expected: minTextWidth},
		{width: 300, reserved: 10, expected: maxTextWidth},
	}
	for _, tt := range tests {
		cfg := &contract.Config{Width: tt.width}
		assert.Equal(t, tt.expected, GetMaxTableTextWidth(cfg, tt.reserved))
	}
}
