package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devflow/devflow/schema"
	"github.com/fatih/color"
)

// Productivity label constants.
const (
	ExcellentValue = "Excellent"
	StrongValue    = "Strong"
	SteadyValue    = "Steady"
	LowValue       = "Low"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // CriticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // HighColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor represents standard caution, not bold.
	LowColor      = color.New(color.FgCyan)                // LowColor represents informational / low-priority signal.
	GoodColor     = color.New(color.FgGreen, color.Bold)
	ArchetypeInk  = color.New(color.FgHiBlue, color.Bold)
)

// GetScoreLabel returns a plain text label for a 0-100 productivity score.
func GetScoreLabel(score int) string {
	switch {
	case score >= 80:
		return ExcellentValue
	case score >= 50:
		return StrongValue
	case score >= 20:
		return SteadyValue
	default:
		return LowValue
	}
}

// GetColorScoreLabel returns the score label colored for table output.
func GetColorScoreLabel(score int) string {
	text := GetScoreLabel(score)
	switch text {
	case ExcellentValue:
		return GoodColor.Sprint(text)
	case StrongValue:
		return LowColor.Sprint(text)
	case SteadyValue:
		return ModerateColor.Sprint(text)
	default:
		return HighColor.Sprint(text)
	}
}

// GetRiskLabel returns the display label of a burnout tier.
func GetRiskLabel(level schema.RiskLevel) string {
	if level == "" {
		return "Unknown"
	}
	return strings.ToUpper(string(level[:1])) + string(level[1:])
}

// GetColorRiskLabel returns the tier label colored by severity.
func GetColorRiskLabel(level schema.RiskLevel) string {
	text := GetRiskLabel(level)
	switch level {
	case schema.RiskCritical:
		return CriticalColor.Sprint(text)
	case schema.RiskHigh:
		return HighColor.Sprint(text)
	case schema.RiskMedium:
		return ModerateColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetArchetypeTitle returns the display name of an archetype.
func GetArchetypeTitle(key schema.ArchetypeKey) string {
	if title, ok := schema.ArchetypeTitles[key]; ok {
		return title
	}
	return string(key)
}

// GetColorArchetypeTitle returns the archetype title for table output.
func GetColorArchetypeTitle(key schema.ArchetypeKey) string {
	return ArchetypeInk.Sprint(GetArchetypeTitle(key))
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the activity store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".devflow.db"
	}
	return filepath.Join(homeDir, ".devflow.db")
}

// TruncateText truncates s to a maximum width with an ellipsis prefix.
// Requires maxWidth > 3 so there is room for "..." and at least one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
