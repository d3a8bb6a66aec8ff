package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/gihwan-dev/codehealth/schema"
)

// Color variables for console output.
var (
	PassColor    = color.New(color.FgGreen, color.Bold)   // PassColor marks A and B grades.
	CautionColor = color.New(color.FgYellow)              // CautionColor marks C and D grades.
	RiskColor    = color.New(color.FgMagenta, color.Bold) // RiskColor marks the E grade.
	FailColor    = color.New(color.FgRed, color.Bold)     // FailColor marks F.
	MutedColor   = color.New(color.FgCyan)                // MutedColor marks N/A.
)

// GetColorGrade returns the grade letter colored by band for console tables.
func GetColorGrade(grade string) string {
	switch grade {
	case "A", "B":
		return PassColor.Sprint(grade)
	case "C", "D":
		return CautionColor.Sprint(grade)
	case "E":
		return RiskColor.Sprint(grade)
	case "F":
		return FailColor.Sprint(grade)
	default:
		return MutedColor.Sprint(grade)
	}
}

// GetColorSeverity colors a critical-flag severity.
func GetColorSeverity(severity string) string {
	if severity == schema.CriticalSeverity {
		return FailColor.Sprint(severity)
	}
	return CautionColor.Sprint(severity)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "legacy/", "generated", "*.gen.ts".
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		if strings.ContainsAny(ex, "*?[") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			// Also try matching against the base filename (e.g. *.gen.ts)
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for scorecard history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".codehealth_history.db"
	}
	return filepath.Join(homeDir, ".codehealth_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so the "..." prefix leaves room for at least one character.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
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
