package outwriter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
)

// writeDocument renders a document in memory and writes it to path in a single
// write, creating the parent directory first.
func writeDocument(path string, render func(io.Writer) error, successMsg string) error {
	if path == "" {
		return fmt.Errorf("no output path for %q", successMsg)
	}

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, path)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
// The encoder terminates the document with a newline.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// formatNumber prints a number with the shortest exact representation.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOptional prints N/A for a missing score.
func formatOptional(v *float64) string {
	if v == nil {
		return schema.GradeNA
	}
	return formatNumber(*v)
}

// gradeLabel colors a grade when colors are enabled.
func gradeLabel(grade string, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorGrade(grade)
	}
	return grade
}

// severityLabel colors a flag severity when colors are enabled.
func severityLabel(severity string, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorSeverity(severity)
	}
	return severity
}
