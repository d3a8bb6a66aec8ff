// Package parquet exports scorecard history to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/gihwan-dev/codehealth/schema"
	"github.com/parquet-go/parquet-go"
)

// ScorecardRun is one recorded scorecard.
// This struct maps to the codehealth_scorecard_runs database table.
type ScorecardRun struct {
	RunID string `parquet:"run_id,snappy"`

	// GeneratedAt is stored as TIMESTAMP with nanosecond precision
	GeneratedAt time.Time `parquet:"generated_at,snappy"`

	Profile           string  `parquet:"profile,snappy"`
	QuantitativeScore float64 `parquet:"quantitative_score,snappy"`

	// QualitativeScore is null when the overlay was N/A
	QualitativeScore *float64 `parquet:"qualitative_score,optional,snappy"`

	FinalScore        float64 `parquet:"final_score,snappy"`
	FinalGrade        string  `parquet:"final_grade,snappy"`
	FileCount         int32   `parquet:"file_count,snappy"`
	HotspotCount      int32   `parquet:"hotspot_count,snappy"`
	CriticalFlagCount int32   `parquet:"critical_flag_count,snappy"`
}

// FileScore is the hotspot score and headline metrics of one file in a run.
// This struct maps to the codehealth_file_scores database table.
type FileScore struct {
	RunID        string  `parquet:"run_id,snappy"`
	FilePath     string  `parquet:"file_path,snappy"`
	HotspotScore float64 `parquet:"hotspot_score,snappy"`

	// Hotspot is true when the file was selected for qualitative review
	Hotspot bool `parquet:"is_hotspot,snappy"`

	Cyclomatic   *float64 `parquet:"cyclomatic,optional,snappy"`
	Cognitive    *float64 `parquet:"cognitive,optional,snappy"`
	ChurnLines   *int32   `parquet:"churn_lines,optional,snappy"`
	Instability  *float64 `parquet:"instability,optional,snappy"`
	LineCoverage *float64 `parquet:"line_coverage,optional,snappy"`
}

// WriteScorecardRunsParquet writes scorecard runs to a Parquet file.
func WriteScorecardRunsParquet(data []ScorecardRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteFileScoresParquet writes per-file scores to a Parquet file.
func WriteFileScoresParquet(data []FileScore, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows with a schema inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertScorecardRunRecords converts store rows for Parquet export.
func ConvertScorecardRunRecords(records []schema.ScorecardRunRecord) []ScorecardRun {
	result := make([]ScorecardRun, len(records))
	for i, record := range records {
		result[i] = ScorecardRun{
			RunID:             record.RunID,
			GeneratedAt:       record.GeneratedAt,
			Profile:           record.Profile,
			QuantitativeScore: record.QuantitativeScore,
			QualitativeScore:  record.QualitativeScore,
			FinalScore:        record.FinalScore,
			FinalGrade:        record.FinalGrade,
			FileCount:         record.FileCount,
			HotspotCount:      record.HotspotCount,
			CriticalFlagCount: record.CriticalFlagCount,
		}
	}
	return result
}

// ConvertFileScoreRecords converts store rows for Parquet export.
func ConvertFileScoreRecords(records []schema.FileScoreRecord) []FileScore {
	result := make([]FileScore, len(records))
	for i, record := range records {
		result[i] = FileScore{
			RunID:        record.RunID,
			FilePath:     record.FilePath,
			HotspotScore: record.HotspotScore,
			Hotspot:      record.Hotspot,
			Cyclomatic:   record.Cyclomatic,
			Cognitive:    record.Cognitive,
			ChurnLines:   record.ChurnLines,
			Instability:  record.Instability,
			LineCoverage: record.LineCoverage,
		}
	}
	return result
}
