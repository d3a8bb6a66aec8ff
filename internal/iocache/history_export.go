package iocache

import (
	"errors"
	"fmt"

	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/internal/parquet"
)

// ExecuteHistoryExport exports the recorded history to two Parquet files named
// after outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled; set --history-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no scorecard history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total scorecard runs: %d\n", status.TotalRuns)
	fmt.Printf("Total file records: %d\n", status.TableSizes[fileScoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve scorecard runs: %w", err)
	}

	fileScores, err := store.GetAllFileScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve file scores: %w", err)
	}

	parquetRuns := parquet.ConvertScorecardRunRecords(runs)
	parquetFiles := parquet.ConvertFileScoreRecords(fileScores)

	runsFile := outputFile + ".scorecard_runs.parquet"
	if err := parquet.WriteScorecardRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write scorecard runs: %w", err)
	}
	fmt.Printf("Exported %d scorecard runs to: %s\n", len(parquetRuns), runsFile)

	filesFile := outputFile + ".file_scores.parquet"
	if err := parquet.WriteFileScoresParquet(parquetFiles, filesFile); err != nil {
		return fmt.Errorf("failed to write file scores: %w", err)
	}
	fmt.Printf("Exported %d file score records to: %s\n", len(parquetFiles), filesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with DuckDB, Pandas (via pyarrow) or Apache Spark.")
	return nil
}
