package schema

import "time"

// HistoryStatus represents the status of the scorecard history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     string           `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// ToolchainStatus reports whether the collaborators can run.
type ToolchainStatus struct {
	Ready           bool              `json:"ready"`
	MissingPackages []string          `json:"missingPackages"`
	Optional        map[string]bool   `json:"optional"`
	Details         map[string]string `json:"details"`
}
