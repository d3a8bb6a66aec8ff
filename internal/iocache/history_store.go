package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for scorecard history.
const (
	scorecardRunsTable = "codehealth_scorecard_runs"
	fileScoresTable    = "codehealth_file_scores"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetHistoryDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createHistoryTables creates the history tables if they do not exist yet.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{scorecardRunsTable, getCreateScorecardRunsQuery(backend)},
		{fileScoresTable, getCreateFileScoresQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateScorecardRunsQuery returns the CREATE TABLE query for codehealth_scorecard_runs.
// seq keeps insertion order across backends.
func getCreateScorecardRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(scorecardRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_id VARCHAR(64) NOT NULL UNIQUE,
				generated_at DATETIME(6) NOT NULL,
				profile VARCHAR(32) NOT NULL,
				quantitative_score DOUBLE NOT NULL,
				qualitative_score DOUBLE,
				final_score DOUBLE NOT NULL,
				final_grade VARCHAR(8) NOT NULL,
				file_count INT NOT NULL,
				hotspot_count INT NOT NULL,
				critical_flag_count INT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq BIGSERIAL PRIMARY KEY,
				run_id TEXT NOT NULL UNIQUE,
				generated_at TIMESTAMPTZ NOT NULL,
				profile TEXT NOT NULL,
				quantitative_score DOUBLE PRECISION NOT NULL,
				qualitative_score DOUBLE PRECISION,
				final_score DOUBLE PRECISION NOT NULL,
				final_grade TEXT NOT NULL,
				file_count INT NOT NULL,
				hotspot_count INT NOT NULL,
				critical_flag_count INT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				run_id TEXT NOT NULL UNIQUE,
				generated_at TEXT NOT NULL,
				profile TEXT NOT NULL,
				quantitative_score REAL NOT NULL,
				qualitative_score REAL,
				final_score REAL NOT NULL,
				final_grade TEXT NOT NULL,
				file_count INTEGER NOT NULL,
				hotspot_count INTEGER NOT NULL,
				critical_flag_count INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateFileScoresQuery returns the CREATE TABLE query for codehealth_file_scores.
func getCreateFileScoresQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(fileScoresTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(64) NOT NULL,
				file_path VARCHAR(512) NOT NULL,
				hotspot_score DOUBLE NOT NULL,
				is_hotspot BOOLEAN NOT NULL,
				cyclomatic DOUBLE,
				cognitive DOUBLE,
				churn_lines INT,
				instability DOUBLE,
				line_coverage DOUBLE,
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				file_path TEXT NOT NULL,
				hotspot_score DOUBLE PRECISION NOT NULL,
				is_hotspot BOOLEAN NOT NULL,
				cyclomatic DOUBLE PRECISION,
				cognitive DOUBLE PRECISION,
				churn_lines INT,
				instability DOUBLE PRECISION,
				line_coverage DOUBLE PRECISION,
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				file_path TEXT NOT NULL,
				hotspot_score REAL NOT NULL,
				is_hotspot INTEGER NOT NULL,
				cyclomatic REAL,
				cognitive REAL,
				churn_lines INTEGER,
				instability REAL,
				line_coverage REAL,
				PRIMARY KEY (run_id, file_path)
			);
		`, quotedTableName)
	}
}

// RecordScorecard stores one run and its per-file scores in a single transaction.
func (hs *HistoryStoreImpl) RecordScorecard(run schema.ScorecardRunRecord, files []schema.FileScoreRecord) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}
	if run.RunID == "" {
		return fmt.Errorf("run id is required")
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	runQuery := fmt.Sprintf(`
		INSERT INTO %s (run_id, generated_at, profile, quantitative_score, qualitative_score,
		                final_score, final_grade, file_count, hotspot_count, critical_flag_count)
		VALUES (%s)
	`, quoteTableName(scorecardRunsTable, hs.backend), placeholders(hs.backend, 10))
	if _, err := tx.Exec(runQuery,
		run.RunID, formatTime(run.GeneratedAt, hs.backend), run.Profile, run.QuantitativeScore, run.QualitativeScore,
		run.FinalScore, run.FinalGrade, run.FileCount, run.HotspotCount, run.CriticalFlagCount,
	); err != nil {
		return fmt.Errorf("failed to insert scorecard run %s: %w", run.RunID, err)
	}

	fileQuery := fmt.Sprintf(`
		INSERT INTO %s (run_id, file_path, hotspot_score, is_hotspot, cyclomatic,
		                cognitive, churn_lines, instability, line_coverage)
		VALUES (%s)
	`, quoteTableName(fileScoresTable, hs.backend), placeholders(hs.backend, 9))
	stmt, err := tx.Prepare(fileQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare file score insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range files {
		if _, err := stmt.Exec(
			run.RunID, f.FilePath, f.HotspotScore, f.Hotspot, f.Cyclomatic,
			f.Cognitive, f.ChurnLines, f.Instability, f.LineCoverage,
		); err != nil {
			return fmt.Errorf("failed to insert file score for %s: %w", f.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scorecard run %s: %w", run.RunID, err)
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(scorecardRunsTable, hs.backend)
	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row = hs.db.QueryRow(fmt.Sprintf("SELECT run_id, generated_at FROM %s ORDER BY seq DESC LIMIT 1", runsTable))
		lastRunTime, err := hs.scanRunTime(row, &status.LastRunID)
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRunTime

		var oldestRunID string
		row = hs.db.QueryRow(fmt.Sprintf("SELECT run_id, generated_at FROM %s ORDER BY seq ASC LIMIT 1", runsTable))
		oldestRunTime, err := hs.scanRunTime(row, &oldestRunID)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime
	}

	for _, table := range []string{scorecardRunsTable, fileScoresTable} {
		row = hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend)))
		var count int64
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// scanRunTime reads a (run_id, generated_at) row.
func (hs *HistoryStoreImpl) scanRunTime(row *sql.Row, runID *string) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var ts string
		if err := row.Scan(runID, &ts); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, ts)
	}
	var ts time.Time
	err := row.Scan(runID, &ts)
	return ts, err
}

// GetAllRuns retrieves every recorded run, oldest first.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ScorecardRunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, generated_at, profile, quantitative_score, qualitative_score,
    final_score, final_grade, file_count, hotspot_count, critical_flag_count
    FROM %s ORDER BY seq`, quoteTableName(scorecardRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scorecard runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ScorecardRunRecord
	for rows.Next() {
		var record schema.ScorecardRunRecord
		var generatedAt any = &record.GeneratedAt
		var generatedAtStr string
		if hs.backend == schema.SQLiteBackend {
			generatedAt = &generatedAtStr
		}

		if err := rows.Scan(&record.RunID, generatedAt, &record.Profile, &record.QuantitativeScore, &record.QualitativeScore,
			&record.FinalScore, &record.FinalGrade, &record.FileCount, &record.HotspotCount, &record.CriticalFlagCount); err != nil {
			return nil, fmt.Errorf("failed to scan scorecard run: %w", err)
		}

		if hs.backend == schema.SQLiteBackend {
			record.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse generated_at: %w", err)
			}
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scorecard runs: %w", err)
	}
	return results, nil
}

// GetAllFileScores retrieves every recorded per-file score.
func (hs *HistoryStoreImpl) GetAllFileScores() ([]schema.FileScoreRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, file_path, hotspot_score, is_hotspot, cyclomatic,
    cognitive, churn_lines, instability, line_coverage
    FROM %s ORDER BY run_id, file_path`, quoteTableName(fileScoresTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query file scores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FileScoreRecord
	for rows.Next() {
		var record schema.FileScoreRecord
		if err := rows.Scan(&record.RunID, &record.FilePath, &record.HotspotScore, &record.Hotspot, &record.Cyclomatic,
			&record.Cognitive, &record.ChurnLines, &record.Instability, &record.LineCoverage); err != nil {
			return nil, fmt.Errorf("failed to scan file score: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file scores: %w", err)
	}
	return results, nil
}

// Clear deletes every recorded run and file score, keeping the tables.
func (hs *HistoryStoreImpl) Clear() error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}
	for _, table := range []string{fileScoresTable, scorecardRunsTable} {
		if _, err := hs.db.Exec(fmt.Sprintf("DELETE FROM %s", quoteTableName(table, hs.backend))); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// placeholders returns n comma-separated bind parameters for the backend.
func placeholders(backend schema.DatabaseBackend, n int) string {
	parts := make([]string, n)
	for i := range parts {
		if backend == schema.PostgreSQLBackend {
			parts[i] = fmt.Sprintf("$%d", i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateTableName rejects anything but a plain SQL identifier.
func validateTableName(tableName string) error {
	if !tableNamePattern.MatchString(tableName) {
		return fmt.Errorf("invalid table name %q: only letters, digits and underscores are allowed", tableName)
	}
	return nil
}

// quoteTableName quotes an identifier for the backend.
func quoteTableName(tableName string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + tableName + "`"
	}
	return `"` + tableName + `"`
}
