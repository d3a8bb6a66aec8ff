package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gihwan-dev/codehealth/schema"
)

// Default values for configuration.
const (
	DefaultWindowDays   = 90
	DefaultClosureLimit = 300
	DefaultOutputDir    = ".codehealth"
	DefaultQuantFile    = "quantitative-metrics.json"
	DefaultUnavailFile  = "unavailable-metrics.json"
	DefaultResultJSON   = "codehealth-result.json"
	DefaultResultMD     = "codehealth-result.md"
)

// DefaultWorkers is the default number of concurrent collaborators to run.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// HotspotCalibrationRaw holds optional overrides for the per-file hotspot blend.
type HotspotCalibrationRaw struct {
	CyclomaticScale   *float64 `mapstructure:"cyclomatic_scale"`
	CognitiveScale    *float64 `mapstructure:"cognitive_scale"`
	ChurnDivisor      *float64 `mapstructure:"churn_divisor"`
	InstabilityScale  *float64 `mapstructure:"instability_scale"`
	AnyScale          *float64 `mapstructure:"any_scale"`
	CyclomaticWeight  *float64 `mapstructure:"cyclomatic_weight"`
	CognitiveWeight   *float64 `mapstructure:"cognitive_weight"`
	ChurnWeight       *float64 `mapstructure:"churn_weight"`
	InstabilityWeight *float64 `mapstructure:"instability_weight"`
	AnyWeight         *float64 `mapstructure:"any_weight"`
	Ratio             *float64 `mapstructure:"ratio"`
}

// AxisCalibrationRaw holds optional overrides for the axis normalizers.
type AxisCalibrationRaw struct {
	CyclomaticCeiling    *float64 `mapstructure:"cyclomatic_ceiling"`
	CognitiveCeiling     *float64 `mapstructure:"cognitive_ceiling"`
	HalsteadCeiling      *float64 `mapstructure:"halstead_ceiling"`
	ChurnCeiling         *float64 `mapstructure:"churn_ceiling"`
	DiagnosticScale      *float64 `mapstructure:"diagnostic_scale"`
	AnyDensityScale      *float64 `mapstructure:"any_density_scale"`
	IgnoreScale          *float64 `mapstructure:"ignore_scale"`
	AssertionScale       *float64 `mapstructure:"assertion_scale"`
	LineCoverageWeight   *float64 `mapstructure:"line_coverage_weight"`
	BranchCoverageWeight *float64 `mapstructure:"branch_coverage_weight"`
	MutationWeight       *float64 `mapstructure:"mutation_weight"`
	GapDivisor           *float64 `mapstructure:"gap_divisor"`
	GapPenaltyCap        *float64 `mapstructure:"gap_penalty_cap"`
}

// CalibrationRawInput holds all calibration overrides from the YAML config file.
type CalibrationRawInput struct {
	Hotspot HotspotCalibrationRaw `mapstructure:"hotspot"`
	Axes    AxisCalibrationRaw    `mapstructure:"axes"`
}

// Config holds the runtime configuration for collect and scorecard runs.
// This struct remains the "final, validated" config.
type Config struct {
	ProjectRoot string
	Workers     int
	Excludes    []string
	Output      schema.OutputMode
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool
	Profile     schema.Profile

	// Collect settings
	Mode            schema.TargetMode
	Target          string
	WindowDays      int
	ClosureLimit    int
	OutQuant        string
	OutUnavailable  string
	LintReport      string
	TypeDiagnostics string
	AutoDetectTSC   bool

	// Scorecard settings
	QuantPath   string
	QualPath    string
	OutJSON     string
	OutMarkdown string

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Calibration schema.Calibration
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ProjectRootStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Workers          int    `mapstructure:"workers"`
	Exclude          string `mapstructure:"exclude"`
	Output           string `mapstructure:"output"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	Profile          string `mapstructure:"profile"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from collectCmd.Flags() ---
	Mode            string `mapstructure:"mode"`
	Target          string `mapstructure:"target"`
	WindowDays      int    `mapstructure:"window-days"`
	ClosureLimit    int    `mapstructure:"closure-limit"`
	Out             string `mapstructure:"out"`
	OutUnavailable  string `mapstructure:"out-unavailable"`
	LintReport      string `mapstructure:"lint-report"`
	TypeDiagnostics string `mapstructure:"type-diagnostics"`
	AutoDetectTSC   string `mapstructure:"auto-detect-tsc"`

	// --- Fields from scorecardCmd.Flags() ---
	Quant   string `mapstructure:"quant"`
	Qual    string `mapstructure:"qual"`
	OutJSON string `mapstructure:"out-json"`
	OutMD   string `mapstructure:"out-md"`

	// --- Calibration overrides from config file ---
	Calibration CalibrationRawInput `mapstructure:"calibration"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := resolveProjectRoot(cfg, input); err != nil {
		return err
	}
	if err := processCollectInputs(cfg, input); err != nil {
		return err
	}
	if err := processScorecardInputs(cfg, input); err != nil {
		return err
	}
	if err := processCalibration(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the fields shared by every command.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Width = input.Width

	colors, err := ParseBoolString(orDefault(input.Color, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Output and Profile Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(orDefault(input.Output, string(schema.TextOut))))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json", input.Output)
	}

	cfg.Profile = schema.Profile(strings.ToLower(orDefault(input.Profile, string(schema.BalancedProfile))))
	if _, ok := schema.ValidProfiles[cfg.Profile]; !ok {
		return fmt.Errorf("invalid profile '%s'. must be balanced, static, strict", input.Profile)
	}

	// --- 3. History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(orDefault(input.HistoryBackend, string(schema.NoneBackend))))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// --- 4. Excludes Processing ---
	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}

	return nil
}

// resolveProjectRoot makes the project root absolute. Git is not consulted here:
// a project outside a repository still gets a degraded analysis.
func resolveProjectRoot(cfg *Config, input *ConfigRawInput) error {
	root, err := ResolveProjectRoot(orDefault(input.ProjectRootStr, "."))
	if err != nil {
		return err
	}
	cfg.ProjectRoot = root
	return nil
}

// ResolveProjectRoot returns the cleaned absolute form of path, which must be
// an existing directory.
func ResolveProjectRoot(path string) (string, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve project root: %w", err)
	}
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("cannot access project root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory", root)
	}
	return root, nil
}

// processCollectInputs handles the change-set, window and output settings of collect.
func processCollectInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Mode = schema.TargetMode(strings.ToLower(orDefault(input.Mode, string(schema.WorkingMode))))
	if _, ok := schema.ValidTargetModes[cfg.Mode]; !ok {
		return fmt.Errorf("invalid mode '%s'. must be working, staged, branch, range, files", input.Mode)
	}
	cfg.Target = strings.TrimSpace(input.Target)

	// Non-positive values fall back to the defaults instead of failing.
	cfg.WindowDays = input.WindowDays
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = DefaultWindowDays
	}
	cfg.ClosureLimit = input.ClosureLimit
	if cfg.ClosureLimit <= 0 {
		cfg.ClosureLimit = DefaultClosureLimit
	}

	cfg.OutQuant = absOrDefault(input.Out, filepath.Join(cfg.ProjectRoot, DefaultOutputDir, DefaultQuantFile))
	cfg.OutUnavailable = absOrDefault(input.OutUnavailable, filepath.Join(cfg.ProjectRoot, DefaultOutputDir, DefaultUnavailFile))
	cfg.LintReport = absOrEmpty(input.LintReport)
	cfg.TypeDiagnostics = absOrEmpty(input.TypeDiagnostics)

	autoTSC, err := ParseBoolString(orDefault(input.AutoDetectTSC, "yes"))
	if err != nil {
		return fmt.Errorf("invalid --auto-detect-tsc value: %w", err)
	}
	cfg.AutoDetectTSC = autoTSC
	return nil
}

// processScorecardInputs resolves the scorecard input and output paths.
// A missing --quant is reported by the scorecard command itself.
func processScorecardInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.QuantPath = absOrEmpty(input.Quant)
	cfg.QualPath = absOrEmpty(input.Qual)
	cfg.OutJSON = absOrDefault(input.OutJSON, DefaultResultJSON)
	cfg.OutMarkdown = absOrDefault(input.OutMD, DefaultResultMD)
	return nil
}

// processCalibration starts from the calibrated defaults and applies any overrides.
func processCalibration(cfg *Config, input *ConfigRawInput) error {
	cal := schema.DefaultCalibration()

	h := input.Calibration.Hotspot
	overrides := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"hotspot.cyclomatic_scale", h.CyclomaticScale, &cal.Hotspot.CyclomaticScale},
		{"hotspot.cognitive_scale", h.CognitiveScale, &cal.Hotspot.CognitiveScale},
		{"hotspot.churn_divisor", h.ChurnDivisor, &cal.Hotspot.ChurnDivisor},
		{"hotspot.instability_scale", h.InstabilityScale, &cal.Hotspot.InstabilityScale},
		{"hotspot.any_scale", h.AnyScale, &cal.Hotspot.AnyScale},
		{"hotspot.cyclomatic_weight", h.CyclomaticWeight, &cal.Hotspot.CyclomaticWeight},
		{"hotspot.cognitive_weight", h.CognitiveWeight, &cal.Hotspot.CognitiveWeight},
		{"hotspot.churn_weight", h.ChurnWeight, &cal.Hotspot.ChurnWeight},
		{"hotspot.instability_weight", h.InstabilityWeight, &cal.Hotspot.InstabilityWeight},
		{"hotspot.any_weight", h.AnyWeight, &cal.Hotspot.AnyWeight},
		{"hotspot.ratio", h.Ratio, &cal.Hotspot.Ratio},
	}

	a := input.Calibration.Axes
	overrides = append(overrides, []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"axes.cyclomatic_ceiling", a.CyclomaticCeiling, &cal.Axes.CyclomaticCeiling},
		{"axes.cognitive_ceiling", a.CognitiveCeiling, &cal.Axes.CognitiveCeiling},
		{"axes.halstead_ceiling", a.HalsteadCeiling, &cal.Axes.HalsteadCeiling},
		{"axes.churn_ceiling", a.ChurnCeiling, &cal.Axes.ChurnCeiling},
		{"axes.diagnostic_scale", a.DiagnosticScale, &cal.Axes.DiagnosticScale},
		{"axes.any_density_scale", a.AnyDensityScale, &cal.Axes.AnyDensityScale},
		{"axes.ignore_scale", a.IgnoreScale, &cal.Axes.IgnoreScale},
		{"axes.assertion_scale", a.AssertionScale, &cal.Axes.AssertionScale},
		{"axes.line_coverage_weight", a.LineCoverageWeight, &cal.Axes.LineCoverageWeight},
		{"axes.branch_coverage_weight", a.BranchCoverageWeight, &cal.Axes.BranchCoverageWeight},
		{"axes.mutation_weight", a.MutationWeight, &cal.Axes.MutationWeight},
		{"axes.gap_divisor", a.GapDivisor, &cal.Axes.GapDivisor},
		{"axes.gap_penalty_cap", a.GapPenaltyCap, &cal.Axes.GapPenaltyCap},
	}...)

	for _, o := range overrides {
		if o.src == nil {
			continue
		}
		if *o.src <= 0 {
			return fmt.Errorf("calibration %s must be greater than 0 (received %.3f)", o.name, *o.src)
		}
		*o.dst = *o.src
	}

	if cal.Hotspot.Ratio > 1 {
		return fmt.Errorf("calibration hotspot.ratio cannot exceed 1 (received %.3f)", cal.Hotspot.Ratio)
	}
	hw := cal.Hotspot.CyclomaticWeight + cal.Hotspot.CognitiveWeight + cal.Hotspot.ChurnWeight +
		cal.Hotspot.InstabilityWeight + cal.Hotspot.AnyWeight
	if hw < 0.999 || hw > 1.001 {
		return fmt.Errorf("calibration hotspot weights must sum to 1.0, got %.3f", hw)
	}

	cfg.Calibration = cal
	return nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func absOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	if abs, err := filepath.Abs(value); err == nil {
		return abs
	}
	return value
}

func absOrEmpty(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return absOrDefault(value, "")
}
