package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gihwan-dev/codehealth/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput(root string) *ConfigRawInput {
	return &ConfigRawInput{
		ProjectRootStr: root,
		Workers:        4,
		Output:         "text",
		Color:          "no",
		Profile:        "balanced",
		HistoryBackend: "none",
		Mode:           "working",
		WindowDays:     90,
		ClosureLimit:   300,
		AutoDetectTSC:  "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		check       func(*testing.T, *Config)
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, root, cfg.ProjectRoot)
				assert.Equal(t, schema.WorkingMode, cfg.Mode)
				assert.Equal(t, schema.BalancedProfile, cfg.Profile)
				assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
				assert.Equal(t, filepath.Join(root, DefaultOutputDir, DefaultQuantFile), cfg.OutQuant)
				assert.Equal(t, filepath.Join(root, DefaultOutputDir, DefaultUnavailFile), cfg.OutUnavailable)
				assert.False(t, cfg.UseColors)
				assert.True(t, cfg.AutoDetectTSC)
				assert.Equal(t, schema.DefaultCalibration(), cfg.Calibration)
			},
		},
		{
			name:        "missing project root",
			mutate:      func(in *ConfigRawInput) { in.ProjectRootStr = filepath.Join(root, "nope") },
			expectError: true,
		},
		{
			name:        "invalid mode",
			mutate:      func(in *ConfigRawInput) { in.Mode = "invalid_mode" },
			expectError: true,
		},
		{
			name:        "invalid profile",
			mutate:      func(in *ConfigRawInput) { in.Profile = "lenient" },
			expectError: true,
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "csv" },
			expectError: true,
		},
		{
			name:        "zero workers",
			mutate:      func(in *ConfigRawInput) { in.Workers = 0 },
			expectError: true,
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "sometimes" },
			expectError: true,
		},
		{
			name: "non-positive window and closure fall back to defaults",
			mutate: func(in *ConfigRawInput) {
				in.WindowDays = -1
				in.ClosureLimit = 0
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultWindowDays, cfg.WindowDays)
				assert.Equal(t, DefaultClosureLimit, cfg.ClosureLimit)
			},
		},
		{
			name: "branch mode keeps target",
			mutate: func(in *ConfigRawInput) {
				in.Mode = "BRANCH"
				in.Target = " main "
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.BranchMode, cfg.Mode)
				assert.Equal(t, "main", cfg.Target)
			},
		},
		{
			name:   "excludes are split on commas",
			mutate: func(in *ConfigRawInput) { in.Exclude = "legacy/, *.gen.ts ,," },
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"legacy/", "*.gen.ts"}, cfg.Excludes)
			},
		},
		{
			name: "mysql backend requires a connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = "mysql"
			},
			expectError: true,
		},
		{
			name: "postgresql backend with connection string",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = "postgresql"
				in.HistoryDBConnect = "host=localhost dbname=codehealth"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, schema.PostgreSQLBackend, cfg.HistoryBackend)
			},
		},
		{
			name: "calibration override applied",
			mutate: func(in *ConfigRawInput) {
				v := 12.0
				in.Calibration.Hotspot.ChurnDivisor = &v
				c := 900.0
				in.Calibration.Axes.ChurnCeiling = &c
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 12.0, cfg.Calibration.Hotspot.ChurnDivisor)
				assert.Equal(t, 900.0, cfg.Calibration.Axes.ChurnCeiling)
				assert.Equal(t, 3.0, cfg.Calibration.Hotspot.CyclomaticScale)
			},
		},
		{
			name: "negative calibration rejected",
			mutate: func(in *ConfigRawInput) {
				v := -1.0
				in.Calibration.Axes.HalsteadCeiling = &v
			},
			expectError: true,
		},
		{
			name: "hotspot weights must sum to one",
			mutate: func(in *ConfigRawInput) {
				v := 0.9
				in.Calibration.Hotspot.CyclomaticWeight = &v
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(root)
			tt.mutate(input)
			cfg := &Config{}

			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestResolveProjectRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.ts")
	require.NoError(t, os.WriteFile(file, []byte("export {};\n"), 0o644))

	got, err := ResolveProjectRoot(root + string(filepath.Separator) + ".")
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = ResolveProjectRoot(filepath.Join(root, "missing"))
	assert.ErrorContains(t, err, "cannot access project root")

	_, err = ResolveProjectRoot(file)
	assert.ErrorContains(t, err, "is not a directory")
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/codehealth", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/codehealth", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=codehealth", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Excludes: []string{"legacy/"}, Mode: schema.StagedMode}
	clone := cfg.Clone()
	clone.Excludes[0] = "other/"
	clone.Mode = schema.WorkingMode

	assert.Equal(t, "legacy/", cfg.Excludes[0])
	assert.Equal(t, schema.StagedMode, cfg.Mode)
}
