package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorGrade(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	for _, grade := range []string{"A", "B", "C", "D", "E", "F", "N/A"} {
		t.Run(grade, func(t *testing.T) {
			assert.Equal(t, grade, GetColorGrade(grade))
		})
	}
}

func TestGetColorSeverity(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	assert.Equal(t, "critical", GetColorSeverity("critical"))
	assert.Equal(t, "warning", GetColorSeverity("warning"))
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		excludes   []string
		wantIgnore bool
	}{
		{
			name:       "empty excludes",
			path:       "src/main.ts",
			excludes:   []string{},
			wantIgnore: false,
		},
		{
			name:       "prefix match",
			path:       "legacy/widgets/table.tsx",
			excludes:   []string{"legacy/"},
			wantIgnore: true,
		},
		{
			name:       "suffix match",
			path:       "src/api/client.gen.ts",
			excludes:   []string{".gen.ts"},
			wantIgnore: true,
		},
		{
			name:       "glob match basename",
			path:       "src/api/schema.gen.ts",
			excludes:   []string{"*.gen.ts"},
			wantIgnore: true,
		},
		{
			name:       "substring match",
			path:       "src/generated/code.ts",
			excludes:   []string{"generated"},
			wantIgnore: true,
		},
		{
			name:       "no match",
			path:       "src/core/engine.ts",
			excludes:   []string{"legacy/", "generated", ".gen.ts"},
			wantIgnore: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldIgnore(tt.path, tt.excludes)
			assert.Equal(t, tt.wantIgnore, got)
		})
	}
}

func TestGetHistoryDBFilePath(t *testing.T) {
	path := GetHistoryDBFilePath()

	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".codehealth_history.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "src/a.ts", TruncatePath("src/a.ts", 40))
	assert.Equal(t, "...ts/a.ts", TruncatePath("src/components/a.ts", 10))
	assert.Equal(t, "src/components/a.ts", TruncatePath("src/components/a.ts", 3))
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
