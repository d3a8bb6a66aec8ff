package contract

import (
	"context"

	"github.com/gihwan-dev/codehealth/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	var mockArgs []any
	mockArgs = append(mockArgs, ctx, repoPath)
	for _, arg := range args {
		mockArgs = append(mockArgs, arg)
	}
	ret := m.Called(mockArgs...)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	root, _ := ret.Get(0).(string)
	return root, ret.Error(1)
}

// ChangedFiles implements the GitClient interface.
func (m *MockGitClient) ChangedFiles(ctx context.Context, repoPath string, mode schema.TargetMode, target string) ([]string, error) {
	ret := m.Called(ctx, repoPath, mode, target)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// NumstatLog implements the GitClient interface.
func (m *MockGitClient) NumstatLog(ctx context.Context, repoPath string, windowDays int, files []string) ([]byte, error) {
	ret := m.Called(ctx, repoPath, windowDays, files)
	output, _ := ret.Get(0).([]byte)
	return output, ret.Error(1)
}
