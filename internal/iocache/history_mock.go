package iocache

import (
	"github.com/gihwan-dev/codehealth/internal/contract"
	"github.com/gihwan-dev/codehealth/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// RecordScorecard implements the HistoryStore interface.
func (m *MockHistoryStore) RecordScorecard(run schema.ScorecardRunRecord, files []schema.FileScoreRecord) error {
	args := m.Called(run, files)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.ScorecardRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.ScorecardRunRecord)
	return runs, args.Error(1)
}

// GetAllFileScores implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllFileScores() ([]schema.FileScoreRecord, error) {
	args := m.Called()
	files, _ := args.Get(0).([]schema.FileScoreRecord)
	return files, args.Error(1)
}

// Clear implements the HistoryStore interface.
func (m *MockHistoryStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
