// Package iocache persists scorecard history to SQLite, MySQL or PostgreSQL.
package iocache

import (
	"sync"

	"github.com/gihwan-dev/codehealth/internal/contract"
)

// HistoryStoreManager owns the process-wide history store.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.HistoryStore
}

// GetHistoryStore returns the history store, or nil when tracking is disabled.
func (mgr *HistoryStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
