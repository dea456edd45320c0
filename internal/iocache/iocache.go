// Package iocache persists summary results and run history across SQL backends.
package iocache

import (
	"sync"

	"github.com/huangsam/sparkline/internal/contract"
)

// CacheStoreManager manages the summary cache and history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	summary      contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewCacheStoreManager returns a manager over the given stores. Either may be nil.
func NewCacheStoreManager(summary contract.CacheStore, history contract.HistoryStore) *CacheStoreManager {
	return &CacheStoreManager{summary: summary, history: history}
}

// GetSummaryStore returns the summary CacheStore.
func (mgr *CacheStoreManager) GetSummaryStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.summary
}

// GetHistoryStore returns the run HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
