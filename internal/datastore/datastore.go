// Package datastore persists daily aggregates and derived insights.
package datastore

import (
	"sync"

	"github.com/devflow/devflow/internal/contract"
)

// StoreManager hands out the activity and insight stores. A single SQL
// store backs both.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	activity     contract.ActivityStore
	insight      contract.InsightStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetActivityStore returns the ActivityStore.
func (mgr *StoreManager) GetActivityStore() contract.ActivityStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.activity
}

// GetInsightStore returns the InsightStore.
func (mgr *StoreManager) GetInsightStore() contract.InsightStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.insight
}
