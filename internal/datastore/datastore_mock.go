package datastore

import (
	"time"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetActivityStore implements the StoreManager interface.
func (m *MockStoreManager) GetActivityStore() contract.ActivityStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ActivityStore)
	return store
}

// GetInsightStore implements the StoreManager interface.
func (m *MockStoreManager) GetInsightStore() contract.InsightStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.InsightStore)
	return store
}

// MockActivityStore is a mock implementation of ActivityStore for testing.
type MockActivityStore struct {
	mock.Mock
}

var _ contract.ActivityStore = &MockActivityStore{} // Compile-time check

// UpsertDailyAggregate implements the ActivityStore interface.
func (m *MockActivityStore) UpsertDailyAggregate(agg schema.DailyAggregate, today time.Time, recompute bool) (bool, error) {
	args := m.Called(agg, today, recompute)
	return args.Bool(0), args.Error(1)
}

// GetDailyAggregates implements the ActivityStore interface.
func (m *MockActivityStore) GetDailyAggregates(user string, from, to time.Time) ([]schema.DailyAggregate, error) {
	args := m.Called(user, from, to)
	rows, _ := args.Get(0).([]schema.DailyAggregate)
	return rows, args.Error(1)
}

// GetAllDailyAggregates implements the ActivityStore interface.
func (m *MockActivityStore) GetAllDailyAggregates() ([]schema.DailyAggregate, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.DailyAggregate)
	return rows, args.Error(1)
}

// GetUser implements the ActivityStore interface.
func (m *MockActivityStore) GetUser(login string) (schema.UserRecord, bool, error) {
	args := m.Called(login)
	rec, _ := args.Get(0).(schema.UserRecord)
	return rec, args.Bool(1), args.Error(2)
}

// UpsertUser implements the ActivityStore interface.
func (m *MockActivityStore) UpsertUser(rec schema.UserRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

// GetStatus implements the ActivityStore interface.
func (m *MockActivityStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.StoreStatus)
	return status, args.Error(1)
}

// Close implements the ActivityStore interface.
func (m *MockActivityStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockInsightStore is a mock implementation of InsightStore for testing.
type MockInsightStore struct {
	mock.Mock
}

var _ contract.InsightStore = &MockInsightStore{} // Compile-time check

// SupersedeAndInsert implements the InsightStore interface.
func (m *MockInsightStore) SupersedeAndInsert(next schema.ArchetypeAssignment) (*schema.ArchetypeAssignment, error) {
	args := m.Called(next)
	prev, _ := args.Get(0).(*schema.ArchetypeAssignment)
	return prev, args.Error(1)
}

// GetCurrentArchetype implements the InsightStore interface.
func (m *MockInsightStore) GetCurrentArchetype(user string) (*schema.ArchetypeAssignment, error) {
	args := m.Called(user)
	rec, _ := args.Get(0).(*schema.ArchetypeAssignment)
	return rec, args.Error(1)
}

// ListArchetypeHistory implements the InsightStore interface.
func (m *MockInsightStore) ListArchetypeHistory(user string) ([]schema.ArchetypeAssignment, error) {
	args := m.Called(user)
	rows, _ := args.Get(0).([]schema.ArchetypeAssignment)
	return rows, args.Error(1)
}

// GetAllArchetypeAssignments implements the InsightStore interface.
func (m *MockInsightStore) GetAllArchetypeAssignments() ([]schema.ArchetypeAssignment, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.ArchetypeAssignment)
	return rows, args.Error(1)
}

// RecordBurnoutPrediction implements the InsightStore interface.
func (m *MockInsightStore) RecordBurnoutPrediction(rec schema.BurnoutPredictionRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

// ListBurnoutPredictions implements the InsightStore interface.
func (m *MockInsightStore) ListBurnoutPredictions(user string, limit int) ([]schema.BurnoutPredictionRecord, error) {
	args := m.Called(user, limit)
	rows, _ := args.Get(0).([]schema.BurnoutPredictionRecord)
	return rows, args.Error(1)
}

// GetAllBurnoutPredictions implements the InsightStore interface.
func (m *MockInsightStore) GetAllBurnoutPredictions() ([]schema.BurnoutPredictionRecord, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.BurnoutPredictionRecord)
	return rows, args.Error(1)
}
