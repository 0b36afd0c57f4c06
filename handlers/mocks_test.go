package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/interfaces"
)

// mockDataStore is a minimal in-memory DataStore for handler tests
type mockDataStore struct {
	table         *formulary.Table
	lastUpdated   time.Time
	updating      bool
	startTime     time.Time
	analysisCount int64
}

func (m *mockDataStore) GetTable() *formulary.Table    { return m.table }
func (m *mockDataStore) GetLastUpdated() time.Time     { return m.lastUpdated }
func (m *mockDataStore) IsUpdating() bool              { return m.updating }
func (m *mockDataStore) GetServerStartTime() time.Time { return m.startTime }
func (m *mockDataStore) GetAnalysisCount() int64       { return m.analysisCount }
func (m *mockDataStore) UpdateTable(table *formulary.Table) {
	m.table = table
	m.lastUpdated = time.Now()
}
func (m *mockDataStore) BeginUpdate() bool { return true }
func (m *mockDataStore) EndUpdate()        {}
func (m *mockDataStore) RecordAnalysis()   { m.analysisCount++ }

// MockDataStoreBuilder builds mockDataStore instances for tests
type MockDataStoreBuilder struct {
	store *mockDataStore
}

func NewMockDataStoreBuilder() *MockDataStoreBuilder {
	return &MockDataStoreBuilder{
		store: &mockDataStore{
			table:       formulary.DefaultTable(),
			lastUpdated: time.Now(),
			startTime:   time.Now(),
		},
	}
}

func (b *MockDataStoreBuilder) WithTable(table *formulary.Table) *MockDataStoreBuilder {
	b.store.table = table
	return b
}

func (b *MockDataStoreBuilder) WithLastUpdated(t time.Time) *MockDataStoreBuilder {
	b.store.lastUpdated = t
	return b
}

func (b *MockDataStoreBuilder) Build() *mockDataStore {
	return b.store
}

// mockOCRClient returns canned text, mimicking the swallow-failures contract
type mockOCRClient struct {
	text  string
	calls int
}

func (m *mockOCRClient) ExtractText(ctx context.Context, image []byte) string {
	m.calls++
	return m.text
}

// mockObjectStore records puts and optionally fails them
type mockObjectStore struct {
	puts    []mockPut
	failErr error
}

type mockPut struct {
	key         string
	contentType string
	size        int
}

func (m *mockObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.puts = append(m.puts, mockPut{key: key, contentType: contentType, size: len(data)})
	return nil
}

// mockHealthChecker returns a fixed health verdict
type mockHealthChecker struct{}

func (m *mockHealthChecker) HealthCheck() (string, map[string]any, int) {
	return "healthy", map[string]any{"medicines": 5}, 200
}

func (m *mockHealthChecker) CalculateNextUpdate() time.Time {
	return time.Now().Add(time.Hour)
}

var errStorageDown = fmt.Errorf("storage unavailable")

// Compile-time checks that the mocks satisfy their contracts
var (
	_ interfaces.DataStore     = (*mockDataStore)(nil)
	_ interfaces.OCRClient     = (*mockOCRClient)(nil)
	_ interfaces.ObjectStore   = (*mockObjectStore)(nil)
	_ interfaces.HealthChecker = (*mockHealthChecker)(nil)
)
