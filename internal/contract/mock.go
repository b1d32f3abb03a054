package contract

import (
	"context"
	"time"

	"github.com/devflow/devflow/schema"
	"github.com/stretchr/testify/mock"
)

// MockActivitySource is a mock implementation of ActivitySource for testing.
type MockActivitySource struct {
	mock.Mock
}

var _ ActivitySource = &MockActivitySource{} // Compile-time check

// FetchEvents implements the ActivitySource interface.
func (m *MockActivitySource) FetchEvents(ctx context.Context, user string, repos []string, since, until time.Time) ([]schema.ActivityEvent, error) {
	args := m.Called(ctx, user, repos, since, until)
	events, _ := args.Get(0).([]schema.ActivityEvent)
	return events, args.Error(1)
}
