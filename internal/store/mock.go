package store

import (
	"github.com/npezzotti/scholarly/internal/types"
	"github.com/stretchr/testify/mock"
)

type MockHubStore struct {
	mock.Mock
}

func (m *MockHubStore) Ping() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockHubStore) Load() []types.Hub {
	args := m.Called()
	if hubs, ok := args.Get(0).([]types.Hub); ok {
		return hubs
	}
	return nil
}

func (m *MockHubStore) Save(hubs []types.Hub) error {
	args := m.Called(hubs)
	return args.Error(0)
}
