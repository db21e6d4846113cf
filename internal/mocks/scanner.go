package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/2ykwang/fitmac/internal/types"
)

// MockScanner implements scanner.Scanner for testing.
type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ScanResult), args.Error(1)
}

func (m *MockScanner) Category() types.Category {
	args := m.Called()
	return args.Get(0).(types.Category)
}

func (m *MockScanner) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}
