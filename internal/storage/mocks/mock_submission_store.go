package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/smdata-dev/smdata/internal/storage"
)

// MockSubmissionStore is a mock implementation of storage.SubmissionStore.
type MockSubmissionStore struct {
	mock.Mock
}

//nolint:revive
func (m *MockSubmissionStore) Create(ctx context.Context, in storage.NewSubmission) (*storage.Submission, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Submission), args.Error(1)
}

//nolint:revive
func (m *MockSubmissionStore) MarkNotified(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

//nolint:revive
func (m *MockSubmissionStore) Get(ctx context.Context, id string) (*storage.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Submission), args.Error(1)
}

//nolint:revive
func (m *MockSubmissionStore) List(ctx context.Context, filter storage.ListFilter) ([]*storage.Submission, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Submission), args.Error(1)
}

//nolint:revive
func (m *MockSubmissionStore) CountPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
