package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/smdata-dev/smdata/internal/notification"
	"github.com/smdata-dev/smdata/internal/service"
	"github.com/smdata-dev/smdata/internal/storage"
)

// MockContactService is a mock implementation of service.ContactService.
type MockContactService struct {
	mock.Mock
}

//nolint:revive
func (m *MockContactService) Submit(ctx context.Context, form service.ContactForm) (*service.SubmitResult, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

//nolint:revive
func (m *MockContactService) Get(ctx context.Context, id string) (*storage.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Submission), args.Error(1)
}

//nolint:revive
func (m *MockContactService) List(ctx context.Context, filter storage.ListFilter) ([]*storage.Submission, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Submission), args.Error(1)
}

//nolint:revive
func (m *MockContactService) TestNotification(ctx context.Context) (notification.SendResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(notification.SendResult), args.Error(1)
}
