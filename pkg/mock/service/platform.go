package mock

import (
	"context"

	"cloud.google.com/go/run/apiv2/runpb"
	"github.com/stretchr/testify/mock"
)

// MockPlatformService is a mock of the deployment.PlatformService interface
type MockPlatformService struct {
	mock.Mock
}

func (m *MockPlatformService) Get(ctx context.Context, name string) (*runpb.Service, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*runpb.Service), args.Error(1)
}

func (m *MockPlatformService) Create(ctx context.Context, parent, serviceId string, svc *runpb.Service) (*runpb.Service, error) {
	args := m.Called(ctx, parent, serviceId, svc)
	return args.Get(0).(*runpb.Service), args.Error(1)
}

func (m *MockPlatformService) Update(ctx context.Context, svc *runpb.Service) (*runpb.Service, error) {
	args := m.Called(ctx, svc)
	return args.Get(0).(*runpb.Service), args.Error(1)
}
