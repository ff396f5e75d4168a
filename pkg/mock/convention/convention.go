package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Nice-2-Meet-U/runway/pkg/convention/deployment"
	"github.com/Nice-2-Meet-U/runway/pkg/convention/release"
)

// MockReleaseConvention is a mock of the pipeline.ReleaseConvention interface
type MockReleaseConvention struct {
	mock.Mock
}

func (m *MockReleaseConvention) Publish(ctx context.Context) (release.Build, error) {
	args := m.Called(ctx)
	return args.Get(0).(release.Build), args.Error(1)
}

// MockDeploymentConvention is a mock of the pipeline.DeploymentConvention interface
type MockDeploymentConvention struct {
	mock.Mock
}

func (m *MockDeploymentConvention) Find(ctx context.Context) (deployment.Deployment, error) {
	args := m.Called(ctx)
	return args.Get(0).(deployment.Deployment), args.Error(1)
}

func (m *MockDeploymentConvention) Deploy(ctx context.Context, imageUri string) (deployment.Deployment, error) {
	args := m.Called(ctx, imageUri)
	return args.Get(0).(deployment.Deployment), args.Error(1)
}

func (m *MockDeploymentConvention) Describe(ctx context.Context) (deployment.Deployment, error) {
	args := m.Called(ctx)
	return args.Get(0).(deployment.Deployment), args.Error(1)
}
